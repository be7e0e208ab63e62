package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{name: "empty stays empty", value: "", expected: ""},
		{name: "short secret", value: "abc", expected: "********"},
		{name: "long secret same width", value: "correct horse battery staple", expected: "********"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskSecret(tt.value))
		})
	}
}

func TestRevealOrMask(t *testing.T) {
	assert.Equal(t, "hunter22", revealOrMask("hunter22", true))
	assert.Equal(t, "********", revealOrMask("hunter22", false))
	assert.Equal(t, "", revealOrMask("", false))
}
