package vaultapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordListShapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantIDs []int64
		wantErr bool
	}{
		{
			name:    "envelope",
			body:    `{"passwords": [{"id": 1}, {"id": 2}]}`,
			wantIDs: []int64{1, 2},
		},
		{
			name:    "bare array",
			body:    `[{"id": 3}]`,
			wantIDs: []int64{3},
		},
		{
			name:    "empty envelope",
			body:    `{"passwords": []}`,
			wantIDs: nil,
		},
		{
			name:    "empty array",
			body:    `[]`,
			wantIDs: nil,
		},
		{
			name:    "envelope with surrounding whitespace",
			body:    "\n  {\"passwords\": [{\"id\": 9}]}  ",
			wantIDs: []int64{9},
		},
		{
			name:    "not a listing",
			body:    `"nope"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var list recordList
			err := list.UnmarshalJSON([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var ids []int64
			for _, r := range list.Records {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestAPIErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      APIError
		expected string
	}{
		{name: "with message", err: APIError{StatusCode: 409, Message: "already exists"}, expected: "already exists"},
		{name: "without message", err: APIError{StatusCode: 500}, expected: "HTTP 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}
