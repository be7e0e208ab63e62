package cli

// maskSecret replaces a secret with a fixed-width mask. The mask never
// encodes the real length.
func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	return "********"
}

// revealOrMask returns the secret in cleartext only when revealed.
func revealOrMask(value string, revealed bool) string {
	if revealed {
		return value
	}
	return maskSecret(value)
}
