package form

// NormalizeTime canonicalizes a partial time string to HH:MM:SS. A 5-rune
// HH:MM value is treated as missing seconds and gets ":00" appended; anything
// of length 8 or more passes through unchanged. The string is not validated
// as a well-formed time; the backend owns the canonical format and rejects
// malformed values.
func NormalizeTime(raw string) string {
	if len(raw) == 5 {
		return raw + ":00"
	}
	return raw
}
