package utils

const (
	tokenPrefixLen = 12
	tokenSuffixLen = 8
)

// MaskToken shortens a token for display. Long tokens keep the first 12 and
// last 8 characters; short ones show roughly their first half.
func MaskToken(token string) string {
	r := []rune(token)
	n := len(r)
	switch {
	case n > tokenPrefixLen+tokenSuffixLen:
		return string(r[:tokenPrefixLen]) + "..." + string(r[n-tokenSuffixLen:])
	case n <= 6:
		return string(r[:(n+1)/2]) + "***"
	default:
		return string(r[:n/2]) + "***"
	}
}
