package services

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode"
)

const slugSuffixLength = 6

var codeAlphabet = []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")

// slugify lowercases the title, collapses runs of non-alphanumerics into
// single hyphens, and trims leading/trailing hyphens.
func slugify(title string) string {
	var b strings.Builder
	prevHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteRune('-')
				prevHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// generateCode returns n random characters from an unambiguous uppercase
// alphabet, used for confirmation codes and slug collision suffixes.
func generateCode(n int) (string, error) {
	b := make([]rune, n)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < n; i++ {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[v.Int64()]
	}
	return string(b), nil
}
