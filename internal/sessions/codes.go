package sessions

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Session codes are read aloud and typed into watch URLs, so the alphabet
// drops 0, O, 1, I and L.
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 4

var alphabetMax = big.NewInt(int64(len(alphabet)))

func GenerateCode() (string, error) {
	var b strings.Builder
	b.Grow(codeLength)
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, alphabetMax)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeCode uppercases a code taken from a URL and reports whether it
// could have been generated.
func NormalizeCode(s string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if len(code) != codeLength {
		return "", false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(alphabet, code[i]) < 0 {
			return "", false
		}
	}
	return code, true
}
