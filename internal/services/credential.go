package services

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

const saltHexLen = 32 // 16 random bytes, hex encoded

const passwordSymbols = "!\"#$%&'()*+,-./:;<=>?@[]^_`{|}~"

// ValidPassword reports whether pw satisfies the admin password policy:
// 8 to 32 characters with at least one uppercase letter, one lowercase
// letter, one digit and one symbol from the fixed punctuation set.
func ValidPassword(pw string) bool {
	if len(pw) < 8 || len(pw) > 32 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// HashPassword returns an opaque token: a fresh random hex salt followed
// by the hex SHA-256 digest of password+salt. Two calls on the same
// password yield different tokens.
func HashPassword(pw string) (string, error) {
	b := make([]byte, saltHexLen/2)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	salt := hex.EncodeToString(b)
	digest := sha256.Sum256([]byte(pw + salt))
	return salt + hex.EncodeToString(digest[:]), nil
}

// VerifyPassword recomputes the digest over password and the token's salt
// prefix and compares in constant time. Malformed tokens never verify.
func VerifyPassword(pw, token string) bool {
	if len(token) <= saltHexLen {
		return false
	}
	salt := token[:saltHexLen]
	digest := sha256.Sum256([]byte(pw + salt))
	want := hex.EncodeToString(digest[:])
	return subtle.ConstantTimeCompare([]byte(want), []byte(token[saltHexLen:])) == 1
}
