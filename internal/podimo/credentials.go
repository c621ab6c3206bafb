package podimo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/mail"
	"strings"
)

const maxCredentialLength = 256

// Credentials are supplied per request and never stored; only the derived
// cache key is used to scope cached state to an account.
type Credentials struct {
	Email    string
	Password string
	Region   string
	Locale   string
}

// Validate rejects malformed credentials before any network call is made.
func (c Credentials) Validate(regions, locales []string) error {
	if c.Email == "" || c.Password == "" {
		return fmt.Errorf("%w: empty email or password", ErrInvalidInput)
	}
	if len(c.Email) > maxCredentialLength || len(c.Password) > maxCredentialLength {
		return fmt.Errorf("%w: email or password too long", ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(c.Email)
	if err != nil || !strings.Contains(addr.Address, "@") {
		return fmt.Errorf("%w: email is not in the correct format", ErrInvalidInput)
	}
	if !contains(regions, c.Region) {
		return fmt.Errorf("%w: unknown region %q", ErrInvalidInput, c.Region)
	}
	if !contains(locales, c.Locale) {
		return fmt.Errorf("%w: unknown locale %q", ErrInvalidInput, c.Locale)
	}
	return nil
}

// CacheKey derives the irreversible digest that joins all credential-scoped
// caches. The separator keeps "ab"+"c" and "a"+"bc" from colliding.
func (c Credentials) CacheKey() string {
	sum := sha256.Sum256([]byte(c.Email + "~" + c.Password))
	return hex.EncodeToString(sum[:])
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
