package podimo

import (
	"errors"
	"strings"
	"testing"
)

var (
	testRegions = []string{"nl", "de"}
	testLocales = []string{"nl-NL", "de-DE"}
)

func validCreds() Credentials {
	return Credentials{
		Email:    "user@example.com",
		Password: "hunter2",
		Region:   "nl",
		Locale:   "nl-NL",
	}
}

func TestCacheKeyDeterministic(t *testing.T) {
	a := validCreds()
	b := validCreds()
	if a.CacheKey() != b.CacheKey() {
		t.Fatal("same credentials must derive the same key")
	}
}

func TestCacheKeyDiffersPerSecret(t *testing.T) {
	a := validCreds()
	b := validCreds()
	b.Password = "different"
	if a.CacheKey() == b.CacheKey() {
		t.Fatal("different passwords must derive different keys")
	}
}

func TestCacheKeySeparatorPreventsShiftCollision(t *testing.T) {
	a := Credentials{Email: "ab", Password: "c"}
	b := Credentials{Email: "a", Password: "bc"}
	if a.CacheKey() == b.CacheKey() {
		t.Fatal("separator must keep shifted credentials apart")
	}
}

func TestCacheKeyShape(t *testing.T) {
	key := validCreds().CacheKey()
	if len(key) != 64 {
		t.Fatalf("key length = %d, want 64 hex chars", len(key))
	}
	if strings.ToLower(key) != key {
		t.Fatal("key must be lowercase hex")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Credentials)
		ok     bool
	}{
		{"valid", func(c *Credentials) {}, true},
		{"empty email", func(c *Credentials) { c.Email = "" }, false},
		{"empty password", func(c *Credentials) { c.Password = "" }, false},
		{"email too long", func(c *Credentials) { c.Email = strings.Repeat("a", 257) }, false},
		{"password too long", func(c *Credentials) { c.Password = strings.Repeat("a", 257) }, false},
		{"not an email", func(c *Credentials) { c.Email = "not-an-address" }, false},
		{"unknown region", func(c *Credentials) { c.Region = "xx" }, false},
		{"unknown locale", func(c *Credentials) { c.Locale = "xx-XX" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := validCreds()
			tt.mutate(&creds)
			err := creds.Validate(testRegions, testLocales)
			if tt.ok && err != nil {
				t.Fatalf("Validate() error = %v, want nil", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("error %v does not wrap ErrInvalidInput", err)
				}
			}
		})
	}
}
