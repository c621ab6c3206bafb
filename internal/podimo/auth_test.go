package podimo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

// handshakeTransport answers the three login operations like the upstream
// API would, keyed on operationName.
func handshakeTransport(t *testing.T, authorizeToken string, opsSeen *[]string) Transport {
	t.Helper()
	return transportFunc(func(_ context.Context, body []byte, headers map[string]string, _ http.CookieJar) (int, []byte, error) {
		var req GraphQLRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return 0, nil, err
		}
		if opsSeen != nil {
			*opsSeen = append(*opsSeen, req.OperationName)
		}

		switch req.OperationName {
		case "AuthorizationPreregisterUser":
			if headers["authorization"] != "" {
				t.Error("preregister must be anonymous")
			}
			return 200, []byte(`{"data":{"tokenWithPreregisterUser":{"token":"anon-token"}}}`), nil
		case "OnboardingQuery":
			if headers["authorization"] != "anon-token" {
				t.Errorf("onboarding authorization = %q, want anon-token", headers["authorization"])
			}
			return 200, []byte(`{"data":{"userOnboardingFlow":{"id":"flow-1"}}}`), nil
		case "AuthorizationAuthorize":
			if req.Variables["preregisterId"] != "flow-1" {
				t.Errorf("preregisterId = %v, want flow-1", req.Variables["preregisterId"])
			}
			resp := fmt.Sprintf(`{"data":{"tokenWithCredentials":{"token":%q}}}`, authorizeToken)
			return 200, []byte(resp), nil
		default:
			return 0, nil, fmt.Errorf("unexpected operation %q", req.OperationName)
		}
	})
}

func TestLoginHandshake(t *testing.T) {
	var ops []string
	c := NewClient(handshakeTransport(t, "bearer-token", &ops))

	token, err := c.Login(context.Background(), validCreds(), nil)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token != "bearer-token" {
		t.Fatalf("token = %q, want bearer-token", token)
	}

	want := []string{"AuthorizationPreregisterUser", "OnboardingQuery", "AuthorizationAuthorize"}
	if len(ops) != len(want) {
		t.Fatalf("operations = %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("operations = %v, want %v", ops, want)
		}
	}
}

func TestLoginEmptyTokenIsAuthFailure(t *testing.T) {
	c := NewClient(handshakeTransport(t, "", nil))

	_, err := c.Login(context.Background(), validCreds(), nil)
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("error = %v, want ErrAuthFailed", err)
	}
}

func TestLoginMissingAnonymousToken(t *testing.T) {
	c := NewClient(staticTransport(200, `{"data":{"tokenWithPreregisterUser":{"token":""}}}`))

	_, err := c.Login(context.Background(), validCreds(), nil)
	if !errors.Is(err, ErrNoAnonymousToken) {
		t.Fatalf("error = %v, want ErrNoAnonymousToken", err)
	}
}

func TestLoginStopsAfterFailedStep(t *testing.T) {
	var calls int
	c := NewClient(transportFunc(func(context.Context, []byte, map[string]string, http.CookieJar) (int, []byte, error) {
		calls++
		return 503, []byte("unavailable"), nil
	}))

	_, err := c.Login(context.Background(), validCreds(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d; a failed step must not be followed by the next", calls)
	}
}
