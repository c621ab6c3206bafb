package podimo

import (
	"context"
	"fmt"
	"net/http"
)

const queryPreregister = `
query AuthorizationPreregisterUser($locale: String!, $referenceUser: String, $countryCode: String, $appsFlyerId: String) {
    tokenWithPreregisterUser(
        locale: $locale
        referenceUser: $referenceUser
        countryCode: $countryCode
        source: MOBILE
        appsFlyerId: $appsFlyerId
        currentCountry: $countryCode
    ) {
        token
    }
}`

const queryOnboarding = `
query OnboardingQuery {
    userOnboardingFlow {
        id
    }
}`

const queryAuthorize = `
query AuthorizationAuthorize($email: String!, $password: String!, $locale: String!, $preregisterId: String) {
    tokenWithCredentials(
    email: $email
    password: $password
    locale: $locale
    preregisterId: $preregisterId
) {
    token
  }
}`

// Login runs the three-step handshake and returns a bearer token. The steps
// are strictly sequential: the anonymous token from pre-registration
// authorizes the onboarding query, and the onboarding id is part of the
// credentialed authorization.
func (c *Client) Login(ctx context.Context, creds Credentials, jar http.CookieJar) (string, error) {
	preauth, err := c.preregisterToken(ctx, creds, jar)
	if err != nil {
		return "", fmt.Errorf("preregister: %w", err)
	}

	onboardingID, err := c.onboardingID(ctx, preauth, creds, jar)
	if err != nil {
		return "", fmt.Errorf("onboarding: %w", err)
	}

	token, err := c.authorize(ctx, creds, preauth, onboardingID, jar)
	if err != nil {
		return "", err
	}
	return token, nil
}

// preregisterToken requests the anonymous token that authorizes the rest of
// the handshake, bound to a synthetic installation identifier.
func (c *Client) preregisterToken(ctx context.Context, creds Credentials, jar http.CookieJar) (string, error) {
	req := GraphQLRequest{
		Query:         queryPreregister,
		OperationName: "AuthorizationPreregisterUser",
		Variables: map[string]any{
			"locale":      creds.Locale,
			"countryCode": creds.Region,
			"appsFlyerId": randomFlyerID(),
		},
	}

	var resp preregisterResponse
	if err := c.execute(ctx, req, "", creds.Locale, jar, &resp); err != nil {
		return "", err
	}
	if resp.TokenWithPreregisterUser.Token == "" {
		return "", ErrNoAnonymousToken
	}
	return resp.TokenWithPreregisterUser.Token, nil
}

func (c *Client) onboardingID(ctx context.Context, preauth string, creds Credentials, jar http.CookieJar) (string, error) {
	req := GraphQLRequest{
		Query:         queryOnboarding,
		OperationName: "OnboardingQuery",
	}

	var resp onboardingResponse
	if err := c.execute(ctx, req, preauth, creds.Locale, jar, &resp); err != nil {
		return "", err
	}
	return resp.UserOnboardingFlow.ID, nil
}

func (c *Client) authorize(ctx context.Context, creds Credentials, preauth, onboardingID string, jar http.CookieJar) (string, error) {
	req := GraphQLRequest{
		Query:         queryAuthorize,
		OperationName: "AuthorizationAuthorize",
		Variables: map[string]any{
			"email":         creds.Email,
			"password":      creds.Password,
			"locale":        creds.Locale,
			"preregisterId": onboardingID,
		},
	}

	var resp authorizeResponse
	if err := c.execute(ctx, req, preauth, creds.Locale, jar, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if resp.TokenWithCredentials.Token == "" {
		// The upstream answers an empty token for both a wrong password
		// and a transient outage.
		return "", ErrAuthFailed
	}
	return resp.TokenWithCredentials.Token, nil
}
