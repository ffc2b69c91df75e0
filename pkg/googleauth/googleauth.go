package googleauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var ErrInvalidIDToken = errors.New("invalid google id token")

const tokenInfoEndpoint = "https://oauth2.googleapis.com/tokeninfo"

// Profile is the subset of Google's tokeninfo response we care about.
type Profile struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`

	Audience      string `json:"aud"`
	EmailVerified string `json:"email_verified"` // tokeninfo returns "true"/"false" as strings
}

// Verifier resolves a Google ID token to a verified profile.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Profile, error)
}

// TokenInfoVerifier validates ID tokens against Google's tokeninfo endpoint.
// Signature and expiry checks are Google's job; we only check the audience.
type TokenInfoVerifier struct {
	ClientID string
	Client   *http.Client
	Endpoint string // Overridable for tests
}

func NewTokenInfoVerifier(clientID string) *TokenInfoVerifier {
	return &TokenInfoVerifier{
		ClientID: clientID,
		Client:   &http.Client{Timeout: 10 * time.Second},
		Endpoint: tokenInfoEndpoint,
	}
}

func (v *TokenInfoVerifier) Verify(ctx context.Context, idToken string) (*Profile, error) {
	if idToken == "" {
		return nil, ErrInvalidIDToken
	}

	reqURL := v.Endpoint + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google tokeninfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidIDToken
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("google tokeninfo: %w", err)
	}

	if v.ClientID != "" && profile.Audience != v.ClientID {
		return nil, ErrInvalidIDToken
	}
	if profile.EmailVerified != "true" {
		return nil, ErrInvalidIDToken
	}

	return &profile, nil
}
