package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// Verifier resolves a Google ID token into the holder's identity by
// calling the tokeninfo endpoint. Audience is checked against the
// configured OAuth client id.
type Verifier struct {
	httpClient *http.Client
	clientID   string
	endpoint   string
}

type TokenInfo struct {
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Audience      string `json:"aud"`
	Picture       string `json:"picture"`
}

func NewVerifier(clientID string, timeout time.Duration, httpClient *http.Client) *Verifier {
	if httpClient == nil {
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Verifier{
		httpClient: httpClient,
		clientID:   strings.TrimSpace(clientID),
		endpoint:   tokenInfoURL,
	}
}

func (v *Verifier) Verify(ctx context.Context, idToken string) (TokenInfo, error) {
	if strings.TrimSpace(idToken) == "" {
		return TokenInfo{}, fmt.Errorf("id token is empty")
	}

	endpoint := v.endpoint + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return TokenInfo{}, fmt.Errorf("build tokeninfo request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return TokenInfo{}, fmt.Errorf("call tokeninfo endpoint: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return TokenInfo{}, fmt.Errorf("tokeninfo status %d", resp.StatusCode)
	}

	var info TokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return TokenInfo{}, fmt.Errorf("decode tokeninfo response: %w", err)
	}

	if v.clientID != "" && info.Audience != v.clientID {
		return TokenInfo{}, fmt.Errorf("tokeninfo audience mismatch")
	}
	if info.Email == "" {
		return TokenInfo{}, fmt.Errorf("tokeninfo response has no email")
	}

	return info, nil
}

// SetEndpoint overrides the tokeninfo URL, used by tests.
func (v *Verifier) SetEndpoint(endpoint string) {
	if strings.TrimSpace(endpoint) != "" {
		v.endpoint = endpoint
	}
}
