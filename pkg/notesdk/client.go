package notesdk

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"
)

// SDKClient is a client for the notes service. It keeps cookies between
// calls, which the CSRF double-submit check depends on, so one SDKClient
// behaves like one browser.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	mu        sync.Mutex
	csrfToken string
}

// NewSDKClient creates a client with its own cookie jar.
func NewSDKClient(baseURL string) *SDKClient {
	jar, _ := cookiejar.New(nil) // never fails with nil options

	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}
}

// Signup registers a new account. It does not log in.
func (c *SDKClient) Signup(ctx context.Context, req SignupRequest) (*MessageResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/signup", req, nil)
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and returns a Session holding the access token.
func (c *SDKClient) Login(ctx context.Context, username, password string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", LoginRequest{
		Username: username,
		Password: password,
	}, nil)
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &Session{client: c, token: out.Token, user: out.User}, nil
}

// FetchCSRFToken asks the server for a fresh CSRF token. The cookie half
// lands in the jar; the returned value is remembered for later requests.
func (c *SDKClient) FetchCSRFToken(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/auth/csrf-token", nil, nil)
	if err != nil {
		return "", err
	}

	var out CSRFTokenResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return "", err
	}

	c.mu.Lock()
	c.csrfToken = out.CSRFToken
	c.mu.Unlock()
	return out.CSRFToken, nil
}

// csrf returns the remembered CSRF token, fetching one if there is none.
func (c *SDKClient) csrf(ctx context.Context) (string, error) {
	c.mu.Lock()
	token := c.csrfToken
	c.mu.Unlock()
	if token != "" {
		return token, nil
	}
	return c.FetchCSRFToken(ctx)
}

func (c *SDKClient) forgetCSRF() {
	c.mu.Lock()
	c.csrfToken = ""
	c.mu.Unlock()
}

// CSRFHeader is the header the client echoes the CSRF token in.
const CSRFHeader = "X-CSRF-Token"
