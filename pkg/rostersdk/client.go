package rostersdk

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the public endpoints of a roster deployment.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/livez", nil, nil)
	if err != nil {
		return nil, err
	}
	var health HealthResponse
	if err := decodeRaw(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/readyz", nil, nil)
	if err != nil {
		return nil, err
	}
	var health HealthResponse
	if err := decodeRaw(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetJWKS fetches the public signing keys.
func (c *Client) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/.well-known/jwks.json", nil, nil)
	if err != nil {
		return nil, err
	}
	var jwks JWKSResponse
	if err := decodeRaw(resp, &jwks, http.StatusOK); err != nil {
		return nil, err
	}
	return &jwks, nil
}

// Bootstrap creates the first superuser.
func (c *Client) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (*BootstrapResponse, error) {
	body, headers, err := jsonBody(req, map[string]string{"X-Bootstrap-Token": token})
	if err != nil {
		return nil, err
	}
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/bootstrap", body, headers)
	if err != nil {
		return nil, err
	}
	var out BootstrapResponse
	if err := decodeData(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Departments lists the activity departments.
func (c *Client) Departments(ctx context.Context) ([]Department, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/departments", nil, nil)
	if err != nil {
		return nil, err
	}
	var out []Department
	if err := decodeData(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// File is one uploaded document.
type File struct {
	Name string
	Data []byte
}

// SignupRequest is a membership application. Documents is keyed by form
// field: id_card_front, id_card_back, residence_id_front, residence_id_back
// and personal_image.
type SignupRequest struct {
	Fields      map[string]string
	Departments []string
	Documents   map[string]File
}

// Signup submits an application as multipart form data.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range req.Fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	for _, d := range req.Departments {
		if err := mw.WriteField("activity_department", d); err != nil {
			return nil, err
		}
	}
	for field, f := range req.Documents {
		w, err := mw.CreateFormFile(field, f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/signup", &buf,
		map[string]string{"Content-Type": mw.FormDataContentType()})
	if err != nil {
		return nil, err
	}
	var out SignupResponse
	if err := decodeData(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestCode asks for a login code to be emailed.
func (c *Client) RequestCode(ctx context.Context, email string) error {
	body, headers, err := jsonBody(LoginRequest{Email: email}, nil)
	if err != nil {
		return err
	}
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/login", body, headers)
	if err != nil {
		return err
	}
	return decodeData(resp, nil, http.StatusOK)
}

// VerifyCode exchanges a login code for a Session.
func (c *Client) VerifyCode(ctx context.Context, email, code string) (*Session, error) {
	body, headers, err := jsonBody(OTPRequest{Email: email, Code: code}, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/otp", body, headers)
	if err != nil {
		return nil, err
	}
	var out LoginResponse
	if err := decodeData(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	s := newSession(c, out.Tokens)
	s.MemberID = out.MemberID
	s.IsStaff = out.IsStaff
	s.IsMod = out.IsMod
	return s, nil
}

// Refresh rotates a refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	body, headers, err := jsonBody(RefreshRequest{RefreshToken: refreshToken}, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/refresh", body, headers)
	if err != nil {
		return nil, err
	}
	var out TokenResponse
	if err := decodeData(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches an approved member's public profile.
func (c *Client) Profile(ctx context.Context, memberID string) (*Profile, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/members/"+url.PathEscape(memberID), nil, nil)
	if err != nil {
		return nil, err
	}
	var out Profile
	if err := decodeData(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Feed fetches one page of posts. An empty cursor is the first page.
func (c *Client) Feed(ctx context.Context, cursor string) (*Page[Post], error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/feed"+cursorQuery(cursor), nil, nil)
	if err != nil {
		return nil, err
	}
	var out Page[Post]
	if err := decodeData(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// History fetches one page of a member's achievements.
func (c *Client) History(ctx context.Context, memberID, cursor string) (*Page[Achievement], error) {
	path := fmt.Sprintf("/v1/members/%s/achievements%s", url.PathEscape(memberID), cursorQuery(cursor))
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	var out Page[Achievement]
	if err := decodeData(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DebugOutbox reads the emails captured by a test deployment for addr.
func (c *Client) DebugOutbox(ctx context.Context, addr string) ([]OutboxMessage, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/debug/outbox?to="+url.QueryEscape(addr), nil, nil)
	if err != nil {
		return nil, err
	}
	var out []OutboxMessage
	if err := decodeData(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func cursorQuery(cursor string) string {
	if cursor == "" {
		return ""
	}
	return "?cursor=" + url.QueryEscape(cursor)
}
