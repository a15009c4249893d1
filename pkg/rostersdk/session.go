package rostersdk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// Session is an authenticated member session with automatic token refresh.
type Session struct {
	client *Client

	// Reported by the login that created the session.
	MemberID string
	IsStaff  bool
	IsMod    string

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

func newSession(c *Client, t TokenResponse) *Session {
	s := &Session{client: c}
	s.setTokens(t)
	return s
}

// NewSessionFromTokens resumes a session from stored tokens.
func (c *Client) NewSessionFromTokens(accessToken, refreshToken string, expiresIn int64) *Session {
	return newSession(c, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}

// setTokens stores a pair; callers hold mu or own s exclusively.
func (s *Session) setTokens(t TokenResponse) {
	s.accessToken = t.AccessToken
	s.refreshToken = t.RefreshToken
	// 30 second buffer to refresh before actual expiry
	s.expiresAt = time.Now().Add(time.Duration(t.ExpiresIn)*time.Second - 30*time.Second)
}

// AccessToken returns the current access token without checking expiry.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// ForceRefresh rotates the token pair now.
func (s *Session) ForceRefresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have refreshed while we waited
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}
	if err := s.refreshLocked(ctx); err != nil {
		return "", err
	}
	return s.accessToken, nil
}

func (s *Session) refreshLocked(ctx context.Context) error {
	if s.refreshToken == "" {
		return fmt.Errorf("access token expired and no refresh token available")
	}
	t, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}
	s.setTokens(*t)
	return nil
}

func (s *Session) do(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return nil, err
	}
	h := map[string]string{"Authorization": "Bearer " + token}
	for k, v := range headers {
		h[k] = v
	}
	return s.client.doRequest(ctx, method, path, body, h)
}

func (s *Session) doJSON(ctx context.Context, method, path string, in, out any, expected int) error {
	body, headers, err := jsonBody(in, nil)
	if err != nil {
		return err
	}
	resp, err := s.do(ctx, method, path, body, headers)
	if err != nil {
		return err
	}
	return decodeData(resp, out, expected)
}

// Me returns the caller's own record.
func (s *Session) Me(ctx context.Context) (*SelfProfile, error) {
	var out SelfProfile
	if err := s.doJSON(ctx, http.MethodGet, "/v1/me", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile renders a member for the caller; staff get the admin view.
func (s *Session) Profile(ctx context.Context, memberID string) (*Profile, error) {
	var out Profile
	err := s.doJSON(ctx, http.MethodGet, "/v1/members/"+url.PathEscape(memberID), nil, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminProfile returns the unredacted record. Staff only.
func (s *Session) AdminProfile(ctx context.Context, memberID string) (*Profile, error) {
	var out Profile
	err := s.doJSON(ctx, http.MethodGet, "/v1/admin/members/"+url.PathEscape(memberID), nil, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GrantStaff sets or clears a member's staff flag. Superuser only.
func (s *Session) GrantStaff(ctx context.Context, memberID string, staff bool) error {
	path := "/v1/admin/members/" + url.PathEscape(memberID) + "/staff"
	return s.doJSON(ctx, http.MethodPost, path, StaffRequest{IsStaff: staff}, nil, http.StatusOK)
}

// Settings returns the caller's effective display settings.
func (s *Session) Settings(ctx context.Context) (Settings, error) {
	var out Settings
	if err := s.doJSON(ctx, http.MethodGet, "/v1/settings", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateSettings merges update into the caller's settings.
func (s *Session) UpdateSettings(ctx context.Context, update Settings) (Settings, error) {
	var out Settings
	if err := s.doJSON(ctx, http.MethodPost, "/v1/settings", update, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// Notifications returns the recent posts of the caller's departments.
func (s *Session) Notifications(ctx context.Context) ([]Post, error) {
	var out []Post
	if err := s.doJSON(ctx, http.MethodGet, "/v1/notifications", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// Search finds approved members by name.
func (s *Session) Search(ctx context.Context, q string) ([]SearchResult, error) {
	var out []SearchResult
	err := s.doJSON(ctx, http.MethodGet, "/v1/search?q="+url.QueryEscape(q), nil, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Pending lists applications in the caller's departments.
func (s *Session) Pending(ctx context.Context, departmentID string) ([]PendingMember, error) {
	path := "/v1/pending"
	if departmentID != "" {
		path += "?department_id=" + url.QueryEscape(departmentID)
	}
	var out []PendingMember
	if err := s.doJSON(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// Accept approves a pending application.
func (s *Session) Accept(ctx context.Context, memberID string) error {
	return s.doJSON(ctx, http.MethodPost, "/v1/pending/accept", MemberRequest{MemberID: memberID}, nil, http.StatusOK)
}

// Decline rejects and deletes a pending application.
func (s *Session) Decline(ctx context.Context, memberID string) error {
	return s.doJSON(ctx, http.MethodPost, "/v1/pending/decline", MemberRequest{MemberID: memberID}, nil, http.StatusOK)
}

// AssignModerator seats a member. Staff only.
func (s *Session) AssignModerator(ctx context.Context, req ModeratorRequest) (*ModeratorResponse, error) {
	var out ModeratorResponse
	if err := s.doJSON(ctx, http.MethodPost, "/v1/moderators", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExpirePending runs the stale-application sweep. Staff only.
func (s *Session) ExpirePending(ctx context.Context) (int, error) {
	var out ExpireResponse
	err := s.doJSON(ctx, http.MethodPost, "/v1/maintenance/expire-pending", nil, &out, http.StatusOK)
	if err != nil {
		return 0, err
	}
	return out.DeletedCount, nil
}

// Lock engages the kill-switch. Superuser only.
func (s *Session) Lock(ctx context.Context) error {
	return s.doJSON(ctx, http.MethodPost, "/v1/lock", nil, nil, http.StatusOK)
}

// Unlock releases the kill-switch. Superuser only.
func (s *Session) Unlock(ctx context.Context) error {
	return s.doJSON(ctx, http.MethodDelete, "/v1/lock", nil, nil, http.StatusOK)
}

// PostRequest is a new announcement.
type PostRequest struct {
	Heading     string
	Description string
	Image       *File
}

// CreatePost publishes under the caller's moderator seat.
func (s *Session) CreatePost(ctx context.Context, req PostRequest) (*Post, error) {
	fields := map[string]string{"heading": req.Heading, "description": req.Description}
	var out Post
	if err := s.multipart(ctx, "/v1/posts", fields, nil, req.Image, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AwardRequest records an achievement. A nil Score uses the server default.
type AwardRequest struct {
	Title       string
	Description string
	Score       *int64
	MemberIDs   []string
	Image       *File
}

// Award credits an achievement to members. Staff only.
func (s *Session) Award(ctx context.Context, req AwardRequest) (*AwardResponse, error) {
	fields := map[string]string{"title": req.Title, "description": req.Description}
	if req.Score != nil {
		fields["score"] = strconv.FormatInt(*req.Score, 10)
	}
	var out AwardResponse
	if err := s.multipart(ctx, "/v1/achievements", fields, map[string][]string{"member_ids": req.MemberIDs}, req.Image, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) multipart(
	ctx context.Context,
	path string,
	fields map[string]string,
	multi map[string][]string,
	image *File,
	out any,
) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	for k, vs := range multi {
		for _, v := range vs {
			if err := mw.WriteField(k, v); err != nil {
				return err
			}
		}
	}
	if image != nil {
		w, err := mw.CreateFormFile("image", image.Name)
		if err != nil {
			return err
		}
		if _, err := w.Write(image.Data); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	resp, err := s.do(ctx, http.MethodPost, path, &buf, map[string]string{"Content-Type": mw.FormDataContentType()})
	if err != nil {
		return err
	}
	return decodeData(resp, out, http.StatusCreated)
}
