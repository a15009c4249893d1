package http

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/media"
	"github.com/aussiebroadwan/roster/internal/roster/notify"
	"github.com/aussiebroadwan/roster/internal/roster/service"
	"github.com/aussiebroadwan/roster/internal/roster/store/drivers/sqlite"
	"github.com/aussiebroadwan/roster/pkg/cryptox"
	"github.com/aussiebroadwan/roster/pkg/httpx"
	"github.com/aussiebroadwan/roster/pkg/idx"
	"github.com/aussiebroadwan/roster/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const bootstrapToken = "bootstrap-secret"

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "http-test")
	if err != nil {
		panic(err)
	}
	if err := cryptox.LoadPepper(filepath.Join(dir, "pepper")); err != nil {
		panic(err)
	}
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type testServer struct {
	t      *testing.T
	router *Router
	store  *sqlite.Store
	outbox *notify.Outbox
	tokens *service.TokenService
}

func newServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "roster.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	ms, err := media.NewLocalStore(t.TempDir(), "http://localhost:8080/media")
	require.NoError(t, err)

	keys, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:   "https://roster.test",
		Audience: []string{"roster"},
	})
	require.NoError(t, err)

	outbox := notify.NewOutbox()
	notifier := notify.SenderNotifier{Sender: outbox}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens := &service.TokenService{KeyManager: keys, Store: st, Issuer: "https://roster.test", Audience: "roster"}

	r := NewRouter(keys.KeySet(), keys.Verifier(), "test", st, logger)
	r.Media = ms
	r.Tokens = tokens
	r.OTP = &service.OTPService{Store: st, Tokens: tokens, Notifier: notifier}
	r.Signup = &service.SignupService{Store: st, Media: ms}
	r.Lifecycle = &service.LifecycleService{Store: st, Media: ms, Notifier: notifier}
	r.Moderators = &service.ModeratorService{Store: st}
	r.Ledger = &service.LedgerService{Store: st, Media: ms}
	r.Posts = &service.PostService{Store: st, Media: ms}
	r.Directory = &service.DirectoryService{Store: st}
	r.Bootstrap = &service.BootstrapService{Store: st, Token: bootstrapToken}
	r.KillSwitch = &service.KillSwitch{}
	r.Outbox = outbox
	r.ApplyRoutes()

	return &testServer{t: t, router: r, store: st, outbox: outbox, tokens: tokens}
}

// addMember inserts a member directly, approved or pending.
func (s *testServer) addMember(email string, approved bool, departments ...string) domain.Member {
	s.t.Helper()

	now := time.Now().UTC()
	m := domain.Member{
		ID:            idx.New().String(),
		Email:         email,
		Username:      email,
		FirstName:     "علي",
		LastName:      "حسن",
		ThirdName:     "كريم",
		FourthName:    "جاسم",
		DateOfBirth:   domain.DefaultDateOfBirth,
		Settings:      domain.Settings{},
		DateJoined:    now,
		DepartmentIDs: departments,
	}
	if approved {
		m.LastLogin = &now
	}
	require.NoError(s.t, s.store.Members().CreateMember(context.Background(), m))
	return m
}

func (s *testServer) superuser(email string) domain.Member {
	s.t.Helper()
	ctx := context.Background()
	id, err := s.router.Bootstrap.Bootstrap(ctx, bootstrapToken, domain.BootstrapData{Email: email, FirstName: "Root"})
	require.NoError(s.t, err)
	m, err := s.store.Members().GetMemberByID(ctx, id)
	require.NoError(s.t, err)
	return m
}

// bearer mints an access token for m.
func (s *testServer) bearer(m domain.Member) string {
	s.t.Helper()
	pair, err := s.tokens.Issue(context.Background(), s.store, m)
	require.NoError(s.t, err)
	return "Bearer " + pair.AccessToken
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) json(method, path, auth string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return s.do(req)
}

// form builds a multipart request. Values ending up in files are keyed by
// field and carry PNG bytes.
func (s *testServer) form(path, auth string, values map[string][]string, files ...string) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range values {
		for _, v := range vs {
			require.NoError(s.t, mw.WriteField(k, v))
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f, f+".png")
		require.NoError(s.t, err)
		_, err = fw.Write(pngBytes(s.t))
		require.NoError(s.t, err)
	}
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return s.do(req)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *httpx.ErrorBody
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) envelope {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	env := decode(t, rec, nil)
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	require.Equal(t, code, env.Error.Code)
	return env
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(2, 2, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
