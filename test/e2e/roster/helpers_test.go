package roster_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/roster/pkg/rostersdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for roster service end-to-end tests.
 * This includes container setup, login through the debug outbox, and assertions.
 */

const (
	testImageName = "roster-test:latest"

	bootstrapToken = "test-bootstrap-token-12345"
	rootEmail      = "root@example.com"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Roster Service Docker image...")

	// Build the Docker image once before all tests
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Roster Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

// buildDockerImage builds the test Docker image.
func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/roster/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

// cleanupDockerImage removes the test Docker image.
func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupRosterContainer starts the service with relaxed rate limits and
// returns the base URL.
func setupRosterContainer(t *testing.T) (string, func()) {
	t.Helper()
	return startContainer(t, map[string]string{
		// Tests make many rapid requests which would otherwise hit the strict production limits
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
	})
}

// setupRosterContainerWithDefaultRateLimits keeps the production limits so
// rate limiting itself can be tested.
func setupRosterContainerWithDefaultRateLimits(t *testing.T) (string, func()) {
	t.Helper()
	return startContainer(t, nil)
}

func startContainer(t *testing.T, extraEnv map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"BOOTSTRAP_TOKEN":      bootstrapToken,
		"ROSTER_DATABASE_FILE": "/data/roster.db",
		"ROSTER_PEPPER_FILE":   "/data/pepper",
		"ROSTER_MEDIA_DIR":     "/data/media",
		"ROSTER_ISSUER":        "roster-e2e",
		"ROSTER_NUM_KEYS":      "1",
		"ENV":                  "test",
		"LOG_LEVEL":            "info",
		"LOG_FORMAT":           "json",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// bootstrapService creates the superuser in the media department and
// returns its member id.
func bootstrapService(t *testing.T, client *rostersdk.Client) string {
	t.Helper()

	resp, err := client.Bootstrap(t.Context(), bootstrapToken, rostersdk.BootstrapRequest{
		Email:       rootEmail,
		FirstName:   "Root",
		Departments: []string{"media"},
	})
	require.NoError(t, err, "Bootstrap should succeed")
	require.NotEmpty(t, resp.MemberID)

	return resp.MemberID
}

// performLogin requests a code, reads it from the debug outbox and exchanges
// it for a session. Email is delivered asynchronously so the outbox is polled.
func performLogin(t *testing.T, client *rostersdk.Client, email string) *rostersdk.Session {
	t.Helper()
	ctx := t.Context()

	require.NoError(t, client.RequestCode(ctx, email), "Requesting a code should succeed")

	var code string
	require.Eventually(t, func() bool {
		msgs, err := client.DebugOutbox(ctx, email)
		if err != nil {
			return false
		}
		for i := len(msgs) - 1; i >= 0; i-- {
			if msgs[i].Code != "" {
				code = msgs[i].Code
				return true
			}
		}
		return false
	}, 5*time.Second, 100*time.Millisecond, "login code should arrive in the outbox")

	session, err := client.VerifyCode(ctx, email, code)
	require.NoError(t, err, "Login should succeed")
	require.NotNil(t, session)

	return session
}

// signupApplicant submits a valid application for email in departments.
func signupApplicant(t *testing.T, client *rostersdk.Client, email string, departments ...string) *rostersdk.SignupResponse {
	t.Helper()

	docs := make(map[string]rostersdk.File)
	for _, field := range []string{"id_card_front", "id_card_back", "residence_id_front", "residence_id_back", "personal_image"} {
		docs[field] = rostersdk.File{Name: field + ".png", Data: pngBytes(t)}
	}

	resp, err := client.Signup(t.Context(), rostersdk.SignupRequest{
		Fields: map[string]string{
			"first_name":           "علي",
			"last_name":            "حسن",
			"third_name":           "كريم",
			"fourth_name":          "جاسم",
			"mother_full_name":     "فاطمة علي حسين كاظم",
			"email":                email,
			"phone_number":         "07701234567",
			"address":              "بغداد - الكرادة - شارع الصناعة",
			"date_of_birth":        "2001-05-17",
			"gender":               "M",
			"academic_achievement": "S",
			"marital_status":       "V",
			"studying_department":  "C",
			"stage":                "2",
			"studying_shift":       "A",
		},
		Departments: departments,
		Documents:   docs,
	})
	require.NoError(t, err, "Signup should succeed")
	return resp
}

// approvedMember signs up email in department and accepts the application
// through moderator, who must hold a seat there.
func approvedMember(t *testing.T, client *rostersdk.Client, moderator *rostersdk.Session, email, department string) string {
	t.Helper()

	created := signupApplicant(t, client, email, department)
	require.NoError(t, moderator.Accept(t.Context(), created.MemberID))
	return created.MemberID
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *rostersdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

// assertCode verifies err is an API error with the given code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, rostersdk.IsCode(err, code), "expected %s, got: %v", code, err)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(3, 3, color.RGBA{B: 180, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
