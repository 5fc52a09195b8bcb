package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cricketstats-go/internal/dependencies/mocks"
	"github.com/mcoot/cricketstats-go/internal/model"
	"github.com/mcoot/cricketstats-go/internal/services/dashboard"
	"github.com/mcoot/cricketstats-go/internal/session"
	"github.com/mcoot/cricketstats-go/internal/storage/file"
	"github.com/mcoot/cricketstats-go/internal/testutil/fakeapi"
	"github.com/mcoot/cricketstats-go/internal/validation"
)

type result struct {
	code   int
	stdout string
	stderr string
}

type CLISuite struct {
	suite.Suite
	api         *fakeapi.Server
	sessionFile string
	clock       *mocks.MockClock
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	s.api = fakeapi.New(s.T())
	s.api.AddUser("alice", "alice@example.com", "secret1")
	s.sessionFile = filepath.Join(s.T().TempDir(), "session.json")

	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	clockOverride = s.clock
	s.T().Cleanup(func() { clockOverride = nil })
}

func (s *CLISuite) runWithInput(stdin string, args ...string) result {
	full := append([]string{
		"--server", s.api.URL,
		"--session-store", "file",
		"--session-file", s.sessionFile,
	}, args...)

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), full, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func (s *CLISuite) run(args ...string) result {
	return s.runWithInput("", args...)
}

func (s *CLISuite) storedToken() string {
	token, _, err := file.New(s.sessionFile).GetItem(context.Background(), session.TokenKey)
	s.Require().NoError(err)
	return token
}

func (s *CLISuite) login() {
	res := s.run("login", "--user", "alice", "--pass", "secret1")
	s.Require().Equal(0, res.code, res.stderr)
}

func (s *CLISuite) TestLoginStoresSession() {
	res := s.run("login", "--user", "alice", "--pass", "secret1")

	s.Equal(0, res.code, res.stderr)
	s.Contains(res.stdout, "Login successful! Redirecting...")
	s.Contains(res.stderr, "Signing in...")
	s.Contains(res.stderr, "-> /dashboard")
	s.NotEmpty(s.storedToken())
	s.Equal([]time.Duration{1500 * time.Millisecond}, s.clock.Sleeps())

	status := s.run("session", "status")
	s.Equal(0, status.code)
	s.Contains(status.stdout, "Logged in as alice (store: file)")
	s.Contains(status.stdout, "Token expires:")
}

func (s *CLISuite) TestSessionStatusReportsExpiry() {
	s.login()

	s.clock.Set(time.Now().Add(50 * time.Minute))
	res := s.run("-o", "json", "session", "status")
	s.Equal(0, res.code, res.stderr)
	var status map[string]any
	s.Require().NoError(json.Unmarshal([]byte(res.stdout), &status))
	s.NotContains(status, "expired")
	s.NotEmpty(status["expires_at"])

	s.clock.Advance(20 * time.Minute)
	res = s.run("session", "status")
	s.Equal(0, res.code, res.stderr)
	s.Contains(res.stdout, "Token expired:")
}

func (s *CLISuite) TestLoginWrongPassword() {
	res := s.run("login", "--user", "alice", "--pass", "nope")

	s.Equal(1, res.code)
	s.Contains(res.stderr, "Error: Incorrect username or password")
	s.Empty(s.storedToken())
}

func (s *CLISuite) TestLoginMissingCredentialsStaysLocal() {
	res := s.run("login", "--user", "  ")

	s.Equal(1, res.code)
	s.Contains(res.stderr, "Please enter both username and password")
	s.Zero(s.api.RequestCount("/api/v1/auth/login"))
}

func (s *CLISuite) TestLoginWhenAlreadyLoggedIn() {
	s.login()

	res := s.run("login", "--user", "alice", "--pass", "secret1")
	s.Equal(0, res.code)
	s.Contains(res.stdout, "Already logged in as alice")
	s.Equal(1, s.api.RequestCount("/api/v1/auth/login"))
}

func TestAlreadyLoggedInReportsStorageErrors(t *testing.T) {
	ctx := context.Background()

	msg, err := alreadyLoggedIn(ctx, stubUsername{name: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "Already logged in as alice. Run 'cricket logout' to switch user.", msg)

	boom := errors.New("connection refused")
	_, err = alreadyLoggedIn(ctx, stubUsername{err: boom})
	assert.ErrorIs(t, err, boom)
}

type stubUsername struct {
	name string
	err  error
}

func (s stubUsername) Username(ctx context.Context) (string, error) {
	return s.name, s.err
}

func (s *CLISuite) TestSignup() {
	res := s.run("signup", "--user", "bob_99", "--email", "bob@example.com", "--pass", "Secret#123", "--confirm", "Secret#123")

	s.Equal(0, res.code, res.stderr)
	s.Contains(res.stdout, "Account created successfully! Redirecting to login...")
	s.Contains(res.stderr, "-> /login")

	login := s.run("login", "--user", "bob_99", "--pass", "Secret#123")
	s.Equal(0, login.code, login.stderr)
}

func (s *CLISuite) TestSignupValidatedLocally() {
	res := s.run("signup", "--user", "bob", "--email", "bob@example.com", "--pass", "12345", "--confirm", "12345")

	s.Equal(1, res.code)
	s.Contains(res.stderr, validation.MsgPasswordTooShort)
	s.Zero(s.api.RequestCount("/api/v1/auth/register"))
}

func (s *CLISuite) TestSignupDuplicate() {
	res := s.run("signup", "--user", "alice", "--email", "a@example.com", "--pass", "secret1", "--confirm", "secret1")

	s.Equal(1, res.code)
	s.Contains(res.stderr, "Username already registered")
}

func (s *CLISuite) TestStrength() {
	res := s.run("strength", "abc", "--confirm", "abd", "--user", "a-b")

	s.Equal(0, res.code)
	s.Contains(res.stdout, "Password strength: Weak (Add: at least 6 characters, uppercase letter)")
	s.Contains(res.stdout, "✗ Passwords do not match")
	s.Contains(res.stdout, validation.MsgUsernameCharset)
	s.Empty(s.api.Requests())
}

func (s *CLISuite) TestStrengthJSON() {
	res := s.run("-o", "json", "strength", "Abcdef1!xyz")

	s.Equal(0, res.code)
	var got struct {
		Score int    `json:"score"`
		Band  string `json:"band"`
		Label string `json:"label"`
	}
	s.Require().NoError(json.Unmarshal([]byte(res.stdout), &got))
	s.Equal(6, got.Score)
	s.Equal("Strong", got.Band)
	s.Equal("Password strength: Strong", got.Label)
}

func (s *CLISuite) TestLogoutAsksFirst() {
	s.login()

	res := s.runWithInput("n\n", "logout")
	s.Equal(0, res.code)
	s.Contains(res.stdout, "Logout cancelled")
	s.NotEmpty(s.storedToken())

	res = s.runWithInput("y\n", "logout")
	s.Equal(0, res.code)
	s.Contains(res.stdout, "Logged out")
	s.Contains(res.stderr, "-> /login")
	s.Empty(s.storedToken())
	_, err := os.Stat(s.sessionFile)
	s.True(os.IsNotExist(err))
}

func (s *CLISuite) writeCorruptSession() {
	s.Require().NoError(os.WriteFile(s.sessionFile, []byte("{not json"), 0600))
}

func (s *CLISuite) TestCorruptSessionFileLogout() {
	s.writeCorruptSession()

	res := s.run("logout", "--yes")
	s.Equal(0, res.code, res.stderr)
	s.Contains(res.stdout, "Logged out")
	_, err := os.Stat(s.sessionFile)
	s.True(os.IsNotExist(err))
}

func (s *CLISuite) TestCorruptSessionFileLogin() {
	s.writeCorruptSession()

	status := s.run("session", "status")
	s.Equal(0, status.code, status.stderr)
	s.Contains(status.stdout, "Not logged in")

	res := s.run("login", "--user", "alice", "--pass", "secret1")
	s.Equal(0, res.code, res.stderr)
	s.Contains(res.stdout, "Login successful! Redirecting...")
	s.NotEmpty(s.storedToken())
}

func (s *CLISuite) TestCorruptSessionFileDashboard() {
	s.writeCorruptSession()

	res := s.run("dashboard")
	s.Equal(1, res.code)
	s.Contains(res.stderr, "-> /login")
	s.Contains(res.stderr, "not logged in")
}

func (s *CLISuite) TestLogoutYes() {
	s.login()

	res := s.run("logout", "--yes")
	s.Equal(0, res.code)
	s.Empty(s.storedToken())
}

func (s *CLISuite) TestMe() {
	s.login()

	res := s.run("me")
	s.Equal(0, res.code, res.stderr)
	s.Contains(res.stdout, "User: alice (1)")
	s.Contains(res.stdout, "Email: alice@example.com")
}

func (s *CLISuite) TestMeWithoutSession() {
	res := s.run("me")
	s.Equal(1, res.code)
	s.Contains(res.stderr, model.ErrMissingToken.Error())
	s.Empty(s.api.Requests())
}

func (s *CLISuite) TestDashboardRequiresLogin() {
	res := s.run("dashboard")
	s.Equal(1, res.code)
	s.Contains(res.stderr, "-> /login")
	s.Contains(res.stderr, "not logged in")
}

func (s *CLISuite) TestDashboardSections() {
	s.login()

	res := s.run("dashboard", "matches", "bowling")
	s.Equal(0, res.code, res.stderr)
	s.Contains(res.stdout, "Welcome, alice!")
	s.Contains(res.stdout, "== Overview ==")
	s.Regexp(`Total Matches:\s+0`, res.stdout)
	s.Contains(res.stdout, dashboard.MsgNoMatches)
	s.Contains(res.stdout, dashboard.MsgBowlingPlaceholder)
}

func (s *CLISuite) TestDashboardBattingServerError() {
	s.login()
	s.api.Respond(http.MethodGet, "/api/v1/bat_stats/detailed", http.StatusInternalServerError, `{"detail":"boom"}`)

	res := s.run("dashboard", "batting")
	s.Equal(0, res.code)
	s.Contains(res.stderr, "Error: "+dashboard.MsgBattingFailed)
	s.Regexp(`Innings:\s+0`, res.stdout)
	s.Regexp(`100s:\s+0`, res.stdout)
}

func (s *CLISuite) TestDashboardUnknownSection() {
	s.login()

	res := s.run("dashboard", "fielding")
	s.Equal(1, res.code)
	s.Contains(res.stderr, "unknown dashboard section")
}

func (s *CLISuite) TestDashboardExpiredSession() {
	s.login()
	s.Require().NoError(file.New(s.sessionFile).SetItems(context.Background(), map[string]string{
		session.TokenKey: s.api.ExpiredToken("alice"),
	}))

	res := s.run("dashboard")
	s.Equal(1, res.code)
	s.Contains(res.stderr, model.ErrSessionExpired.Error())
	s.Contains(res.stderr, "-> /login")
	s.Empty(s.storedToken())
}

func (s *CLISuite) TestDashboardInteractive() {
	s.login()

	res := s.runWithInput("matches\nbogus\nadd\nhelp\nquit\n", "dashboard", "--interactive")
	s.Equal(0, res.code, res.stderr)
	s.Contains(res.stdout, dashboard.MsgNoMatches)
	s.Contains(res.stderr, "unknown dashboard section")
	s.Contains(res.stderr, "-> /add-match")
	s.Contains(res.stdout, "cricket match add")
	s.Contains(res.stderr, "Commands:")
}

func (s *CLISuite) TestDashboardInteractiveLogout() {
	s.login()

	res := s.runWithInput("logout\ny\n", "dashboard", "-i")
	s.Equal(0, res.code, res.stderr)
	s.Empty(s.storedToken())
}

func (s *CLISuite) TestDashboardHTML() {
	s.login()
	s.api.AddMatch("alice", model.Match{Date: "2024-01-01", Ground: "Lords", RunsScored: intPtr(51)})
	htmlFile := filepath.Join(s.T().TempDir(), "dashboard.html")

	res := s.run("dashboard", "--html", htmlFile)
	s.Equal(0, res.code, res.stderr)
	s.Contains(res.stdout, "Dashboard written to")

	f, err := os.Open(htmlFile)
	s.Require().NoError(err)
	defer func() { _ = f.Close() }()
	doc, err := goquery.NewDocumentFromReader(f)
	s.Require().NoError(err)

	s.Equal("Welcome, alice!", doc.Find("#welcome-message").Text())
	s.True(doc.Find("section#overview").HasClass("active"))
	s.Equal(1, doc.Find("section#matches tr.match-row").Length())
	s.Equal("51", doc.Find("#highest-score").Text())
	s.Equal(dashboard.MsgAnalyticsPlaceholder, doc.Find("section#analytics .placeholder").Text())
}

func (s *CLISuite) TestMatchAddAndList() {
	s.login()

	res := s.run("match", "add", "--date", "2024-04-01", "--ground", "Oval", "--runs", "0", "--result", "lost")
	s.Equal(0, res.code, res.stderr)
	s.Contains(res.stdout, "at Oval")
	s.Contains(res.stdout, "Runs: 0 (N/A balls)")

	list := s.run("match", "list")
	s.Equal(0, list.code, list.stderr)
	s.Contains(list.stdout, "Oval")
	s.Contains(list.stdout, "lost")
}

func (s *CLISuite) TestMatchListServerErrorExitsNonZero() {
	s.login()
	s.api.Respond(http.MethodGet, "/api/v1/matches", http.StatusInternalServerError, `{"detail":"boom"}`)

	res := s.run("match", "list")
	s.Equal(1, res.code)
	s.Contains(res.stderr, "Error: "+dashboard.MsgMatchesFailed)
	s.Equal(1, strings.Count(res.stderr, "Error:"))
}

func (s *CLISuite) TestMatchListMalformedBodyExitsNonZero() {
	s.login()
	s.api.Respond(http.MethodGet, "/api/v1/matches", http.StatusOK, `{"not":"a list"}`)

	res := s.run("match", "list")
	s.Equal(1, res.code)
	s.Contains(res.stderr, "Error: "+dashboard.MsgMatchesRetry)
}

func (s *CLISuite) TestMatchAddValidatedLocally() {
	s.login()

	res := s.run("match", "add", "--date", "2024-04-01", "--ground", "Oval", "--result", "draw")
	s.Equal(1, res.code)
	s.Contains(res.stderr, "match_result must be one of: won, lost, tie, no_result")
	s.Zero(s.api.RequestCount("/api/v1/matches"))
}

func (s *CLISuite) TestJSONErrors() {
	res := s.run("-o", "json", "me")
	s.Equal(1, res.code)

	var got map[string]map[string]string
	s.Require().NoError(json.Unmarshal([]byte(res.stderr), &got))
	s.Equal(model.ErrMissingToken.Error(), got["error"]["message"])
}

func (s *CLISuite) TestRedisSessionStore() {
	mr := miniredis.RunT(s.T())
	redisArgs := []string{"--session-store", "redis", "--redis-url", "redis://" + mr.Addr()}

	res := s.run(append(redisArgs, "login", "--user", "alice", "--pass", "secret1")...)
	s.Equal(0, res.code, res.stderr)
	s.True(mr.Exists("cricket:session:default"))

	status := s.run(append(redisArgs, "session", "status")...)
	s.Contains(status.stdout, "Logged in as alice (store: redis)")
}

func (s *CLISuite) TestInvalidSessionStore() {
	res := s.run("--session-store", "sqlite", "session", "status")
	s.Equal(1, res.code)
	s.Contains(res.stderr, "invalid StorageType")
}

func intPtr(n int) *int { return &n }

func TestLoadDotEnv(t *testing.T) {
	const fromFile = "CRICKET_TEST_FROM_FILE"
	const preset = "CRICKET_TEST_PRESET"

	t.Setenv(fromFile, "")
	_ = os.Unsetenv(fromFile)
	t.Setenv(preset, "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(fromFile+"=from-file\n"+preset+"=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := LoadDotEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv(fromFile); got != "from-file" {
		t.Errorf("%s = %q, want from-file", fromFile, got)
	}
	if got := os.Getenv(preset); got != "from-env" {
		t.Errorf("%s = %q, want from-env", preset, got)
	}

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing file: %v", err)
	}
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("CRICKET_SERVER", "http://stats.example:9000")
	t.Setenv("CRICKET_SESSION_STORE", "memory")
	t.Setenv("CRICKET_OUTPUT", "json")

	c := DefaultConfig()
	if c.ServerURL != "http://stats.example:9000" || c.SessionStore != "memory" || c.Output != "json" {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.Timeout != 30*time.Second {
		t.Errorf("timeout = %s", c.Timeout)
	}
}
