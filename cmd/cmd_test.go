package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCLI struct {
	t          *testing.T
	configPath string
	dir        string
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	configPath := filepath.Join(dir, "railbook.jsonc")
	config := `{
		// keep everything inside the test directory
		"data_dir": "` + filepath.ToSlash(filepath.Join(dir, "data")) + `",
		"demo_user": false,
		"log": {"level": "off"},
	}`
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o600))
	return &testCLI{t: t, configPath: configPath, dir: dir}
}

func (c *testCLI) run(args ...string) (string, string, int) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(BuildInfo{Version: "test", Commit: "none"}, append([]string{"--config", c.configPath}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func (c *testCLI) mustRun(args ...string) string {
	c.t.Helper()
	stdout, stderr, code := c.run(args...)
	require.Equal(c.t, 0, code, "stderr: %s", stderr)
	return stdout
}

func (c *testCLI) signup() {
	c.mustRun("signup", "--name", "Asha Rao", "--email", "asha@example.com",
		"--password", "secret1", "--confirm", "secret1", "--agree")
}

func travelDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(time.DateOnly)
}

func TestVersion(t *testing.T) {
	var stdout bytes.Buffer
	code := Execute(BuildInfo{Version: "1.2.3", Commit: "abc123"}, []string{"version"}, &stdout, &bytes.Buffer{})
	assert.Equal(t, 0, code)
	assert.Equal(t, "railbook 1.2.3 (abc123)\n", stdout.String())
}

func TestSignupAndWhoami(t *testing.T) {
	c := newTestCLI(t)
	assert.Contains(t, c.mustRun("whoami"), "Not logged in.")

	c.signup()
	assert.Contains(t, c.mustRun("whoami"), "Asha Rao <asha@example.com>")

	c.mustRun("logout")
	assert.Contains(t, c.mustRun("whoami"), "Not logged in.")

	assert.Contains(t, c.mustRun("login", "--email", "asha@example.com", "--password", "secret1"), "Welcome back, Asha Rao!")
}

func TestSignup_ShowsFieldErrors(t *testing.T) {
	c := newTestCLI(t)
	_, stderr, code := c.run("signup", "--name", "Asha", "--email", "bad", "--password", "secret1", "--confirm", "secret2", "--agree")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "email: Please enter a valid email")
	assert.Contains(t, stderr, "confirmPassword: Passwords do not match")
}

func TestSearchBookAndTickets(t *testing.T) {
	c := newTestCLI(t)
	c.signup()
	date := travelDate(10)

	out := c.mustRun("search", "--from", "Delhi", "--to", "Mumbai", "--date", date, "--passengers", "2")
	assert.Contains(t, out, "Rajdhani Express")
	assert.Contains(t, out, "₹ 5,050")

	out = c.mustRun("book", "--train", "12345", "--seats", "LB-1,LB-2")
	assert.Contains(t, out, "LB-1 seat selected")
	assert.Contains(t, out, "Booking confirmed!")
	assert.Contains(t, out, "LB-1, LB-2")

	out = c.mustRun("seats", "--train", "12345")
	assert.Contains(t, out, "LB-1 x")

	out = c.mustRun("tickets", "--filter", "upcoming")
	assert.Contains(t, out, "Rajdhani Express (12345)")
	assert.Contains(t, out, "Upcoming")

	out = c.mustRun("tickets", "--filter", "past")
	assert.Contains(t, out, "No bookings found.")

	_, stderr, code := c.run("book", "--seats", "LB-1")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "LB-1")
}

func TestBook_TooManySeats(t *testing.T) {
	c := newTestCLI(t)
	c.signup()
	c.mustRun("search", "--from", "Delhi", "--to", "Pune", "--date", travelDate(3), "--passengers", "1")

	_, stderr, code := c.run("book", "--seats", "LB-1,LB-2")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "You can select up to 1 seat(s) for 1 passenger(s).")
}

func TestBook_WithoutSearch(t *testing.T) {
	c := newTestCLI(t)
	_, stderr, code := c.run("book", "--seats", "LB-1")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no search yet")
}

func TestBook_LoggedOutKeepsSeats(t *testing.T) {
	c := newTestCLI(t)
	c.signup()
	c.mustRun("logout")
	c.mustRun("search", "--from", "Delhi", "--to", "Pune", "--date", travelDate(3), "--passengers", "1")

	out := c.mustRun("book", "--seats", "UB-7")
	assert.Contains(t, out, "Seats UB-7 are held for you.")

	c.mustRun("login", "--email", "asha@example.com", "--password", "secret1")
	assert.Contains(t, c.mustRun("tickets"), "UB-7")
}

func TestCancelPrintAndHistory(t *testing.T) {
	c := newTestCLI(t)
	c.signup()
	c.mustRun("search", "--from", "Delhi", "--to", "Mumbai", "--date", travelDate(5), "--passengers", "1")
	c.mustRun("book", "--seats", "MB-2")

	ref := bookingRef(t, c.mustRun("history", "--year", "all"))

	pdfPath := filepath.Join(c.dir, "ticket.pdf")
	assert.Contains(t, c.mustRun("print", ref, "-o", pdfPath), pdfPath)
	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	assert.Contains(t, c.mustRun("cancel", ref, "--yes"), "cancelled")
	assert.Contains(t, c.mustRun("history"), "Cancelled")

	_, stderr, code := c.run("cancel", ref, "--yes")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "only upcoming bookings can be cancelled")

	out := c.mustRun("dashboard")
	assert.Contains(t, out, "Welcome, Asha Rao!")
}

func TestProfileAndSettings(t *testing.T) {
	c := newTestCLI(t)
	c.signup()

	c.mustRun("profile", "update", "--phone", "98765 43210")
	out := c.mustRun("profile", "show")
	assert.Contains(t, out, "Asha Rao")
	assert.Contains(t, out, "98765 43210")

	c.mustRun("profile", "prefs", "--notifications")
	assert.Contains(t, c.mustRun("profile"), "on")

	out = c.mustRun("settings", "set", "font-size", "4")
	assert.Contains(t, out, "4 (Extra Large)")
	assert.Contains(t, c.mustRun("settings", "show"), "Extra Large")
	assert.Contains(t, c.mustRun("settings", "reset"), "3 (Default)")

	c.mustRun("profile", "delete", "--yes")
	assert.Contains(t, c.mustRun("whoami"), "Not logged in.")
}

func TestNotLoggedIn(t *testing.T) {
	c := newTestCLI(t)
	_, stderr, code := c.run("tickets")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not logged in")
}

func bookingRef(t *testing.T, out string) string {
	t.Helper()
	for _, field := range bytes.Fields([]byte(out)) {
		if bytes.HasPrefix(field, []byte("IR-")) {
			return string(field)
		}
	}
	t.Fatalf("no booking reference in output:\n%s", out)
	return ""
}
