package command_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/keshon/fvc/internal/command"
	"github.com/keshon/fvc/internal/fs"
	"github.com/keshon/fvc/internal/transform"
)

type harness struct {
	t      *testing.T
	mem    *fs.MemoryFS
	now    time.Time
	cfg    string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T, settings string) *harness {
	t.Helper()
	color.NoColor = true

	cfg := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfg, []byte(settings), 0o644); err != nil {
		t.Fatal(err)
	}
	return &harness{
		t:   t,
		mem: fs.NewMemoryFS(),
		now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local),
		cfg: cfg,
	}
}

// run executes one command line and returns the error app.Run produced.
func (h *harness) run(args ...string) error {
	h.t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()

	app := command.NewApp(&command.Env{
		FS:  h.mem,
		Now: func() time.Time { return h.now },
	})
	app.Writer = &h.stdout
	app.ErrWriter = &h.stderr
	app.ExitErrHandler = func(*cli.Context, error) {}

	return app.Run(append([]string{"fvc", "--config", h.cfg}, args...))
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	if err := h.run(args...); err != nil {
		h.t.Fatalf("%v: %v (stderr %q)", args, err, h.stderr.String())
	}
	if h.stderr.Len() > 0 {
		h.t.Fatalf("%v: unexpected stderr %q", args, h.stderr.String())
	}
	return h.stdout.String()
}

func exitCode(err error) int {
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

func TestWorkflow(t *testing.T) {
	h := newHarness(t, "")
	if err := h.mem.WriteFile("notes.txt", []byte("draft one"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := h.mustRun("init", "repo")
	if !strings.Contains(out, "Initialized empty VCS repository in repo") {
		t.Fatalf("unexpected init output %q", out)
	}
	out = h.mustRun("init", "repo")
	if !strings.Contains(out, "Reinitialized existing VCS repository") {
		t.Fatalf("unexpected re-init output %q", out)
	}

	out = h.mustRun("add", "repo", "notes.txt")
	if strings.TrimSpace(out) != "File notes.txt added to repository." {
		t.Fatalf("unexpected add output %q", out)
	}

	out = h.mustRun("commit", "-m", "first draft", "repo", "notes.txt")
	if !strings.Contains(out, "File notes.txt committed (timestamp: 20240501100000).") {
		t.Fatalf("unexpected commit output %q", out)
	}

	h.now = h.now.Add(time.Minute)
	if err := h.mem.WriteFile("notes.txt", []byte("draft two"), 0o644); err != nil {
		t.Fatal(err)
	}
	h.mustRun("add", "repo", "notes.txt")
	h.mustRun("commit", "repo", "notes.txt", "second", "draft")

	out = h.mustRun("log", "repo")
	want := "Commit History:\n" +
		"File: notes.txt | Timestamp: 20240501100000\n" +
		"    first draft\n" +
		"File: notes.txt | Timestamp: 20240501100100\n" +
		"    second draft\n"
	if out != want {
		t.Fatalf("log mismatch:\n%s\nwant:\n%s", out, want)
	}

	out = h.mustRun("log", "--oneline", "-n", "1", "repo", "notes.txt")
	if out != "notes.txt.20240501100100\n" {
		t.Fatalf("unexpected oneline log %q", out)
	}

	out = h.mustRun("status", "repo")
	for _, line := range []string{"Repository: repo", "Tracked files (1):", "notes.txt [committed]", "Total commits: 2"} {
		if !strings.Contains(out, line) {
			t.Errorf("status missing %q:\n%s", line, out)
		}
	}

	out = h.mustRun("checkout", "repo", "notes.txt")
	if !strings.Contains(out, "checked out as notes.txt.decrypted") {
		t.Fatalf("unexpected checkout output %q", out)
	}
	got, _ := h.mem.ReadFile("notes.txt.decrypted")
	if string(got) != "draft two" {
		t.Fatalf("checked out %q", got)
	}

	out = h.mustRun("revert", "repo", "notes.txt", "20240501100000")
	if !strings.Contains(out, "reverted to notes.txt.20240501100000") {
		t.Fatalf("unexpected revert output %q", out)
	}
	got, _ = h.mem.ReadFile("repo/notes.txt")
	if string(got) != "draft one" {
		t.Fatalf("reverted working copy %q", got)
	}

	out = h.mustRun("verify", "repo")
	if !strings.Contains(out, "Repository OK (2 snapshots, 2 messages)") {
		t.Fatalf("unexpected verify output %q", out)
	}

	h.now = h.now.Add(time.Minute)
	h.mustRun("add", "repo", "notes.txt")
	h.mustRun("commit", "repo", "notes.txt", "-m", "third")
	out = h.mustRun("log", "-n", "1", "repo", "notes.txt")
	want = "Commit History:\n" +
		"File: notes.txt | Timestamp: 20240501100200\n" +
		"    third\n"
	if out != want {
		t.Fatalf("log mismatch:\n%s\nwant:\n%s", out, want)
	}
}

func TestCommitMessageForms(t *testing.T) {
	h := newHarness(t, "")
	if err := h.mem.WriteFile("a.txt", []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	h.mustRun("init", "repo")
	h.mustRun("add", "repo", "a.txt")

	h.mustRun("commit", "repo", "a.txt", "--message=fix typo", "again")
	got, err := h.mem.ReadFile("repo/commits/a.txt.20240501100000.msg")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "fix typo again\n" {
		t.Fatalf("stored message %q", got)
	}

	for name, args := range map[string][]string{
		"missing value": {"commit", "repo", "a.txt", "-m"},
		"flag and args": {"commit", "-m", "one", "repo", "a.txt", "two"},
	} {
		t.Run(name, func(t *testing.T) {
			err := h.run(args...)
			if exitCode(err) != 1 {
				t.Fatalf("expected exit 1, got %v", err)
			}
			if !strings.HasPrefix(err.Error(), "Usage: fvc commit") {
				t.Fatalf("unexpected usage %q", err.Error())
			}
		})
	}
}

func TestOperationFailureExitsZero(t *testing.T) {
	h := newHarness(t, "")

	err := h.run("add", "nowhere", "x.txt")
	if exitCode(err) != 0 {
		t.Fatalf("expected exit 0, got %v", err)
	}
	if !strings.HasPrefix(h.stderr.String(), "Error: not a valid VCS repository") {
		t.Fatalf("unexpected stderr %q", h.stderr.String())
	}

	h.mustRun("init", "repo")
	if err := h.run("revert", "repo", "x.txt"); exitCode(err) != 0 {
		t.Fatalf("expected exit 0, got %v", err)
	}
	if !strings.Contains(h.stderr.String(), "no matching commit") {
		t.Fatalf("unexpected stderr %q", h.stderr.String())
	}
}

func TestMissingArgs(t *testing.T) {
	h := newHarness(t, "")
	cases := map[string][]string{
		"init":     {"init"},
		"add":      {"add", "repo"},
		"commit":   {"commit", "repo"},
		"revert":   {"revert", "repo"},
		"checkout": {"checkout", "repo"},
		"status":   {"status"},
		"log":      {"log"},
		"verify":   {"verify"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			err := h.run(args...)
			if exitCode(err) != 1 {
				t.Fatalf("expected exit 1, got %v", err)
			}
			if !strings.HasPrefix(err.Error(), "Usage: fvc "+name) {
				t.Fatalf("unexpected usage %q", err.Error())
			}
		})
	}
}

func TestUnknownAndNoCommand(t *testing.T) {
	h := newHarness(t, "")

	err := h.run("frobnicate")
	if exitCode(err) != 1 || err.Error() != "Unknown command: frobnicate" {
		t.Fatalf("unexpected result %v", err)
	}

	err = h.run()
	if exitCode(err) != 1 {
		t.Fatalf("expected exit 1, got %v", err)
	}
	if !strings.Contains(h.stdout.String(), "fvc") {
		t.Fatalf("expected help output, got %q", h.stdout.String())
	}
}

func TestStatusInvalidRepository(t *testing.T) {
	h := newHarness(t, "")
	out := h.mustRun("status", "missing")
	if out != "Not a valid VCS repository\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestStatusHelpNotesUntrackedMarker(t *testing.T) {
	h := newHarness(t, "")
	if err := h.run("status", "--help"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !strings.Contains(h.stdout.String(), "config.txt marker and files matching ignore patterns are not counted") {
		t.Fatalf("status help lacks tracked-file note:\n%s", h.stdout.String())
	}

	h.mustRun("init", "repo")
	out := h.mustRun("status", "repo")
	if !strings.Contains(out, "Tracked files (0):") || strings.Contains(out, "config.txt") {
		t.Fatalf("marker reported as tracked:\n%s", out)
	}
}

func TestLogNoCommits(t *testing.T) {
	h := newHarness(t, "")
	h.mustRun("init", "repo")
	if out := h.mustRun("log", "repo"); out != "No commits found.\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSettingsAndKeyOverride(t *testing.T) {
	h := newHarness(t, "key: from-file\ncheckout:\n  suffix: .plain\nignore:\n  - \"*.bak\"\n")
	if err := h.mem.WriteFile("a.txt", []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	h.mustRun("init", "repo")
	h.mustRun("add", "repo", "a.txt")

	stored, _ := h.mem.ReadFile("repo/a.txt")
	want, _ := transform.Apply([]byte("abc"), "from-file")
	if !bytes.Equal(stored, want) {
		t.Fatal("configured key not used")
	}

	h.mustRun("--key", "other", "add", "repo", "a.txt")
	stored, _ = h.mem.ReadFile("repo/a.txt")
	want, _ = transform.Apply([]byte("abc"), "other")
	if !bytes.Equal(stored, want) {
		t.Fatal("--key did not override the configured key")
	}

	out := h.mustRun("--key", "other", "checkout", "repo", "a.txt")
	if !strings.Contains(out, "a.txt.plain") {
		t.Fatalf("configured suffix not used: %q", out)
	}

	if err := h.mem.WriteFile("repo/a.txt.bak", []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	out = h.mustRun("status", "repo")
	if strings.Contains(out, "a.txt.bak") {
		t.Fatalf("ignored file listed:\n%s", out)
	}
}

func TestInvalidSettings(t *testing.T) {
	h := newHarness(t, "log:\n  level: loud\n")
	err := h.run("status", "repo")
	if exitCode(err) != 1 {
		t.Fatalf("expected exit 1, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid log.level") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDebugLogging(t *testing.T) {
	h := newHarness(t, "")
	if err := h.run("--log-level", "debug", "init", "repo"); err != nil {
		t.Fatal(err)
	}
	logs := h.stderr.String()
	if !strings.Contains(logs, "running command") || !strings.Contains(logs, "repository initialized") {
		t.Fatalf("expected debug logs, got %q", logs)
	}
}
