package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/auth"
)

// writeConfig points the CLI at a throwaway sqlite database and isolates it
// from SUMMARIZER_* variables set in the caller's environment.
func writeConfig(t *testing.T) string {
	t.Helper()
	for _, key := range []string{
		"SUMMARIZER_DB_DRIVER", "SUMMARIZER_DB_DSN", "SUMMARIZER_REDIS_URL",
		"SUMMARIZER_JWT_SECRET", "SUMMARIZER_ADMIN_SECRET", "SUMMARIZER_ENV",
	} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	body := fmt.Sprintf("env: test\ndatabase:\n  driver: sqlite\n  dsn: %q\n", filepath.Join(dir, "cli.db"))
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionJSON(t *testing.T) {
	out, err := run(t, "version", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output %q: %v", out, err)
	}
	if got["version"] != version {
		t.Fatalf("version = %q", got["version"])
	}
}

func TestSummarizeTextFile(t *testing.T) {
	cfg := writeConfig(t)
	var sb strings.Builder
	for i := 0; i < 20; i++ {
		switch i % 3 {
		case 0:
			fmt.Fprintf(&sb, "Research shows that water evaluation requires careful measurement of regional implementation in part %d. ", i)
		case 1:
			fmt.Fprintf(&sb, "The committee discussed water management at length during meeting %d. ", i)
		default:
			fmt.Fprintf(&sb, "Why does water matter for cities and their long term development in case %d? ", i)
		}
	}
	input := filepath.Join(t.TempDir(), "water-report.txt")
	if err := os.WriteFile(input, []byte(sb.String()), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--config", cfg, "summarize", "--text", "--format", "json", "--level", "professor", input)
	if err != nil {
		t.Fatalf("summarize: %v\n%s", err, out)
	}
	var res struct {
		Document struct {
			Title string `json:"title"`
		} `json:"document"`
		Summary struct {
			Text           string `json:"text"`
			Level          string `json:"level"`
			WeightsVersion string `json:"weightsVersion"`
		} `json:"summary"`
		Quality *struct{} `json:"quality"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output %q: %v", out, err)
	}
	if res.Document.Title != "water-report" || res.Summary.Text == "" || res.Quality == nil {
		t.Fatalf("result = %+v", res)
	}
	if res.Summary.Level != "professor" || res.Summary.WeightsVersion != "1.0.0" {
		t.Fatalf("summary = %+v", res.Summary)
	}

	out, err = run(t, "--config", cfg, "summarize", "--text", input)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "water-report\n") || !strings.Contains(out, "Level: student") {
		t.Fatalf("text output = %q", out)
	}
}

func TestSummarizeRejectsBadInput(t *testing.T) {
	cfg := writeConfig(t)
	if _, err := run(t, "--config", cfg, "summarize", "--level", "toddler", "x.pdf"); err == nil {
		t.Error("expected level error")
	}
	if _, err := run(t, "--config", cfg, "summarize", "--format", "docx", "x.pdf"); err == nil {
		t.Error("expected format error")
	}
	if _, err := run(t, "--config", cfg, "summarize", filepath.Join(t.TempDir(), "notes.txt")); err == nil {
		t.Error("expected missing file error")
	}
}

func TestTokenCommand(t *testing.T) {
	cfg := writeConfig(t)
	t.Setenv("SUMMARIZER_JWT_SECRET", "cli-secret")

	out, err := run(t, "--config", cfg, "token", "--subject", "ops")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := auth.NewJWTManager("cli-secret", "", 0).ValidateAdmin(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("minted token invalid: %v", err)
	}
	if claims.Subject != "ops" {
		t.Fatalf("subject = %q", claims.Subject)
	}
}

func TestTokenRequiresSecret(t *testing.T) {
	cfg := writeConfig(t)
	if _, err := run(t, "--config", cfg, "token"); err == nil {
		t.Fatal("expected error without a jwt secret")
	}
}

func TestLearnInsufficientData(t *testing.T) {
	cfg := writeConfig(t)
	out, err := run(t, "--config", cfg, "--json", "learn")
	if err != nil {
		t.Fatalf("learn: %v", err)
	}
	var res struct {
		Outcome string `json:"outcome"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output %q: %v", out, err)
	}
	if res.Outcome != "insufficient_data" {
		t.Fatalf("outcome = %q", res.Outcome)
	}
}
