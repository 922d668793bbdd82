package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emarron/quaderno/internal/output"
)

// stageKeywords writes a pending keyword proposal for date, the way the
// keywords command would.
func stageKeywords(t *testing.T, dir, date string) {
	t.Helper()
	path := filepath.Join(dir, "state", "pending_keywords.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir state: %v", err)
	}
	slot := `{"date": "` + date + `", "keywords": [{"word": "noche", "weight": 3}, {"word": "jaula", "weight": 2}]}`
	if err := os.WriteFile(path, []byte(slot), 0o644); err != nil {
		t.Fatalf("write staging: %v", err)
	}
}

// publishDay stages keywords for date and publishes it.
func publishDay(t *testing.T, dir, date string) {
	t.Helper()
	stageKeywords(t, dir, date)
	runInDir(t, dir, func() {
		out, err := runCommand(t, "publish", date, "--kw", "--yes", "--json")
		if err != nil {
			t.Fatalf("publish %s failed: %v\nOutput: %s", date, err, out)
		}
	})
}

func TestPublishCommand_NewEntry(t *testing.T) {
	dir := initJournal(t)
	writeDay(t, dir, "2026-01-06", canonicalDay)
	stageKeywords(t, dir, "2026-01-06")

	runInDir(t, dir, func() {
		out, err := runCommand(t, "publish", "2026-01-06", "--kw", "--yes", "--json")
		if err != nil {
			t.Fatalf("publish failed: %v\nOutput: %s", err, out)
		}

		var result map[string]any
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, out)
		}
		if result["commit_type"] != "NEW" {
			t.Errorf("commit_type = %v, want NEW", result["commit_type"])
		}
		if result["committed"] != true {
			t.Errorf("committed = %v, want true", result["committed"])
		}
		if result["keywords"] != float64(2) {
			t.Errorf("keywords = %v, want 2", result["keywords"])
		}
	})

	subject := strings.TrimSpace(runGitOutput(t, dir, "log", "-1", "--format=%s"))
	if subject != "entrada 2026-01-06 — La espera" {
		t.Errorf("commit subject = %q", subject)
	}

	archiveData, err := os.ReadFile(filepath.Join(dir, "data", "archivo.json"))
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if !strings.Contains(string(archiveData), `"date": "2026-01-06"`) {
		t.Errorf("archive missing published entry:\n%s", archiveData)
	}

	stagingData, err := os.ReadFile(filepath.Join(dir, "state", "pending_keywords.json"))
	if err != nil {
		t.Fatalf("read staging: %v", err)
	}
	if !strings.Contains(string(stagingData), `"date": ""`) {
		t.Errorf("staging slot not cleared:\n%s", stagingData)
	}
}

func TestPublishCommand_DryRunWritesNothing(t *testing.T) {
	dir := initJournal(t)
	writeDay(t, dir, "2026-01-06", canonicalDay)
	stageKeywords(t, dir, "2026-01-06")

	runInDir(t, dir, func() {
		out, err := runCommand(t, "publish", "2026-01-06", "--kw", "--dry-run", "--json")
		if err != nil {
			t.Fatalf("publish --dry-run failed: %v\nOutput: %s", err, out)
		}

		var result map[string]any
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, out)
		}
		if result["dry_run"] != true || result["committed"] != false {
			t.Errorf("dry run result = %v", result)
		}
	})

	archiveData, err := os.ReadFile(filepath.Join(dir, "data", "archivo.json"))
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if string(archiveData) != "[]\n" {
		t.Errorf("dry run modified the archive:\n%s", archiveData)
	}

	count := strings.TrimSpace(runGitOutput(t, dir, "rev-list", "--count", "HEAD"))
	if count != "1" {
		t.Errorf("dry run created a commit: rev-list count = %s", count)
	}
}

func TestPublishCommand_NewEntryWithoutKeywords(t *testing.T) {
	dir := initJournal(t)
	writeDay(t, dir, "2026-01-06", canonicalDay)

	runInDir(t, dir, func() {
		_, err := runCommand(t, "publish", "2026-01-06", "--yes", "--json")
		if err == nil {
			t.Fatal("expected error publishing a new entry without staged keywords")
		}
		if !strings.Contains(err.Error(), "palabras clave") {
			t.Errorf("error = %v", err)
		}
	})
}

func TestPublishCommand_MissingDayFile(t *testing.T) {
	dir := initJournal(t)

	runInDir(t, dir, func() {
		_, err := runCommand(t, "publish", "2026-01-06", "--yes", "--json")
		if err == nil {
			t.Fatal("expected error for missing day file")
		}
		if output.GetExitCode(err) != output.ExitUserError {
			t.Errorf("exit code = %d, want %d", output.GetExitCode(err), output.ExitUserError)
		}
	})
}

func TestPublishCommand_WrongBranch(t *testing.T) {
	dir := initJournal(t)
	writeDay(t, dir, "2026-01-06", canonicalDay)
	stageKeywords(t, dir, "2026-01-06")
	runGit(t, dir, "checkout", "-b", "borrador")

	runInDir(t, dir, func() {
		_, err := runCommand(t, "publish", "2026-01-06", "--kw", "--yes", "--json")
		if err == nil {
			t.Fatal("expected error publishing from another branch")
		}
		if output.GetExitCode(err) != output.ExitConflict {
			t.Errorf("exit code = %d, want %d", output.GetExitCode(err), output.ExitConflict)
		}
	})
}

func TestPublishCommand_RepublishIsNoChange(t *testing.T) {
	dir := initJournal(t)
	writeDay(t, dir, "2026-01-06", canonicalDay)
	publishDay(t, dir, "2026-01-06")

	runInDir(t, dir, func() {
		out, err := runCommand(t, "publish", "2026-01-06", "--yes", "--json")
		if err != nil {
			t.Fatalf("republish failed: %v\nOutput: %s", err, out)
		}

		var result map[string]any
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, out)
		}
		if result["commit_type"] != "NO_CHANGE" {
			t.Errorf("commit_type = %v, want NO_CHANGE", result["commit_type"])
		}
		if result["committed"] != false {
			t.Errorf("committed = %v, want false", result["committed"])
		}
	})

	count := strings.TrimSpace(runGitOutput(t, dir, "rev-list", "--count", "HEAD"))
	if count != "2" {
		t.Errorf("republish created a commit: rev-list count = %s", count)
	}
}
