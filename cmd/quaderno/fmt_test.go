package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emarron/quaderno/internal/output"
)

// messyDay has shuffled metadata, a stray key and loose blank lines, but
// normalizes to canonicalDay.
const messyDay = `POETA:   Alejandra Pizarnik
FECHA:
MY_POEM_TITLE: La espera
BOOK_TITLE: Las aventuras perdidas
POEM_TITLE: El despertar
CLAVE_RARA: sobra


# POEMA


la noche cae

# POEMA_CITADO

la jaula se ha vuelto pájaro


# TEXTO

Un análisis breve del poema.

`

func TestFmtCommand_RewritesToCanonical(t *testing.T) {
	dir := initJournal(t)
	path := writeDay(t, dir, "2026-01-06", messyDay)

	runInDir(t, dir, func() {
		out, err := runCommand(t, "fmt", "2026-01-06", "--json")
		if err != nil {
			t.Fatalf("fmt failed: %v\nOutput: %s", err, out)
		}

		var result map[string]any
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, out)
		}
		if result["changed"] != true {
			t.Errorf("changed = %v, want true", result["changed"])
		}
	})

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != canonicalDay {
		t.Errorf("normalized file = %q, want canonical form", content)
	}
}

func TestFmtCommand_RefusesMalformedFile(t *testing.T) {
	// A broken section header must fail validation, not get rewritten:
	// normalizing would drop the unrecognized section and its body.
	brokenDay := strings.Replace(canonicalDay, "# POEMA\n", "## POEMA\n", 1)
	dir := initJournal(t)
	path := writeDay(t, dir, "2026-01-06", brokenDay)

	for _, args := range [][]string{
		{"fmt", "2026-01-06"},
		{"fmt", "2026-01-06", "--check"},
	} {
		runInDir(t, dir, func() {
			_, err := runCommand(t, args...)
			if err == nil {
				t.Fatalf("%v: expected error on malformed file", args)
			}
			if output.GetExitCode(err) != output.ExitUserError {
				t.Errorf("%v: exit code = %d, want %d", args, output.GetExitCode(err), output.ExitUserError)
			}
			if !strings.Contains(err.Error(), "falta sección: # POEMA") {
				t.Errorf("%v: error = %v", args, err)
			}
		})
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != brokenDay {
		t.Errorf("malformed file was rewritten: %q", content)
	}
}

func TestFmtCommand_SecondRunIsNoop(t *testing.T) {
	dir := initJournal(t)
	writeDay(t, dir, "2026-01-06", canonicalDay)

	runInDir(t, dir, func() {
		out, err := runCommand(t, "fmt", "2026-01-06", "--json")
		if err != nil {
			t.Fatalf("fmt failed: %v\nOutput: %s", err, out)
		}

		var result map[string]any
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, out)
		}
		if result["changed"] != false {
			t.Errorf("changed = %v, want false", result["changed"])
		}
	})
}

func TestFmtCommand_CheckFailsOnMessyFile(t *testing.T) {
	dir := initJournal(t)
	path := writeDay(t, dir, "2026-01-06", messyDay)

	runInDir(t, dir, func() {
		_, err := runCommand(t, "fmt", "2026-01-06", "--check", "--json")
		if err == nil {
			t.Fatal("expected error from --check on a messy file")
		}
		if output.GetExitCode(err) != output.ExitUserError {
			t.Errorf("exit code = %d, want %d", output.GetExitCode(err), output.ExitUserError)
		}
		if !strings.Contains(err.Error(), "no está normalizado") {
			t.Errorf("error = %v", err)
		}
	})

	content, err := os.ReadFile(filepath.Join(dir, "data", "textos", "2026", "01", "2026-01-06.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != messyDay {
		t.Errorf("--check modified %s", path)
	}
}
