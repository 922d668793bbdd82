package keywords

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/emarron/quaderno/internal/llm"
	"github.com/emarron/quaderno/internal/textfile"
)

// cannedCompleter returns a fixed response and records the request.
type cannedCompleter struct {
	content string
	err     error
	lastReq llm.Request
}

func (c *cannedCompleter) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	c.lastReq = req
	if c.err != nil {
		return nil, c.err
	}
	return &llm.Response{Content: c.content, Model: "test"}, nil
}

const sampleSource = `FECHA: 2026-01-06
MY_POEM_TITLE: La espera
POETA: Alejandra Pizarnik
POEM_TITLE: El despertar
BOOK_TITLE: Las aventuras perdidas

# POEMA

la noche cae

# POEMA_CITADO

la jaula se ha vuelto pájaro

# TEXTO

Primer párrafo del análisis.

Segundo párrafo.

Tercer párrafo.

Cuarto y último párrafo.
`

func TestGenerate(t *testing.T) {
	completer := &cannedCompleter{
		content: `[{"word": "Noche", "weight": 3}, {"word": "jaula", "weight": 2}]`,
	}
	gen := &Generator{Client: completer}

	kws, err := gen.Generate(context.Background(), textfile.Parse(sampleSource))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if len(kws) != 2 {
		t.Fatalf("Generate() = %v, want 2 keywords", kws)
	}
	if kws[0].Word != "noche" || kws[0].Weight != 3 {
		t.Errorf("kws[0] = %v, want normalized noche/3", kws[0])
	}
	if !strings.Contains(completer.lastReq.System, "lector crítico") {
		t.Errorf("System = %q, want critical-reader framing", completer.lastReq.System)
	}
}

func TestGenerateModelError(t *testing.T) {
	gen := &Generator{Client: &cannedCompleter{err: errors.New("boom")}}
	if _, err := gen.Generate(context.Background(), textfile.Parse(sampleSource)); err == nil {
		t.Fatal("Generate() expected error")
	}
}

func TestBuildPromptExcludesMetadata(t *testing.T) {
	prompt := BuildPrompt(textfile.Parse(sampleSource))

	if strings.Contains(prompt, "Alejandra Pizarnik") {
		t.Error("prompt leaks poet name from metadata")
	}
	if !strings.Contains(prompt, "la noche cae") {
		t.Error("prompt missing own poem")
	}
	if !strings.Contains(prompt, "la jaula se ha vuelto pájaro") {
		t.Error("prompt missing cited poem")
	}
}

func TestBuildPromptCarriesRules(t *testing.T) {
	prompt := BuildPrompt(textfile.Parse(sampleSource))

	for _, rule := range []string{
		"PRIORIDAD DEL POEMA",
		"PROHIBICIÓN DE LITERALIDAD CONCEPTUAL",
		"ABSTRACCIÓN FORZADA",
		"INVERSIÓN POÉTICA",
		"núcleos conceptuales (máx. 6)",
		"Máximo 30 keywords, mínimo 10",
	} {
		if !strings.Contains(prompt, rule) {
			t.Errorf("prompt missing %q", rule)
		}
	}
}

func TestTrimTexto(t *testing.T) {
	t.Run("four paragraphs keep first and last", func(t *testing.T) {
		texto := "uno\n\ndos\n\ntres\n\ncuatro"
		got := TrimTexto(texto)
		if got != "uno\n\ncuatro" {
			t.Errorf("TrimTexto() = %q", got)
		}
	})

	t.Run("three paragraphs untouched", func(t *testing.T) {
		texto := "uno\n\ndos\n\ntres"
		if got := TrimTexto(texto); got != texto {
			t.Errorf("TrimTexto() = %q, want unchanged", got)
		}
	})

	t.Run("long text capped", func(t *testing.T) {
		texto := strings.Repeat("á", 3000)
		got := TrimTexto(texto)
		if len([]rune(got)) != 1800 {
			t.Errorf("TrimTexto() rune length = %d, want 1800", len([]rune(got)))
		}
	})
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantLen int
		wantErr bool
	}{
		{
			name:    "bare array",
			content: `[{"word": "mar", "weight": 1}]`,
			wantLen: 1,
		},
		{
			name:    "object with keywords field",
			content: `{"keywords": [{"word": "mar", "weight": 1}, {"word": "sal", "weight": 2}]}`,
			wantLen: 2,
		},
		{
			name:    "array inside prose and fences",
			content: "Aquí tienes:\n```json\n[{\"word\": \"mar\", \"weight\": 1}]\n```\n",
			wantLen: 1,
		},
		{
			name:    "no array",
			content: "lo siento, no puedo",
			wantErr: true,
		},
		{
			name:    "invalid json",
			content: `[{"word": mar}]`,
			wantErr: true,
		},
		{
			name:    "normalizes to empty",
			content: `[{"word": "   ", "weight": 2}]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kws, err := ParseResponse(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(kws) != tt.wantLen {
				t.Errorf("ParseResponse() len = %d, want %d", len(kws), tt.wantLen)
			}
		})
	}
}

func TestParseResponseCapsAtMax(t *testing.T) {
	var parts []string
	for i := 0; i < 40; i++ {
		parts = append(parts, `{"word": "palabra`+strings.Repeat("a", i+1)+`", "weight": 2}`)
	}
	content := "[" + strings.Join(parts, ",") + "]"

	kws, err := ParseResponse(content)
	if err != nil {
		t.Fatalf("ParseResponse() error: %v", err)
	}
	if len(kws) != MaxKeywords {
		t.Errorf("ParseResponse() len = %d, want %d", len(kws), MaxKeywords)
	}
}
