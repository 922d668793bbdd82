// Package keywords generates weighted keyword proposals for an entry
// from its poem and analysis texts, via an LLM.
package keywords

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/emarron/quaderno/internal/archive"
	"github.com/emarron/quaderno/internal/llm"
	"github.com/emarron/quaderno/internal/output"
	"github.com/emarron/quaderno/internal/textfile"
)

// MaxKeywords caps the proposal size regardless of what the model returns.
const MaxKeywords = 30

// textoCharCap bounds the analysis excerpt sent to the model. The
// poems travel whole; the prose analysis is the long part.
const textoCharCap = 1800

// Completer is the LLM surface the generator needs.
// *llm.Client satisfies it; tests substitute a canned implementation.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Generator turns one day's source text into a keyword proposal.
type Generator struct {
	Client Completer
}

const systemPrompt = `Eres un lector crítico de poesía y ensayo literario. Tu tarea no es resumir ni describir textos, sino extraer núcleos conceptuales.`

const instructions = `Recibirás un texto compuesto por hasta tres bloques:
- POEMA (núcleo semántico soberano)
- POEMA_CITADO (resonancia o contrapunto)
- TEXTO (lectura crítica; nunca fuente dominante)

REGLAS OBLIGATORIAS:

1. PRIORIDAD DEL POEMA
El POEMA define el campo conceptual aunque sea breve.
El TEXTO solo puede articular, reforzar o afinar conceptos ya presentes,
directa o metafóricamente, en el POEMA.

2. PROHIBICIÓN DE LITERALIDAD CONCEPTUAL
Palabras que designen objetos, acciones o situaciones literales
solo pueden aparecer con weight: 1.
Nunca pueden aparecer con weight: 3.

3. ABSTRACCIÓN FORZADA
Las keywords con weight: 3 deben:
- ser conceptos abstractos
- explicar por qué ocurre algo, no qué ocurre
- justificar varias líneas o el gesto global del poema

4. INVERSIÓN POÉTICA
Si el poema invierte un valor común
(ej.: vacío como potencia, daño como cuidado, silencio como acción),
esa inversión debe aparecer explícitamente en weight: 3.

5. EVITAR EMOCIONES GENÉRICAS
No usar palabras vagas como "tristeza", "calma", "resiliencia", "paciencia",
salvo que estén conceptualmente trabajadas y sean estructurales.

6. ANCLAJE SIMBÓLICO
Todo concepto abstracto debe poder rastrearse
en una operación corporal, material o lingüística del poema.

7. COHERENCIA DE CORPUS
Mantén coherencia con un corpus que trabaja temas como:
cuerpo, poder, violencia, lenguaje, identidad, norma, deseo, vacío, incertidumbre.

DISTRIBUCIÓN DE PESOS:
- weight: 3 → núcleos conceptuales (máx. 6)
- weight: 2 → dinámicas, tensiones, procesos
- weight: 1 → campo semántico literal o figurativo

FORMATO DE SALIDA (OBLIGATORIO):
- Máximo 30 keywords, mínimo 10
- Minúsculas
- Sin acentos (o acentos indiferentes)
- Salida única en formato JSON exacto:

{
  "keywords": [
    { "word": "...", "weight": 3 },
    { "word": "...", "weight": 2 },
    { "word": "...", "weight": 1 }
  ]
}

RESTRICCIONES FINALES:
- No explicar
- No justificar
- No citar versos
- No incluir metadatos
- No repetir keywords con variaciones triviales`

// Generate produces a normalized keyword list for the parsed source.
// The result is never empty: a model answer that normalizes to nothing
// is an error, because every entry must carry keywords.
func (g *Generator) Generate(ctx context.Context, src *textfile.Source) ([]archive.Keyword, error) {
	resp, err := g.Client.Complete(ctx, llm.Request{
		System: systemPrompt,
		Prompt: BuildPrompt(src),
	})
	if err != nil {
		return nil, err
	}

	kws, err := ParseResponse(resp.Content)
	if err != nil {
		return nil, err
	}
	return kws, nil
}

// BuildPrompt assembles the model prompt: instructions, both poems in
// full, and a bounded excerpt of the analysis. The metadata preface is
// never included; names and titles would pollute the keywords.
func BuildPrompt(src *textfile.Source) string {
	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("\n\n# POEMA\n\n")
	b.WriteString(src.Body(textfile.SectionPoema))
	b.WriteString("\n\n# POEMA_CITADO\n\n")
	b.WriteString(src.Body(textfile.SectionPoemaCitado))
	b.WriteString("\n\n# TEXTO\n\n")
	b.WriteString(TrimTexto(src.Body(textfile.SectionTexto)))
	return b.String()
}

// TrimTexto bounds the analysis text: when it has more than three
// paragraphs only the first and last are kept (they carry the thesis
// and the conclusion), and the result is capped at textoCharCap runes.
func TrimTexto(texto string) string {
	paragraphs := splitParagraphs(texto)
	if len(paragraphs) > 3 {
		texto = paragraphs[0] + "\n\n" + paragraphs[len(paragraphs)-1]
	}

	runes := []rune(texto)
	if len(runes) > textoCharCap {
		texto = string(runes[:textoCharCap])
	}
	return texto
}

func splitParagraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseResponse extracts the keyword array from a model answer,
// tolerating the {"keywords": [...]} envelope, surrounding prose and
// markdown fences, then normalizes and caps it.
func ParseResponse(content string) ([]archive.Keyword, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil, output.NewSystemError("respuesta del modelo sin array JSON de palabras clave")
	}

	var kws []archive.Keyword
	if err := json.Unmarshal([]byte(content[start:end+1]), &kws); err != nil {
		return nil, output.NewSystemErrorWithCause("respuesta del modelo no es JSON válido", err)
	}

	kws = archive.NormalizeKeywords(kws)
	if len(kws) == 0 {
		return nil, output.NewSystemError("el modelo no devolvió palabras clave utilizables")
	}
	if len(kws) > MaxKeywords {
		kws = kws[:MaxKeywords]
	}
	return kws, nil
}
