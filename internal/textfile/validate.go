package textfile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/emarron/quaderno/internal/dateutil"
	"github.com/emarron/quaderno/internal/output"
)

// StrictValidate applies the publication-grade rules to a parsed source
// file. date is the expected entry date; filename (base name, may be
// empty to skip the check) must be <date>.txt.
//
// Rules, in check order:
//  1. every key in StrictMetaKeys is present (values may be empty,
//     except FECHA when set must match)
//  2. FECHA, when non-empty, equals date; the filename stem equals date
//  3. the three sections appear exactly in SectionOrder
//  4. every section body is non-empty
//
// All violations are collected and reported together so one run fixes
// the whole file.
func StrictValidate(src *Source, date, filename string) error {
	var problems []string

	for _, key := range StrictMetaKeys {
		if _, ok := src.Meta[key]; !ok {
			problems = append(problems, "falta metadato requerido: "+key+":")
		}
	}

	if fecha, ok := src.Meta["FECHA"]; ok {
		fecha = strings.TrimSpace(fecha)
		if fecha != "" {
			if !dateutil.IsValid(fecha) {
				problems = append(problems, "FECHA inválida: "+fecha+" (usa YYYY-MM-DD)")
			} else if fecha != date {
				problems = append(problems, fmt.Sprintf("FECHA (%s) no coincide con la fecha esperada (%s)", fecha, date))
			}
		}
	}

	if filename != "" {
		stem := strings.TrimSuffix(filepath.Base(filename), ".txt")
		if stem != date {
			problems = append(problems, fmt.Sprintf("el nombre del archivo (%s) no coincide con la fecha (%s)", filepath.Base(filename), date))
		}
	}

	problems = append(problems, sectionProblems(src)...)

	if len(problems) > 0 {
		return output.NewUserError("archivo inválido:\n  - " + strings.Join(problems, "\n  - "))
	}
	return nil
}

func sectionProblems(src *Source) []string {
	var problems []string

	missing := false
	for _, name := range SectionOrder {
		if _, ok := src.Sections[name]; !ok {
			problems = append(problems, "falta sección: # "+name)
			missing = true
		}
	}

	if !missing && !inCanonicalOrder(src.Headers) {
		problems = append(problems, "orden inválido: debe ser # POEMA, luego # POEMA_CITADO, luego # TEXTO")
	}

	for _, name := range SectionOrder {
		body, ok := src.Sections[name]
		if ok && strings.TrimSpace(body) == "" {
			problems = append(problems, "sección vacía: # "+name)
		}
	}

	return problems
}

func inCanonicalOrder(headers []string) bool {
	if len(headers) != len(SectionOrder) {
		return false
	}
	for i, name := range SectionOrder {
		if headers[i] != name {
			return false
		}
	}
	return true
}
