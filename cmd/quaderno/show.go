// Package main provides the entry point for the quaderno CLI.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emarron/quaderno/internal/archive"
	"github.com/emarron/quaderno/internal/config"
	"github.com/emarron/quaderno/internal/output"
)

// newShowCmd creates the show command.
func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <fecha>",
		Short: "Muestra la entrada archivada de una fecha",
		Long: `Muestra la entrada del archivo para una fecha: títulos, poeta,
procedencia y palabras clave.

Ejemplos:
  quaderno show 2026-01-06
  quaderno show 2026-01-06 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0])
		},
	}
	return cmd
}

// runShow executes the show command.
func runShow(cmd *cobra.Command, date string) error {
	printer := newPrinter(cmd)

	cfg, err := config.Load("")
	if err != nil {
		printer.Error(err)
		return err
	}

	store, err := archive.Load(cfg.ArchivePath())
	if err != nil {
		printer.Error(err)
		return err
	}

	entry, found := store.FindByDate(date)
	if !found {
		err := output.NewUserError("no hay entrada para " + date)
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(entry)
	}

	printer.Section(entry.Date + " — " + entry.Label())
	printer.KeyValue("Texto", entry.File)
	if entry.Analysis.Poet != "" {
		printer.KeyValue("Poeta", entry.Analysis.Poet)
	}
	if title := entry.Analysis.PoemTitle; title != "" {
		printer.KeyValue("Poema citado", title)
	} else if entry.Analysis.PoemSnippet != "" {
		printer.KeyValue("Poema citado", entry.Analysis.PoemSnippet+"…")
	}
	if entry.Analysis.BookTitle != "" {
		printer.KeyValue("Libro", entry.Analysis.BookTitle)
	}

	if len(entry.Keywords) > 0 {
		printer.Section("Palabras clave")
		for weight := 3; weight >= 1; weight-- {
			var words []string
			for _, kw := range entry.Keywords {
				if kw.Weight == weight {
					words = append(words, kw.Word)
				}
			}
			if len(words) > 0 {
				printer.KeyValue(fmt.Sprintf("peso %d", weight), strings.Join(words, ", "))
			}
		}
	}
	return nil
}
