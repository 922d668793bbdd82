// Package main provides the entry point for the quaderno CLI.
package main

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emarron/quaderno/internal/archive"
	"github.com/emarron/quaderno/internal/config"
	"github.com/emarron/quaderno/internal/git"
	"github.com/emarron/quaderno/internal/output"
	"github.com/emarron/quaderno/internal/staging"
	"github.com/emarron/quaderno/internal/textfile"
)

// statusResult holds the data for status output.
type statusResult struct {
	Repo         string `json:"repo"`
	Branch       string `json:"branch"`
	Archive      string `json:"archive"`
	EntryCount   int    `json:"entry_count"`
	FirstDate    string `json:"first_date,omitempty"`
	LastDate     string `json:"last_date,omitempty"`
	NextDate     string `json:"next_date,omitempty"`
	NextFile     string `json:"next_file,omitempty"`
	NextFileOK   bool   `json:"next_file_exists"`
	PendingDate  string `json:"pending_date,omitempty"`
	PendingCount int    `json:"pending_keywords"`
}

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Muestra el estado del cuaderno",
		Long: `Muestra el estado del cuaderno: rama, tamaño del archivo, última
entrada publicada, fecha siguiente y si su texto ya existe, y la
propuesta de palabras clave pendiente.

Ejemplos:
  quaderno status          # estado legible
  quaderno status --json   # estado como JSON para scripts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd)
		},
	}
	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command) error {
	printer := newPrinter(cmd)

	cfg, err := config.Load("")
	if err != nil {
		printer.Error(err)
		return err
	}

	result, err := gatherStatus(cfg)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}
	printHumanStatus(printer, result)
	return nil
}

// gatherStatus collects all status information.
func gatherStatus(cfg *config.Config) (*statusResult, error) {
	branch, err := git.CurrentBranch(cfg.Root)
	if err != nil {
		return nil, err
	}

	result := &statusResult{
		Repo:    filepath.Base(cfg.Root),
		Branch:  branch,
		Archive: cfg.Archive,
	}

	store, err := archive.Load(cfg.ArchivePath())
	if err != nil {
		return nil, err
	}
	result.EntryCount = store.Len()
	result.FirstDate = store.MinDate()
	result.LastDate = store.MaxDate()

	if next, err := store.NextDate(); err == nil {
		result.NextDate = next
		nextPath := textfile.ResolvePath(cfg.TextosDir(), next)
		if rel, relErr := filepath.Rel(cfg.Root, nextPath); relErr == nil {
			result.NextFile = filepath.ToSlash(rel)
		}
		_, statErr := os.Stat(nextPath)
		result.NextFileOK = statErr == nil
	}

	slot, err := staging.Load(cfg.StagingPath())
	if err != nil {
		return nil, err
	}
	result.PendingDate = slot.Date
	result.PendingCount = len(slot.Keywords)

	return result, nil
}

// printHumanStatus outputs status in human-readable format.
func printHumanStatus(printer *output.Printer, status *statusResult) {
	printer.Section("Cuaderno")
	printer.KeyValue("Repo", status.Repo)
	printer.KeyValue("Rama", status.Branch)
	printer.KeyValue("Archivo", status.Archive)
	printer.KeyValue("Entradas", strconv.Itoa(status.EntryCount))
	if status.LastDate != "" {
		printer.KeyValue("Última", status.LastDate)
	}

	printer.Section("Siguiente entrada")
	if status.NextDate == "" {
		printer.Println("El archivo está vacío; empieza con 'quaderno new <fecha>'.")
	} else {
		printer.KeyValue("Fecha", status.NextDate)
		printer.KeyValue("Texto", status.NextFile)
		printer.KeyValue("Texto existe", formatBool(status.NextFileOK))
	}

	printer.Section("Palabras clave pendientes")
	if status.PendingDate == "" {
		printer.Println("Ninguna.")
	} else {
		printer.KeyValue("Fecha", status.PendingDate)
		printer.KeyValue("Palabras", strconv.Itoa(status.PendingCount))
	}
}

// formatBool returns a human-readable boolean string.
func formatBool(b bool) string {
	if b {
		return "sí"
	}
	return "no"
}
