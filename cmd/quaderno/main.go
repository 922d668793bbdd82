// Package main provides the entry point for the quaderno CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/emarron/quaderno/internal/config"
	"github.com/emarron/quaderno/internal/envfile"
	"github.com/emarron/quaderno/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("json")
	}
	return flag != nil && flag.Value.String() == "true"
}

// useColor resolves the effective color setting from the --color flag
// and TTY detection on stdout.
func useColor(cmd *cobra.Command) bool {
	mode := "auto"
	if flag := cmd.Root().PersistentFlags().Lookup("color"); flag != nil {
		mode = flag.Value.String()
	}
	return output.ResolveColorMode(mode, output.IsTTY(cmd.OutOrStdout()))
}

// newPrinter builds the per-command printer, errors to stderr.
func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
		WithStderr(cmd.ErrOrStderr())
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the quaderno CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quaderno",
		Short: "Cuaderno diario de poesía: publica una entrada por día",
		Long: `Quaderno mantiene un cuaderno de poesía con una entrada por día:
un poema propio, un poema citado y un análisis, archivados como JSON y
versionados con git.

El flujo de cada día:
  - quaderno new        crea el texto del día a partir de la plantilla
  - quaderno validate   comprueba el formato del texto
  - quaderno keywords   propone palabras clave con un LLM
  - quaderno publish    valida, normaliza, archiva y hace commit

Todas las órdenes aceptan --json para salida estructurada.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
				err := output.NewUserError("falta la orden. Ejecuta 'quaderno --help'")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	// Load .env.local (then .env) for API keys that can't be exported to env.
	// Environment variables always take precedence over file values.
	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		loadEnvFiles()
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Salida en formato JSON")
	cmd.PersistentFlags().String("color", "auto", "Color en la salida: auto, always, never")

	// Configure lipgloss for TTY detection
	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// loadEnvFiles loads env files in priority order. First match for each
// variable wins; environment variables already set always take precedence.
//
// Resolution order:
//  1. $CWD/.env.local   (per-repo override, gitignored)
//  2. $CWD/.env         (per-repo)
//  3. ~/.config/quaderno/env (global fallback)
func loadEnvFiles() {
	_ = envfile.LoadDir(".")

	if dir := config.Dir(); dir != "" {
		_ = envfile.Load(filepath.Join(dir, "env"))
	}
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Órdenes principales:"})
	cmd.AddGroup(&cobra.Group{ID: "check", Title: "Órdenes de revisión:"})
	cmd.AddGroup(&cobra.Group{ID: "query", Title: "Órdenes de consulta:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newPublishCmd(), "core")
	addGroupedCommand(cmd, newKeywordsCmd(), "core")
	addGroupedCommand(cmd, newNewCmd(), "core")

	addGroupedCommand(cmd, newValidateCmd(), "check")
	addGroupedCommand(cmd, newFmtCmd(), "check")

	addGroupedCommand(cmd, newStatusCmd(), "query")
	addGroupedCommand(cmd, newShowCmd(), "query")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
