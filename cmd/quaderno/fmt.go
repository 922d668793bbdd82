// Package main provides the entry point for the quaderno CLI.
package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/emarron/quaderno/internal/archive"
	"github.com/emarron/quaderno/internal/config"
	"github.com/emarron/quaderno/internal/output"
	"github.com/emarron/quaderno/internal/textfile"
)

// newFmtCmd creates the fmt command.
func newFmtCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "fmt [fecha]",
		Short: "Reescribe el texto de una fecha en su forma canónica",
		Long: `Normaliza el texto de una fecha: metadatos en orden fijo, FECHA
ajustada a la fecha del archivo, una línea en blanco entre bloques.
Los cuerpos de las secciones no se tocan.

La normalización es idempotente: aplicarla dos veces da el mismo
resultado que aplicarla una.

Ejemplos:
  quaderno fmt 2026-01-06           # reescribe el archivo
  quaderno fmt 2026-01-06 --check   # solo informa si haría cambios`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := ""
			if len(args) == 1 {
				date = args[0]
			}
			return runFmt(cmd, date, check)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "No escribe; falla si el archivo no está normalizado")
	return cmd
}

// runFmt executes the fmt command.
func runFmt(cmd *cobra.Command, date string, check bool) error {
	printer := newPrinter(cmd)

	cfg, err := config.Load("")
	if err != nil {
		printer.Error(err)
		return err
	}

	date, err = resolveDateArg(cfg, date)
	if err != nil {
		printer.Error(err)
		return err
	}

	path := textfile.ResolvePath(cfg.TextosDir(), date)
	raw, err := os.ReadFile(path)
	if err != nil {
		err = output.NewUserError("no pude leer " + path + ": " + err.Error())
		printer.Error(err)
		return err
	}

	// Validation comes first: normalizing a malformed file (a broken
	// section header, a missing block) would rewrite it around the
	// damage and lose the body.
	src := textfile.Parse(string(raw))
	if err := textfile.StrictValidate(src, date, filepath.Base(path)); err != nil {
		printer.Error(err)
		return err
	}

	normalized, changed := textfile.Normalize(string(raw), date)

	if check {
		if changed {
			err := output.NewUserError(path + " no está normalizado (ejecuta 'quaderno fmt " + date + "')")
			printer.Error(err)
			return err
		}
		if printer.IsJSON() {
			return printer.WriteJSON(map[string]any{"date": date, "file": path, "formatted": true})
		}
		return printer.Success(map[string]any{"message": "Ya normalizado: " + path})
	}

	if !changed {
		if printer.IsJSON() {
			return printer.WriteJSON(map[string]any{"date": date, "file": path, "changed": false})
		}
		return printer.Success(map[string]any{"message": "Sin cambios: " + path})
	}

	if err := archive.AtomicWrite(path, []byte(normalized)); err != nil {
		err = output.NewSystemErrorWithCause("no pude escribir "+path, err)
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{"date": date, "file": path, "changed": true})
	}
	return printer.Success(map[string]any{"message": "Normalizado: " + path})
}
