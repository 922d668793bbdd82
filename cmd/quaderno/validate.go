// Package main provides the entry point for the quaderno CLI.
package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/emarron/quaderno/internal/config"
	"github.com/emarron/quaderno/internal/textfile"
)

// newValidateCmd creates the validate command.
func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [fecha]",
		Short: "Comprueba el formato del texto de una fecha",
		Long: `Valida el texto de una fecha con las reglas estrictas de publicación:
metadatos completos, FECHA coherente con el nombre del archivo, y las
tres secciones (# POEMA, # POEMA_CITADO, # TEXTO) presentes, en orden
y con contenido.

Sin fecha, valida el día siguiente a la última entrada del archivo.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := ""
			if len(args) == 1 {
				date = args[0]
			}
			return runValidate(cmd, date)
		},
	}
	return cmd
}

// runValidate executes the validate command.
func runValidate(cmd *cobra.Command, date string) error {
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
	src, err := textfile.ParseFile(path)
	if err != nil {
		printer.Error(err)
		return err
	}

	if err := textfile.StrictValidate(src, date, filepath.Base(path)); err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{"date": date, "file": path, "valid": true})
	}
	return printer.Success(map[string]any{"message": "Válido: " + path})
}
