// Package main provides the entry point for the quaderno CLI.
package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/emarron/quaderno/internal/config"
	"github.com/emarron/quaderno/internal/output"
	"github.com/emarron/quaderno/internal/textfile"
)

// newNewCmd creates the new command.
func newNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [fecha]",
		Short: "Crea el texto de una fecha a partir de la plantilla",
		Long: `Crea el archivo de texto de una fecha con la plantilla del cuaderno:
los cinco metadatos (FECHA ya rellena) y las tres secciones vacías.

Sin fecha, crea el día siguiente a la última entrada del archivo.
Se niega a sobrescribir un texto existente.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := ""
			if len(args) == 1 {
				date = args[0]
			}
			return runNew(cmd, date)
		},
	}
	return cmd
}

// runNew executes the new command.
func runNew(cmd *cobra.Command, date string) error {
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
	if _, statErr := os.Stat(path); statErr == nil {
		err := output.NewConflictError("ya existe el texto de " + date + ": " + path)
		printer.Error(err)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		err = output.NewSystemErrorWithCause("no pude crear el directorio de "+path, err)
		printer.Error(err)
		return err
	}
	if err := os.WriteFile(path, []byte(textfile.Template(date)), 0o644); err != nil {
		err = output.NewSystemErrorWithCause("no pude escribir "+path, err)
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{"date": date, "file": path, "created": true})
	}
	return printer.Success(map[string]any{"message": "Creado: " + path})
}
