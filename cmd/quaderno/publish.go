// Package main provides the entry point for the quaderno CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emarron/quaderno/internal/config"
	"github.com/emarron/quaderno/internal/output"
	"github.com/emarron/quaderno/internal/publish"
)

// newPublishCmd creates the publish command.
func newPublishCmd() *cobra.Command {
	var (
		kw     bool
		dryRun bool
		dry    bool
		yes    bool
		push   bool
	)
	cmd := &cobra.Command{
		Use:   "publish [fecha]",
		Short: "Valida, normaliza, archiva y hace commit de la entrada del día",
		Long: `Publica la entrada de una fecha: valida el texto, lo normaliza,
fusiona las palabras clave pendientes, actualiza el archivo JSON y crea
el commit correspondiente.

Sin fecha, publica el día siguiente a la última entrada del archivo.

Sin --kw, la propuesta de palabras clave pendiente se ignora: una
entrada existente conserva sus palabras clave y una entrada nueva no
se puede publicar.

Ejemplos:
  quaderno publish                    # publica el siguiente día
  quaderno publish 2026-01-06 --kw    # publica aplicando la propuesta
  quaderno publish --dry-run          # evalúa y muestra qué haría
  quaderno publish --yes              # no pregunta antes del commit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := ""
			if len(args) == 1 {
				date = args[0]
			}
			return runPublish(cmd, date, kw, dryRun || dry, yes, push)
		},
	}
	cmd.Flags().BoolVar(&kw, "kw", false, "Aplica la propuesta de palabras clave pendiente")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Evalúa y muestra el resultado sin archivar ni hacer commit")
	cmd.Flags().BoolVar(&dry, "dry", false, "Alias de --dry-run")
	_ = cmd.Flags().MarkHidden("dry")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "No pide confirmación")
	cmd.Flags().BoolVar(&push, "push", false, "Hace push tras el commit")
	return cmd
}

// runPublish executes the publish command.
func runPublish(cmd *cobra.Command, date string, kw, dryRun, yes, push bool) error {
	printer := newPrinter(cmd)

	cfg, err := config.Load("")
	if err != nil {
		printer.Error(err)
		return err
	}

	confirm := output.NewTerminalConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
	if yes || printer.IsJSON() {
		confirm = output.NewStaticConfirmer(true)
	}

	pipe := &publish.Pipeline{
		Root:        cfg.Root,
		ArchivePath: cfg.Archive,
		TextosDir:   cfg.Textos,
		StagingPath: cfg.Staging,
		Branch:      cfg.Branch,
		Remote:      cfg.Remote,
		VCS:         &publish.GitVCS{Root: cfg.Root},
		Confirm:     confirm,
		ApplyStaged: kw,
		DryRun:      dryRun,
		Push:        push,
	}
	if !printer.IsJSON() {
		pipe.OnPreview = func(r publish.Result) {
			printPublishPreview(printer, r)
		}
	}

	result, err := pipe.Run(date)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}
	printPublishResult(printer, result)
	return nil
}

// printPublishPreview shows what the commit would contain, before the
// confirmation prompt (and as the whole output of a dry run).
func printPublishPreview(printer *output.Printer, r publish.Result) {
	content := fmt.Sprintf("%s\n\ntexto:    %s\ncambio:   %s\nkeywords: %d",
		r.Message, r.File, r.CommitType, r.Keywords)
	printer.Box("Entrada "+r.Date, content)
}

// printPublishResult outputs the run outcome in human-readable form.
func printPublishResult(printer *output.Printer, r *publish.Result) {
	switch {
	case r.DryRun:
		printer.Println()
		_ = printer.Success(map[string]any{"message": "Simulación: el archivo y git quedan sin tocar."})
	case r.CommitType == "NO_CHANGE":
		_ = printer.Success(map[string]any{"message": "Sin cambios para " + r.Date + ": no hay nada que publicar."})
	case r.Committed:
		msg := "Publicado: " + r.Message
		if r.Pushed {
			msg += " (push hecho)"
		}
		_ = printer.Success(map[string]any{"message": msg})
	}
}
