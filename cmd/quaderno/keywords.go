// Package main provides the entry point for the quaderno CLI.
package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emarron/quaderno/internal/config"
	"github.com/emarron/quaderno/internal/keywords"
	"github.com/emarron/quaderno/internal/llm"
	"github.com/emarron/quaderno/internal/output"
	"github.com/emarron/quaderno/internal/staging"
	"github.com/emarron/quaderno/internal/textfile"
)

// newKeywordsCmd creates the keywords command.
func newKeywordsCmd() *cobra.Command {
	var (
		show  bool
		model string
		yes   bool
	)
	cmd := &cobra.Command{
		Use:   "keywords [fecha]",
		Short: "Propone palabras clave para una entrada con un LLM",
		Long: `Genera una propuesta de palabras clave ponderadas (peso 1..3) a
partir del texto de una fecha y la deja pendiente de revisión. La
propuesta no toca el archivo: 'quaderno publish' la fusiona al
publicar, y puedes editarla a mano antes.

Ejemplos:
  quaderno keywords                  # genera para el siguiente día
  quaderno keywords 2026-01-06       # genera para una fecha concreta
  quaderno keywords --show           # muestra la propuesta pendiente
  quaderno keywords --model haiku    # usa otro modelo`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := ""
			if len(args) == 1 {
				date = args[0]
			}
			if show {
				return runKeywordsShow(cmd)
			}
			return runKeywords(cmd, date, model, yes)
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "Muestra la propuesta pendiente sin generar nada")
	cmd.Flags().StringVar(&model, "model", "", "Modelo LLM (por defecto, el de quaderno.yml)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "No pide confirmación al sobrescribir otra propuesta")
	return cmd
}

// runKeywords executes keyword generation for a date.
func runKeywords(cmd *cobra.Command, date, model string, yes bool) error {
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
		err = output.NewUserError("no pude leer " + path + ": " + err.Error())
		printer.Error(err)
		return err
	}
	if err := textfile.StrictValidate(src, date, filepath.Base(path)); err != nil {
		printer.Error(err)
		return err
	}

	// A pending proposal for another date is still unconsumed work;
	// overwriting it needs an explicit yes.
	pending, err := staging.Load(cfg.StagingPath())
	if err != nil {
		printer.Error(err)
		return err
	}
	if !pending.Empty() && pending.Date != date {
		confirm := output.NewTerminalConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
		if yes || printer.IsJSON() {
			confirm = output.NewStaticConfirmer(true)
		}
		ok, err := confirm(fmt.Sprintf("hay una propuesta pendiente para %s, ¿sobrescribirla con %s?", pending.Date, date), false)
		if err != nil {
			printer.Error(err)
			return err
		}
		if !ok {
			err := output.NewCancelledError("generación cancelada")
			printer.Error(err)
			return err
		}
	}

	if model == "" {
		model = cfg.Model
	}
	client, err := llm.New(model, "")
	if err != nil {
		printer.Error(err)
		return err
	}

	gen := &keywords.Generator{Client: client}
	kws, err := gen.Generate(cmd.Context(), src)
	if err != nil {
		printer.Error(err)
		return err
	}

	slot := &staging.Slot{Date: date, Keywords: kws}
	if err := staging.Write(cfg.StagingPath(), slot); err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(slot)
	}

	printer.Section("Palabras clave propuestas para " + date)
	printSlot(printer, slot)
	printer.Println()
	_ = printer.Success(map[string]any{
		"message": fmt.Sprintf("Guardadas en %s; revísalas y ejecuta 'quaderno publish --kw %s'.", cfg.Staging, date),
	})
	return nil
}

// runKeywordsShow displays the pending proposal.
func runKeywordsShow(cmd *cobra.Command) error {
	printer := newPrinter(cmd)

	cfg, err := config.Load("")
	if err != nil {
		printer.Error(err)
		return err
	}

	slot, err := staging.Load(cfg.StagingPath())
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(slot)
	}

	if slot.Empty() {
		return printer.Success(map[string]any{"message": "No hay palabras clave pendientes."})
	}
	printer.Section("Palabras clave pendientes para " + slot.Date)
	printSlot(printer, slot)
	return nil
}

// printSlot lists the slot's keywords grouped by weight.
func printSlot(printer *output.Printer, slot *staging.Slot) {
	for weight := 3; weight >= 1; weight-- {
		var words []string
		for _, kw := range slot.Keywords {
			if kw.Weight == weight {
				words = append(words, kw.Word)
			}
		}
		if len(words) > 0 {
			printer.KeyValue(fmt.Sprintf("peso %d", weight), strings.Join(words, ", "))
		}
	}
}
