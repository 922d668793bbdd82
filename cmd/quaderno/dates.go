// Package main provides the entry point for the quaderno CLI.
package main

import (
	"github.com/emarron/quaderno/internal/archive"
	"github.com/emarron/quaderno/internal/config"
	"github.com/emarron/quaderno/internal/dateutil"
)

// resolveDateArg validates an explicit date argument, or derives the
// default one (the day after the latest archive entry) when empty.
func resolveDateArg(cfg *config.Config, date string) (string, error) {
	if date != "" {
		if _, err := dateutil.Parse(date); err != nil {
			return "", err
		}
		return date, nil
	}

	store, err := archive.Load(cfg.ArchivePath())
	if err != nil {
		return "", err
	}
	return store.NextDate()
}
