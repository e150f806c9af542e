package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/JonMunkholm/tsimport/internal/config"
	"github.com/JonMunkholm/tsimport/internal/settings"
	"github.com/spf13/cobra"
)

func newSettingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "settings [key=value ...]",
		Short: "Show or update the default parameters",
		Long: `Without arguments, print the stored default parameters. With key=value
assignments, apply them, validate the result and save it.

Keys: ` + strings.Join(settings.Keys, ", ") + `

Example: tsimport settings dt=0.25 cut_off=30`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettings(cmd.Context(), a.cfg, args, cmd.OutOrStdout())
		},
	}
}

// runSettings prints the stored default parameters, or applies key=value
// assignments, validates the result and saves it.
func runSettings(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	p, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load default parameters: %w", err)
	}

	if len(args) > 0 {
		if err := applyAssignments(&p, args); err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return err
		}
		if err := store.Save(ctx, p); err != nil {
			return fmt.Errorf("save default parameters: %w", err)
		}
	}

	printParameters(out, p)
	return nil
}

func applyAssignments(p *settings.Parameters, args []string) error {
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("settings: %q is not a key=value pair", arg)
		}
		key = strings.TrimSpace(key)
		if !slices.Contains(settings.Keys, key) {
			return fmt.Errorf("settings: unknown key %q (known: %s)", key, strings.Join(settings.Keys, ", "))
		}
		if err := p.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

func printParameters(out io.Writer, p settings.Parameters) {
	m := p.ToMap()
	for _, key := range settings.Keys {
		v, ok := m[key]
		if !ok {
			v = "-"
		}
		fmt.Fprintf(out, "%-10s %s\n", key, v)
	}
}
