package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/tsimport/internal/config"
	"github.com/JonMunkholm/tsimport/internal/importer"
	"github.com/JonMunkholm/tsimport/internal/table"
	"github.com/JonMunkholm/tsimport/internal/tabular"
	"github.com/spf13/cobra"
)

type importFlags struct {
	sep         string
	noHeader    bool
	interpolate bool
	na          string
	head        int
}

func (f importFlags) options() importer.ImportOptions {
	opts := importer.DefaultOptions()
	if f.sep != "" {
		opts.Separator = importer.ExplicitSeparator(f.sep)
	}
	opts.HeaderPresent = !f.noHeader
	opts.MissingValueToken = f.na
	opts.InterpolateMissing = f.interpolate
	return opts
}

func newImportCmd(a *app) *cobra.Command {
	var f importFlags

	cmd := &cobra.Command{
		Use:   "import [flags] FILE",
		Short: "Load a file and print a summary",
		Long: `Load one file with the same options as the import form and print its
columns, row count, missing value count and the first rows.

Example: tsimport import readings.dat --sep "|" --na NIL --interpolate`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), a.cfg, args[0], f, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&f.sep, "sep", "", "Column separator; empty infers it from the file extension")
	cmd.Flags().BoolVar(&f.noHeader, "no-header", false, "Treat the first row as data")
	cmd.Flags().BoolVar(&f.interpolate, "interpolate", false, "Linearly interpolate missing values")
	cmd.Flags().StringVar(&f.na, "na", "", "Extra token recognized as a missing value")
	cmd.Flags().IntVar(&f.head, "head", 5, "Number of rows to preview")

	return cmd
}

func runImport(ctx context.Context, cfg *config.Config, path string, f importFlags, out io.Writer) error {
	resolver := importer.NewResolver(tabular.NewLoader(cfg.Import.MaxFileSize), nil)
	res := resolver.Import(ctx, path, f.options())
	if !res.OK() {
		msg := importer.MapError(res.Err)
		return fmt.Errorf("%s (%s): %w", msg.Message, msg.Code, res.Err)
	}

	printSummary(out, res, f.head)
	return nil
}

func printSummary(out io.Writer, res importer.LoadResult, head int) {
	t := res.Table
	fmt.Fprintf(out, "table:   %s\n", t.Name)
	fmt.Fprintf(out, "columns: %s\n", strings.Join(t.Headers(), ", "))
	fmt.Fprintf(out, "rows:    %d\n", t.Rows())
	fmt.Fprintf(out, "missing: %d\n", t.CountMissing())
	if res.Notice != "" {
		fmt.Fprintln(out, res.Notice)
	}
	if head <= 0 {
		return
	}

	fmt.Fprintln(out)
	writePreview(out, t, min(head, t.Rows()))
}

func writePreview(out io.Writer, t *table.Table, n int) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Headers(), "\t"))
	for i := 0; i < n; i++ {
		cells := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			cells[j] = strconv.FormatFloat(c.Values[i], 'g', -1, 64)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}
