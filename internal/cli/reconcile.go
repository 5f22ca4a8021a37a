package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nconklindev/tickdiff/internal/reconciler"
	"github.com/nconklindev/tickdiff/internal/ui"
)

func newReconcileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Diff paired columns of two normalized files",
		Long: `Reconcile compares the configured column pairs of two normalized files.
Price columns are compared numerically within the tolerance; the others are
compared as exact strings. Each pair writes one report file listing the
mismatching lines.

A pair that cannot be compared is reported and skipped; the command then
exits non-zero after the remaining pairs have run.`,
		Example: `  tickdiff reconcile
  tickdiff reconcile --left raw/cols.csv --right raw/cols2.csv --out-dir reports
  tickdiff reconcile --tolerance 0.001 --xlsx reports/diff.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.reconcile(cmd.OutOrStdout(), a.cfg.Reconcile.Left, a.cfg.Reconcile.Right)
		},
	}

	flags := cmd.Flags()
	flags.String("left", "", "left normalized file (REST export)")
	flags.String("right", "", "right normalized file (database export)")
	flags.String("out-dir", "", "directory for the report files")
	flags.String("tolerance", "", "maximum absolute price difference treated as equal")
	flags.String("xlsx", "", "also write every report into this workbook")

	bindFlag(a.v, "reconcile.left", flags, "left")
	bindFlag(a.v, "reconcile.right", flags, "right")
	bindFlag(a.v, "reconcile.output_dir", flags, "out-dir")
	bindFlag(a.v, "tolerance", flags, "tolerance")
	bindFlag(a.v, "reconcile.workbook", flags, "xlsx")

	return cmd
}

func (a *app) reconcile(w io.Writer, left, right string) error {
	tol, err := a.cfg.ToleranceValue()
	if err != nil {
		return err
	}

	r := reconciler.New(reconciler.Options{
		OutputDir: a.cfg.Reconcile.OutputDir,
		Tolerance: &tol,
		Pairs:     a.cfg.Reconcile.Pairs,
		Logger:    &a.log,
	})

	result, runErr := r.Run(left, right)
	if result == nil {
		return runErr
	}

	if path := a.cfg.Reconcile.Workbook; path != "" {
		if err := reconciler.ExportWorkbook(result, path); err != nil {
			return fmt.Errorf("export workbook: %w", err)
		}
		a.log.Info().Str("file", path).Msg("workbook written")
	}

	printResult(w, ui.RenderReconcile(result))
	return runErr
}
