package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nconklindev/tickdiff/internal/config"
	"github.com/nconklindev/tickdiff/internal/extractor"
	"github.com/nconklindev/tickdiff/internal/types"
	"github.com/nconklindev/tickdiff/internal/ui"
)

type extractFlags struct {
	source     string
	input      string
	output     string
	schema     string
	unattended bool
}

func newExtractCmd(a *app) *cobra.Command {
	var f extractFlags

	cmd := &cobra.Command{
		Use:   "extract [stride]",
		Short: "Rewrite one raw export as fixed-width columns",
		Long: `Extract reads a raw export line by line, drops the fixed record prefix and
writes the remaining fields left-justified to their column widths.

After every [stride] lines written (default 100) it asks whether to continue.
A stride of 0 or less, or --unattended, processes the whole file.`,
		Example: `  tickdiff extract
  tickdiff extract 500 --source psql
  tickdiff extract 0 --input raw/data.csv --output raw/cols.csv --schema trth-rest`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stride, err := a.stride(args, f.unattended)
			if err != nil {
				return err
			}

			src, err := a.cfg.Source(f.source)
			if err != nil {
				return err
			}
			if f.input != "" {
				src.Input = f.input
			}
			if f.output != "" {
				src.Output = f.output
			}
			if f.schema != "" {
				src.Schema = f.schema
			}

			result, err := a.extract(src, stride)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), ui.RenderExtraction(result))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.source, "source", "s", config.SourceRest, "configured source to extract")
	flags.StringVarP(&f.input, "input", "i", "", "raw input file (overrides the source)")
	flags.StringVarP(&f.output, "output", "o", "", "normalized output file (overrides the source)")
	flags.StringVar(&f.schema, "schema", "", "schema name (overrides the source)")
	flags.BoolVar(&f.unattended, "unattended", false, "never stop at checkpoints")

	return cmd
}

// stride resolves the checkpoint stride: --unattended wins, then the
// positional argument, then the configured value.
func (a *app) stride(args []string, unattended bool) (int, error) {
	if unattended {
		return 0, nil
	}
	if len(args) == 0 {
		return a.cfg.Stride, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("stride %q is not an integer", args[0])
	}
	return n, nil
}

func (a *app) extract(src config.Source, stride int) (*types.ExtractionResult, error) {
	sc, err := a.registry.Get(src.Schema)
	if err != nil {
		return nil, err
	}

	return extractor.Extract(extractor.Options{
		InputFile:   src.Input,
		OutputFile:  src.Output,
		Schema:      sc,
		Stride:      stride,
		Confirm:     a.confirmer(src.Output, stride),
		WriteHeader: a.cfg.Header,
		Logger:      &a.log,
	})
}

// confirmerCache keeps a single line confirmer per command run so that
// answers buffered from stdin are not lost between extractions.
type confirmerCache struct {
	in   io.Reader
	out  io.Writer
	line *extractor.LineConfirmer
}

// confirmer picks how checkpoints are answered: the bubbletea prompt on a
// terminal, a plain line prompt otherwise.
func (a *app) confirmer(output string, stride int) extractor.Confirmer {
	if stride <= 0 {
		return extractor.Unattended
	}
	if f, ok := a.lines.in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return ui.NewPrompt(output, tea.WithInput(f), tea.WithOutput(a.lines.out))
	}
	if a.lines.line == nil {
		a.lines.line = extractor.NewLineConfirmer(a.lines.in, a.lines.out)
	}
	return a.lines.line
}
