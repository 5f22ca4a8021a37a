package cli

import (
	"github.com/spf13/cobra"

	"github.com/nconklindev/tickdiff/internal/config"
	"github.com/nconklindev/tickdiff/internal/ui"
)

func newPipelineCmd(a *app) *cobra.Command {
	var unattended bool

	cmd := &cobra.Command{
		Use:   "pipeline [stride]",
		Short: "Extract both configured sources, then reconcile them",
		Long: `Pipeline runs extract for the rest source, then for the psql source, and
reconciles the two normalized outputs.

If either extraction is stopped at a checkpoint the reconciliation is skipped,
since a partial file cannot line up with its counterpart.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stride, err := a.stride(args, unattended)
			if err != nil {
				return err
			}

			var outputs []string
			for _, name := range []string{config.SourceRest, config.SourcePSQL} {
				src, err := a.cfg.Source(name)
				if err != nil {
					return err
				}
				result, err := a.extract(src, stride)
				if err != nil {
					return err
				}
				printResult(cmd.OutOrStdout(), ui.RenderExtraction(result))
				if result.Halted {
					a.log.Warn().Str("source", name).Msg("extraction halted, skipping reconciliation")
					return nil
				}
				outputs = append(outputs, src.Output)
			}

			return a.reconcile(cmd.OutOrStdout(), outputs[0], outputs[1])
		},
	}

	cmd.Flags().BoolVar(&unattended, "unattended", false, "never stop at checkpoints")

	return cmd
}
