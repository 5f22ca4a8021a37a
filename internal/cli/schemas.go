package cli

import (
	"github.com/spf13/cobra"

	"github.com/nconklindev/tickdiff/internal/types"
	"github.com/nconklindev/tickdiff/internal/ui"
)

func newSchemasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List the registered source schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := a.registry.Names()
			schemas := make([]types.Schema, 0, len(names))
			for _, name := range names {
				sc, err := a.registry.Get(name)
				if err != nil {
					return err
				}
				schemas = append(schemas, sc)
			}
			printResult(cmd.OutOrStdout(), ui.RenderSchemas(schemas))
			return nil
		},
	}
}
