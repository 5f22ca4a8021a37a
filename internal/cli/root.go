// Package cli wires the tickdiff commands: extract, reconcile, pipeline and
// schemas.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nconklindev/tickdiff/internal/config"
	"github.com/nconklindev/tickdiff/internal/logging"
	"github.com/nconklindev/tickdiff/internal/schema"
	"github.com/nconklindev/tickdiff/internal/ui"
)

// app is the state shared by every command once setup has run.
type app struct {
	v          *viper.Viper
	configFile string
	verbose    bool

	cfg      *config.Config
	log      zerolog.Logger
	registry *schema.Registry
	lines    confirmerCache
}

// NewRootCmd builds the command tree with its own viper instance.
func NewRootCmd(version string) *cobra.Command {
	a := &app{v: viper.New(), log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "tickdiff",
		Short: "Normalize tick-data exports and reconcile them column by column",
		Long: `tickdiff rewrites raw tick-data exports from two sources into aligned,
fixed-width columns and reports the rows where corresponding fields disagree.

Prices are compared numerically with a tolerance; identifiers and categorical
fields are compared exactly. Each column pair gets its own report file.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is ./tickdiff.yaml or $HOME/tickdiff.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	flags.String("schemas-file", "", "YAML file with additional source schemas")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error)")
	flags.String("log-format", "", "log format (auto, console, json)")
	flags.Bool("header", false, "extracted files start with the schema's column names")

	bindFlag(a.v, "schemas_file", flags, "schemas-file")
	bindFlag(a.v, "log.level", flags, "log-level")
	bindFlag(a.v, "log.format", flags, "log-format")
	bindFlag(a.v, "header", flags, "header")

	root.AddCommand(
		newExtractCmd(a),
		newReconcileCmd(a),
		newPipelineCmd(a),
		newSchemasCmd(a),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute(version string) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderError(err))
		cancel()
		os.Exit(1)
	}
}

// setup loads configuration, then builds the logger and the schema
// registry every command uses.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logCfg.Output = cfg.Log.Output
	a.log = logging.New(logCfg)

	if cfg.ConfigFile != "" {
		a.log.Debug().Str("file", cfg.ConfigFile).Msg("using config file")
	}

	a.registry = schema.NewRegistry()
	if cfg.SchemasFile != "" {
		if err := a.registry.LoadFile(cfg.SchemasFile); err != nil {
			return err
		}
		a.log.Debug().Str("file", cfg.SchemasFile).Strs("schemas", a.registry.Names()).Msg("loaded schemas")
	}

	a.lines.in = cmd.InOrStdin()
	a.lines.out = cmd.ErrOrStderr()
	return nil
}

func bindFlag(v *viper.Viper, key string, flags *pflag.FlagSet, name string) {
	if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(fmt.Sprintf("failed to bind %s flag: %v", name, err))
	}
}

func printResult(w io.Writer, s string) {
	fmt.Fprintln(w, s)
}
