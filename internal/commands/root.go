// Package commands defines the settled CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/settled-dev/settled/internal/auditlog"
	"github.com/settled-dev/settled/internal/buildinfo"
	"github.com/settled-dev/settled/internal/config"
	"github.com/settled-dev/settled/internal/engine"
	"github.com/settled-dev/settled/internal/logger"
	"github.com/settled-dev/settled/internal/pipeline"
)

// NewRootCommand creates the root CLI command. The account report goes to
// the command's stdout; all diagnostics go to stderr.
func NewRootCommand() *cobra.Command {
	var (
		logLevel  string
		pretty    bool
		cfgPath   string
		workers   int
		buffer    int
		auditPath string
	)

	rootCmd := &cobra.Command{
		Use:     "settled <transactions.csv>",
		Short:   "Replay a transaction stream into final account balances",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		Args:    cobra.ExactArgs(1),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(logLevel, pretty)

			cfg := config.Default()
			if cfgPath != "" {
				loaded, err := config.Load(cfgPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("workers") {
				cfg.Pipeline.Workers = workers
			}
			if cmd.Flags().Changed("buffer") {
				cfg.Pipeline.Buffer = buffer
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening input: %w", err)
			}
			defer f.Close()

			opts := pipeline.Options{
				Policy: engine.Policy{
					DepositsOnly: cfg.Policy.Disputable == config.DisputableDeposits,
					StrictClient: cfg.Policy.StrictClient,
				},
				Buffer:  cfg.Pipeline.Buffer,
				Workers: cfg.Pipeline.Workers,
				Places:  cfg.Output.Places,
			}

			if auditPath != "" {
				audit, err := auditlog.Open(auditPath)
				if err != nil {
					return err
				}
				defer func() {
					if cerr := audit.Close(); cerr != nil {
						log.Error().Msgf("closing audit log: %v", cerr)
					}
				}()
				opts.Audit = audit
			}

			return pipeline.Run(f, cmd.OutOrStdout(), log, opts)
		},
	}

	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "diagnostic level: debug, info, warn, error")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "human-readable diagnostics")
	rootCmd.Flags().StringVar(&cfgPath, "config", "", "path to settled.yaml")
	rootCmd.Flags().IntVar(&workers, "workers", 1, "engine consumers, sharded by client id")
	rootCmd.Flags().IntVar(&buffer, "buffer", 100, "transport channel capacity")
	rootCmd.Flags().StringVar(&auditPath, "audit-log", "", "write rejected records to this CSV file")

	return rootCmd
}
