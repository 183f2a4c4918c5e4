// Command streamwatch watches a roster of Twitch channels and fans out
// notifications when one goes live, goes offline or changes title or
// category.
//
// Usage:
//
//	streamwatch --config config.yml          (same as serve)
//	streamwatch serve --config config.yml
//	streamwatch tick --config config.yml
//	streamwatch validate-tokens --config config.yml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"streamwatch/internal/di"
	"streamwatch/internal/structures"
	"syscall"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	if err := newRootCmd(serveApp).Execute(); err != nil {
		os.Exit(1)
	}
}

func serveApp(flags *structures.CliFlags) error {
	_, err := di.InitApp(flags)
	return err
}

// newRootCmd builds the command tree. Running the root without a
// subcommand serves.
func newRootCmd(serve func(*structures.CliFlags) error) *cobra.Command {
	flags := &structures.CliFlags{}
	root := &cobra.Command{
		Use:          "streamwatch",
		Short:        "Stream state reconciliation and notification engine",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yml", "Path to the config file")
	root.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "Mirror logs to stdout")

	sc := serveCmd(flags, serve)
	root.RunE = sc.RunE
	root.AddCommand(sc)
	root.AddCommand(tickCmd(flags))
	root.AddCommand(validateTokensCmd(flags))
	return root
}

func serveCmd(flags *structures.CliFlags, serve func(*structures.CliFlags) error) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler and the HTTP API until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(flags)
		},
	}
}

func tickCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tick",
		Short: "Run one reconciliation pass and print its report",
		RunE: func(cmd *cobra.Command, args []string) error {
			command, err := di.InitCommand(flags)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := command.Tick(ctx)
			if printErr := printJSON(cmd, report); printErr != nil {
				return printErr
			}
			return err
		},
	}
}

func validateTokensCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-tokens",
		Short: "Prune push tokens the messaging service no longer accepts",
		RunE: func(cmd *cobra.Command, args []string) error {
			command, err := di.InitCommand(flags)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := command.ValidateTokens(ctx)
			if printErr := printJSON(cmd, report); printErr != nil {
				return printErr
			}
			return err
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
