package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/glyphite/subencode/internal/cli"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	rootCmd := &cobra.Command{
		Use:   "subencode",
		Short: "Sub-encode data for exploits with restrictive bad bytes",
		Long: `Subencode turns 32-bit words into lists of subtraction operands whose
bytes all come from an allowed byte set.

Subtracting a chunk's operands in order from a known register value
reconstructs the original word, so a payload can be rebuilt in memory on
targets that filter input bytes (alphanumeric-only filters and similar).

Features:
- Minimal operand counts via a consistent per-chunk division search
- Carry borrowing between byte positions
- Allow-list, deny-list, or named byte-set profiles
- Independent chunk encoding, optionally in parallel`,
		Version: fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				level.Set(slog.LevelDebug)
			}
		},
	}

	rootCmd.AddCommand(
		cli.NewEncodeCommand(),
		cli.NewDecodeCommand(),
		cli.NewSetsCommand(),
	)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}
