// Command trace replays a cached conformance fixture and logs a
// human-readable summary of its outcome, for debugging a rejected
// transition without re-deriving the fixture by hand.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vibeswap/ckb-core/internal/fixturestore"
)

var v = viper.New()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "trace [scenario-id]",
		Short: "Replay and summarize a cached conformance fixture",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrace,
	}
	root.Flags().String("db", "fixtures.db", "bbolt fixture store to read from")
	_ = v.BindPFlag("db", root.Flags().Lookup("db"))
	v.SetEnvPrefix("VIBESWAP_CKB_CORE")
	v.AutomaticEnv()
	return root
}

func runTrace(_ *cobra.Command, args []string) error {
	scenarioID := args[0]
	store, err := fixturestore.Open(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open fixturestore: %w", err)
	}
	defer store.Close()

	res, err := Trace(store, scenarioID)
	if err != nil {
		return err
	}

	attrs := []any{
		"scenario", res.ScenarioID,
		"accepted", res.Accepted,
		"input_len", res.InputLen,
		"output_len", res.OutputLen,
		"digest", res.DigestHex,
	}
	if res.HasDifficulty {
		attrs = append(attrs, "difficulty", res.Difficulty)
	}
	slog.Info("fixture trace", attrs...)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
