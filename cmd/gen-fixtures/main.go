// Command gen-fixtures builds the literal conformance scenarios from
// spec §8 (E1, E2, ...) by driving the real validators end to end, then
// caches the resulting byte vectors in a bbolt-backed fixturestore so
// other-language conformance suites (and repeat local runs) can diff
// against a stable baseline instead of re-deriving it by hand.
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
		Use:   "gen-fixtures",
		Short: "Generate and cache conformance fixtures for vibeswap-ckb-core",
		RunE:  runGenerate,
	}
	root.Flags().String("out", "fixtures.db", "bbolt file to write generated vectors into")
	_ = v.BindPFlag("out", root.Flags().Lookup("out"))
	v.SetEnvPrefix("VIBESWAP_CKB_CORE")
	v.AutomaticEnv()
	return root
}

func runGenerate(*cobra.Command, []string) error {
	vectors, err := BuildAll()
	if err != nil {
		return fmt.Errorf("build fixtures: %w", err)
	}

	path := v.GetString("out")
	store, err := fixturestore.Open(path)
	if err != nil {
		return fmt.Errorf("open fixturestore: %w", err)
	}
	defer store.Close()

	for _, vec := range vectors {
		if err := store.Put(vec); err != nil {
			return fmt.Errorf("store %s: %w", vec.ScenarioID, err)
		}
		slog.Info("generated fixture", "scenario", vec.ScenarioID, "accepted", vec.Accepted)
	}
	slog.Info("gen-fixtures complete", "count", len(vectors), "path", path)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
