// Command conformance-cli runs a single validator against JSON-encoded
// cell bytes supplied on stdin, for use by other-language conformance
// suites that need to diff their own implementation against this one
// (spec §5's determinism requirement: every implementation must agree
// byte-for-byte). Flag/config binding uses cobra+viper rather than the
// teacher's own bare-flag cmd/ tools, since this tool grows enough
// surface (config file, env-prefixed overrides, validator selection) to
// justify it — see SPEC_FULL.md §A.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	v       = viper.New()
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "conformance-cli",
		Short: "Validate a single cell transition against the vibeswap-ckb-core validators",
		RunE:  runValidate,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: none)")
	root.PersistentFlags().String("kind", "", "validator kind: auction|pool|commit|compliance|config|oracle|lpposition")
	root.PersistentFlags().Uint64("current-block", 0, "current block height")
	_ = v.BindPFlag("kind", root.PersistentFlags().Lookup("kind"))
	_ = v.BindPFlag("current_block", root.PersistentFlags().Lookup("current-block"))
	v.SetEnvPrefix("VIBESWAP_CKB_CORE")
	v.AutomaticEnv()

	cobra.OnInitialize(func() {
		if cfgFile != "" {
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				slog.Warn("config file not loaded", "path", cfgFile, "error", err)
			}
		}
	})
	return root
}

func runValidate(cmd *cobra.Command, _ []string) error {
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("decode request json: %w", err)
	}
	if req.Kind == "" {
		req.Kind = v.GetString("kind")
	}
	if req.CurrentBlock == 0 {
		req.CurrentBlock = v.GetUint64("current_block")
	}

	resp := Run(req)
	enc := json.NewEncoder(cmd.OutOrStdout())
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encode response json: %w", err)
	}
	if !resp.Ok {
		slog.Info("validation rejected", "kind", req.Kind, "code", resp.Code, "msg", resp.Err)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
