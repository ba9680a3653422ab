package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"intrinsic_valuation/pkg/core/config"
	"intrinsic_valuation/pkg/core/logging"
	"intrinsic_valuation/pkg/core/utils"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath string
	logLevel   string

	cfg config.Config
	log *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "calc-engine",
		Short:         "Intrinsic valuation engine: DCF, cost of capital and R&D capitalization",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			// CLI logs go to stderr in console format unless configured otherwise.
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
			}
			if cfg.Log.Format == "json" {
				cfg.Log.Format = "console"
			}
			log, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.log = log
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "path to the YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newValueCommand(opts),
		newWACCCommand(opts),
		newRDCommand(),
		newHistoryCommand(opts),
		newPresetsCommand(opts),
	)
	return cmd
}

// readInput reads a JSON or HJSON document from path ("-" is stdin) into v.
func readInput(cmd *cobra.Command, path string, v any) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if _, err := utils.SmartParse(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
