package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/driver"
)

func newDumpIRCmd(opts *globalOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump-ir <fixture.yaml>",
		Short: "Print the lowered program of a syntax-tree fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			mod, err := driver.LoadModule(args[0], cfg, newLogger(cfg, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(mod, "", "  ")
			if err != nil {
				return fmt.Errorf("encode ir: %w", err)
			}
			switch strings.ToLower(format) {
			case "json":
				data = append(data, '\n')
			case "yaml":
				var generic any
				if err := json.Unmarshal(data, &generic); err != nil {
					return fmt.Errorf("encode ir: %w", err)
				}
				if data, err = yaml.Marshal(generic); err != nil {
					return fmt.Errorf("encode ir: %w", err)
				}
			default:
				return fmt.Errorf("--format must be json or yaml (got %q)", format)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format (json|yaml)")
	return cmd
}
