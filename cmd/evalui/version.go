package main

import (
	"encoding/json"
	"fmt"
	goruntime "runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
}

func newVersionCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show evalui build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := versionPayload{Tool: "evalui", Version: cliToolVersion, GoVersion: goruntime.Version()}
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			case "pretty", "":
				fmt.Fprintf(out, "%s %s (%s)\n", payload.Tool, color.New(color.FgYellow, color.Bold).Sprint(payload.Version), payload.GoVersion)
				return nil
			default:
				return fmt.Errorf("--format must be pretty or json (got %q)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}
