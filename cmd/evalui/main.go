package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/driver"
)

const cliToolVersion = "0.1.0-dev"

var (
	errorColor = color.New(color.FgRed, color.Bold)
	okColor    = color.New(color.FgGreen)
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	entry      string
	scheduler  string
	output     string
	logLevel   string
	color      string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		errorColor.Fprint(stderr, "error: ")
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "evalui",
		Short:         "Evaluate declarative UI programs from lowered syntax trees",
		Version:       cliToolVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.color {
			case "on":
				color.NoColor = false
			case "off":
				color.NoColor = true
			case "auto", "":
			default:
				return fmt.Errorf("--color must be auto, on, or off (got %q)", opts.color)
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to evalui.yml or evalui.toml (searched upward when empty)")
	flags.StringVar(&opts.entry, "entry", "", "view type to render")
	flags.StringVar(&opts.scheduler, "scheduler", "", "re-render scheduler (immediate|manual|serial)")
	flags.StringVar(&opts.output, "output", "", "output format (outline|yaml|msgpack)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	flags.StringVar(&opts.color, "color", "auto", "colorize diagnostics (auto|on|off)")

	root.AddCommand(newRenderCmd(opts))
	root.AddCommand(newDumpIRCmd(opts))
	root.AddCommand(newInspectCmd(opts))
	root.AddCommand(newCatalogCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig resolves the configuration file and applies flag overrides.
func (o *globalOptions) loadConfig() (*driver.Config, error) {
	path := o.configPath
	if path == "" {
		found, ok, err := driver.FindConfig(".")
		if err != nil {
			return nil, err
		}
		if ok {
			path = found
		}
	}
	cfg := driver.DefaultConfig()
	if path != "" {
		loaded, err := driver.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if o.entry != "" {
		cfg.Entry = o.entry
	}
	if o.scheduler != "" {
		cfg.Scheduler = o.scheduler
	}
	if o.output != "" {
		cfg.Output = o.output
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *driver.Config, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Level()}))
}
