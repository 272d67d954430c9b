package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	goruntime "runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/driver"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/hostkit"
)

type renderResult struct {
	path   string
	output []byte
	err    error
}

func newRenderCmd(opts *globalOptions) *cobra.Command {
	var taps []string
	var jobs int
	cmd := &cobra.Command{
		Use:   "render [fixture.yaml...]",
		Short: "Render the entry view of one or more syntax-tree fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			paths := args
			if len(paths) == 0 {
				if paths, err = cfg.FixturePaths(); err != nil {
					return err
				}
			}
			if len(paths) == 0 {
				return fmt.Errorf("no fixtures given and none configured")
			}
			logger := newLogger(cfg, cmd.ErrOrStderr())
			results, err := renderAll(cmd.Context(), paths, cfg, taps, jobs, logger)
			if err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, results)
		},
	}
	cmd.Flags().StringArrayVar(&taps, "tap", nil, "tap the Button with this title before printing (repeatable)")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "maximum fixtures rendered in parallel (0 = GOMAXPROCS)")
	return cmd
}

// renderAll renders every fixture in its own session. Per-fixture failures
// are recorded in the results rather than cancelling the others.
func renderAll(ctx context.Context, paths []string, cfg *driver.Config, taps []string, jobs int, logger *slog.Logger) ([]renderResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs <= 0 {
		jobs = goruntime.GOMAXPROCS(0)
	}
	results := make([]renderResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			out, err := renderFixture(path, cfg, taps, logger.With("fixture", path))
			results[i] = renderResult{path: path, output: out, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func renderFixture(path string, cfg *driver.Config, taps []string, logger *slog.Logger) ([]byte, error) {
	mod, err := driver.LoadModule(path, cfg, logger)
	if err != nil {
		return nil, err
	}
	session, err := driver.NewSession(mod, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer session.Close()
	nodes, err := session.Render()
	if err != nil {
		return nil, err
	}
	for _, title := range taps {
		button := hostkit.Find(nodes, func(n *hostkit.Node) bool {
			return n.Kind == "Button" && n.Props["title"] == title
		})
		if button == nil {
			return nil, fmt.Errorf("no Button titled %q", title)
		}
		if err := session.Fire(button, hostkit.ActionTap); err != nil {
			return nil, err
		}
		session.Flush()
		if nodes, err = session.Nodes(); err != nil {
			return nil, err
		}
	}
	return formatNodes(cfg.Output, nodes)
}

func formatNodes(format string, nodes []*hostkit.Node) ([]byte, error) {
	switch format {
	case driver.OutputYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(nodes); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case driver.OutputMsgpack:
		return hostkit.Encode(nodes)
	default:
		return []byte(hostkit.Outline(nodes)), nil
	}
}

func writeResults(stdout, stderr io.Writer, cfg *driver.Config, results []renderResult) error {
	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
			errorColor.Fprintf(stderr, "%s: ", res.path)
			fmt.Fprintln(stderr, res.err)
			continue
		}
		if len(results) > 1 && cfg.Output != driver.OutputMsgpack {
			okColor.Fprintf(stdout, "== %s\n", res.path)
		}
		if _, err := stdout.Write(res.output); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d fixtures failed", failed, len(results))
	}
	return nil
}
