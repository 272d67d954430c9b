// Package driver loads configuration and syntax-tree programs and runs
// them against the hostkit catalog.
package driver

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/hostkit"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/interpreter"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/parser"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/reactive"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/syntax"
)

// LoadModule reads a YAML syntax tree and lowers it.
func LoadModule(path string, cfg *Config, logger *slog.Logger) (*ast.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("driver: read %s: %w", path, err)
	}
	root, err := syntax.ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("driver: %s: %w", path, err)
	}
	opts := []parser.Option{parser.WithLogger(orDiscard(logger))}
	if cfg != nil && len(cfg.Aliases) > 0 {
		opts = append(opts, parser.WithKindAliases(cfg.Aliases))
	}
	mod, err := parser.LowerModule(root, opts...)
	if err != nil {
		return nil, fmt.Errorf("driver: lower %s: %w", path, err)
	}
	return mod, nil
}

// Session evaluates one module and keeps its entry view rendered.
type Session struct {
	Interp *interpreter.Interpreter
	Coord  *reactive.Coordinator

	entry  string
	logger *slog.Logger
	exec   reactive.Executor
	close  func()
}

// NewSession evaluates mod with the hostkit catalog and prepares a
// coordinator for cfg.Entry using cfg.Scheduler.
func NewSession(mod *ast.Module, cfg *Config, logger *slog.Logger) (*Session, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger = orDiscard(logger)
	interp := interpreter.New(
		interpreter.WithRegistry(hostkit.NewRegistry()),
		interpreter.WithLogger(logger),
	)
	if _, err := interp.EvaluateModule(mod); err != nil {
		return nil, fmt.Errorf("driver: evaluate: %w", err)
	}
	exec, closeExec := newExecutor(cfg.Scheduler, logger)
	s := &Session{
		Interp: interp,
		entry:  cfg.Entry,
		logger: logger,
		exec:   exec,
		close:  closeExec,
	}
	s.Coord = reactive.NewCoordinator(func(store interpreter.StateStore) (runtime.Value, error) {
		return interp.RenderView(s.entry, store)
	}, reactive.WithExecutor(exec), reactive.WithLogger(logger))
	return s, nil
}

func newExecutor(name string, logger *slog.Logger) (reactive.Executor, func()) {
	switch name {
	case SchedulerManual:
		return reactive.NewManualExecutor(), func() {}
	case SchedulerSerial:
		exec := reactive.NewSerialExecutor(logger)
		return exec, exec.Close
	default:
		return reactive.ImmediateExecutor{}, func() {}
	}
}

// Render re-renders the entry view and returns its host nodes.
func (s *Session) Render() ([]*hostkit.Node, error) {
	tree, err := s.Coord.Render()
	if err != nil {
		return nil, fmt.Errorf("driver: render %s: %w", s.entry, err)
	}
	return hostkit.Nodes(tree)
}

// Nodes returns the host nodes of the last successful render.
func (s *Session) Nodes() ([]*hostkit.Node, error) {
	return hostkit.Nodes(s.Coord.Tree())
}

// Fire runs an action on node. Any resulting re-render is scheduled on
// the session's executor.
func (s *Session) Fire(node *hostkit.Node, action string, args ...runtime.Value) error {
	s.logger.Debug("fire action", "kind", node.Kind, "action", action)
	return hostkit.Fire(s.Interp, node, action, args...)
}

// Flush runs re-renders queued on a manual or serial scheduler.
func (s *Session) Flush() {
	switch exec := s.exec.(type) {
	case *reactive.ManualExecutor:
		exec.Flush()
	case *reactive.SerialExecutor:
		exec.Flush()
	}
}

// Close stops any executor goroutine.
func (s *Session) Close() {
	if s.close != nil {
		s.close()
		s.close = nil
	}
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}
