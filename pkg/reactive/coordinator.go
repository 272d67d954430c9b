// Package reactive owns the state cells of a rendered view tree and
// re-renders when they change.
package reactive

import (
	"io"
	"log/slog"
	"sync"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/interpreter"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

// RenderFunc produces a fresh tree. The coordinator passes itself so the
// render can link view state to its cells.
type RenderFunc func(store interpreter.StateStore) (runtime.Value, error)

// ChangeFunc receives the tree after each scheduled or explicit render.
// On error the tree is the previous one.
type ChangeFunc func(tree runtime.Value, err error)

type Option func(*Coordinator)

func WithExecutor(exec Executor) Option {
	return func(c *Coordinator) {
		if exec != nil {
			c.executor = exec
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Coordinator maps state cell ids to cells and coalesces writes into
// re-renders on its executor.
type Coordinator struct {
	render   RenderFunc
	executor Executor
	logger   *slog.Logger

	mu        sync.Mutex
	cells     map[string]*StateCell
	order     []string
	onChange  ChangeFunc
	tree      runtime.Value
	pending   bool
	rendering bool
	rerun     bool
	renders   int
}

var _ interpreter.StateStore = (*Coordinator)(nil)

func NewCoordinator(render RenderFunc, opts ...Option) *Coordinator {
	c := &Coordinator{
		render:   render,
		executor: ImmediateExecutor{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		cells:    make(map[string]*StateCell),
		tree:     runtime.Void,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterStateCell returns the cell for id, creating it with initial.
// Registering an existing id keeps its current value.
func (c *Coordinator) RegisterStateCell(id string, initial runtime.Value) *StateCell {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cell, ok := c.cells[id]; ok {
		return cell
	}
	if initial == nil {
		initial = runtime.Void
	}
	cell := &StateCell{ID: id, coord: c, value: initial}
	c.cells[id] = cell
	c.order = append(c.order, id)
	return cell
}

// Cell looks up a registered cell.
func (c *Coordinator) Cell(id string) (*StateCell, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cell, ok := c.cells[id]
	return cell, ok
}

// CellIDs lists registered cells in registration order.
func (c *Coordinator) CellIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.order...)
}

func (c *Coordinator) SetOnChange(fn ChangeFunc) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Coordinator) ClearOnChange() {
	c.SetOnChange(nil)
}

// Tree returns the last successfully rendered tree (void before the first).
func (c *Coordinator) Tree() runtime.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree
}

// Renders counts completed render passes, failed ones included.
func (c *Coordinator) Renders() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renders
}

// Load implements interpreter.StateStore.
func (c *Coordinator) Load(id string, initial runtime.Value) runtime.Value {
	return c.RegisterStateCell(id, initial).Read()
}

// Store implements interpreter.StateStore.
func (c *Coordinator) Store(id string, value runtime.Value) {
	c.RegisterStateCell(id, value).Write(value)
}

// Render re-evaluates synchronously and replaces the tree wholesale. A
// failed render keeps the previous tree.
func (c *Coordinator) Render() (runtime.Value, error) {
	c.mu.Lock()
	c.rendering = true
	c.mu.Unlock()

	tree, err := c.render(c)

	c.mu.Lock()
	c.rendering = false
	c.renders++
	if err == nil {
		c.tree = tree
	}
	current := c.tree
	callback := c.onChange
	rerun := c.rerun
	c.rerun = false
	c.mu.Unlock()

	if err != nil {
		c.logger.Debug("render failed", "error", err)
	} else {
		c.logger.Debug("rendered", "cells", len(c.CellIDs()))
	}
	if callback != nil {
		callback(current, err)
	}
	if rerun {
		c.schedule()
	}
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// invalidate schedules one render for any number of writes that land
// before it runs. Writes made while rendering defer the schedule until
// the pass ends.
func (c *Coordinator) invalidate() {
	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return
	}
	if c.rendering {
		c.rerun = true
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.schedule()
}

func (c *Coordinator) schedule() {
	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return
	}
	c.pending = true
	c.mu.Unlock()
	c.logger.Debug("render scheduled")
	c.executor.Schedule(c.flush)
}

func (c *Coordinator) flush() {
	c.mu.Lock()
	c.pending = false
	c.mu.Unlock()
	_, _ = c.Render()
}

// StateCell is one persistent value slot.
type StateCell struct {
	ID string

	coord *Coordinator
	value runtime.Value
}

func (s *StateCell) Read() runtime.Value {
	s.coord.mu.Lock()
	defer s.coord.mu.Unlock()
	return s.value
}

// Write stores value and schedules a re-render. The new tree is not
// available until the executor runs it.
func (s *StateCell) Write(value runtime.Value) {
	if value == nil {
		value = runtime.Void
	}
	s.coord.mu.Lock()
	s.value = value
	s.coord.mu.Unlock()
	s.coord.invalidate()
}
