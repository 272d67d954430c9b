package parser

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/ast"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/syntax"
)

// Option configures lowering and ModuleParser.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	aliases map[string]string
}

// WithLogger routes lowering diagnostics (unknown node kinds) to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithKindAliases renames grammar node kinds before lowering, for grammars
// whose kind names differ from the ones this package matches.
func WithKindAliases(aliases map[string]string) Option {
	return func(o *options) { o.aliases = aliases }
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ModuleParser wraps a tree-sitter parser for a host-supplied grammar.
type ModuleParser struct {
	parser *sitter.Parser
	opts   options
}

// NewModuleParser constructs a parser with lang loaded.
func NewModuleParser(lang *sitter.Language, opts ...Option) (*ModuleParser, error) {
	if lang == nil {
		return nil, fmt.Errorf("parser: language not available")
	}
	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, fmt.Errorf("parser: %w", err)
	}
	return &ModuleParser{parser: p, opts: buildOptions(opts)}, nil
}

// Close releases parser resources.
func (p *ModuleParser) Close() {
	if p == nil || p.parser == nil {
		return
	}
	p.parser.Close()
}

// ParseSyntax parses source into a concrete syntax tree.
func (p *ModuleParser) ParseSyntax(source []byte) (*syntax.Node, error) {
	if p == nil || p.parser == nil {
		return nil, fmt.Errorf("parser: nil parser")
	}
	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parser: parse produced no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parser: unexpected root node")
	}
	if root.HasError() {
		p.opts.logger.Warn("syntax errors present; affected nodes will not evaluate")
	}
	return syntax.FromTreeSitter(root, source, syntax.ConvertOptions{Aliases: p.opts.aliases}), nil
}

// ParseModule parses source and lowers it into the IR.
func (p *ModuleParser) ParseModule(source []byte) (*ast.Module, error) {
	root, err := p.ParseSyntax(source)
	if err != nil {
		return nil, err
	}
	o := p.opts
	o.aliases = nil
	return lowerWith(root, o)
}

// LowerModule converts a concrete syntax tree into the IR. It only fails
// on a nil root: anything unrecognised becomes an Unknown or
// UnhandledStatement node.
func LowerModule(root *syntax.Node, opts ...Option) (*ast.Module, error) {
	return lowerWith(root, buildOptions(opts))
}

var errNilRoot = errors.New("parser: nil syntax tree")

func lowerWith(root *syntax.Node, o options) (*ast.Module, error) {
	if root == nil {
		return nil, errNilRoot
	}
	if len(o.aliases) > 0 {
		applyAliases(root, o.aliases)
	}
	l := &lowerer{logger: o.logger}
	var body []ast.Statement
	if root.Kind == "source_file" {
		body = l.lowerStatements(root.Named())
	} else {
		body = l.lowerStatements([]*syntax.Node{root})
	}
	module := ast.NewModule(body)
	ast.SetSpan(module, spanFromNode(root))
	return module, nil
}

func applyAliases(root *syntax.Node, aliases map[string]string) {
	root.Walk(func(n *syntax.Node) bool {
		if alias, ok := aliases[n.Kind]; ok {
			n.Kind = alias
		}
		return true
	})
}

// lowerer carries diagnostics state through one lowering pass.
type lowerer struct {
	logger *slog.Logger
}

func (l *lowerer) unknown(node *syntax.Node) *ast.Unknown {
	l.logger.Debug("lowering fallback", "kind", node.Kind, "line", node.Start.Row+1, "column", node.Start.Column+1)
	u := ast.NewUnknown(node.Kind, node.Content())
	ast.SetSpan(u, spanFromNode(node))
	return u
}

func (l *lowerer) unhandled(node *syntax.Node) *ast.UnhandledStatement {
	l.logger.Debug("lowering fallback", "kind", node.Kind, "line", node.Start.Row+1, "column", node.Start.Column+1)
	u := ast.NewUnhandledStatement(node.Kind, node.Content())
	ast.SetSpan(u, spanFromNode(node))
	return u
}
