package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/driver"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/hostkit"
	"github.com/lkzhao/EvalSwiftUI-sub000/pkg/runtime"
)

func newInspectCmd(opts *globalOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "inspect <fixture.yaml>",
		Short: "Evaluate a fixture and list its module-level bindings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg, cmd.ErrOrStderr())
			mod, err := driver.LoadModule(args[0], cfg, logger)
			if err != nil {
				return err
			}
			session, err := driver.NewSession(mod, cfg, logger)
			if err != nil {
				return err
			}
			defer session.Close()

			scope := session.Interp.ModuleScope()
			bindings := scope.Snapshot()
			out := cmd.OutOrStdout()
			for _, name := range scope.Keys() {
				val := bindings[name]
				if !all && !userDefined(val) {
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", name, describeBinding(val))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include built-in types and functions")
	return cmd
}

// userDefined reports whether val came from the program rather than the
// interpreter's built-ins.
func userDefined(val runtime.Value) bool {
	switch v := val.(type) {
	case *runtime.TypeValue:
		return v.Definition != nil
	case runtime.NativeFunctionValue:
		return false
	default:
		return true
	}
}

func describeBinding(val runtime.Value) string {
	if t, ok := val.(*runtime.TypeValue); ok && t.Definition != nil {
		return fmt.Sprintf("%s %s", t.Definition.Kind, t.Name)
	}
	return val.Kind().String()
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the views and modifiers the reference host registers",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := hostkit.NewRegistry()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "views: %s\n", strings.Join(reg.ValueNames(), ", "))
			fmt.Fprintf(out, "modifiers: %s\n", strings.Join(reg.MethodNames(), ", "))
			return nil
		},
	}
}
