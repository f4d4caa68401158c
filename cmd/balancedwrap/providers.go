package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/termfx/balancedwrap/providers"
	"github.com/termfx/balancedwrap/providers/catalog"
	"github.com/termfx/balancedwrap/providers/python"
)

// builtinProviders lists the languages compiled into the binary.
var builtinProviders = []providers.Factory{
	func() providers.Provider { return python.New() },
}

// newRegistry registers all built-in language providers.
func newRegistry() *providers.Registry {
	registry := providers.NewRegistry()
	for _, factory := range builtinProviders {
		registry.Register(factory)
	}
	return registry
}

func newLanguagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the supported languages and their file extensions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, lang := range a.registry.Languages() {
				info, _ := catalog.Lookup(lang)
				fmt.Fprintf(a.stdout, "%-10s %s\n", lang, strings.Join(info.Extensions, " "))
			}
		},
	}
}
