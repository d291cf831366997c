package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/replicate/envspec/pkg/builder"
	"github.com/replicate/envspec/pkg/spec"
	"github.com/replicate/envspec/pkg/util/console"
)

func newBuildersCommand(registry *builder.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "builders",
		Short: "List the available builders, highest priority first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildersCommand(registry)
		},
	}
}

func buildersCommand(registry *builder.Registry) error {
	registrations := registry.List()
	if len(registrations) == 0 {
		return builder.ErrNoBackends
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-16s %-8s %s\n", "NAME", "PRIORITY", "UNSUPPORTED FIELDS")
	b.WriteString(console.Rule() + "\n")
	for _, reg := range registrations {
		unsupported := []spec.Field{}
		supported := reg.Backend.SupportedFields()
		for _, f := range spec.AllFields() {
			if !supported.Has(f) {
				unsupported = append(unsupported, f)
			}
		}
		missing := "-"
		if len(unsupported) > 0 {
			missing = spec.JoinFields(unsupported)
		}
		fmt.Fprintf(&b, "%-16s %-8d %s\n", reg.Name, reg.Priority, missing)
	}
	console.Output(strings.TrimSuffix(b.String(), "\n"))
	return nil
}
