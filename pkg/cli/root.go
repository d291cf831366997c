package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/replicate/envspec/pkg/builder"
	"github.com/replicate/envspec/pkg/global"
	"github.com/replicate/envspec/pkg/util/console"
)

func NewRootCommand() (*cobra.Command, error) {
	return newRootCommand(builder.DefaultRegistry()), nil
}

func newRootCommand(registry *builder.Registry) *cobra.Command {
	rootCmd := cobra.Command{
		Use:     "envspec",
		Short:   "Build container images from declarative Python environment specs",
		Version: fmt.Sprintf("%s (built %s)", global.Version, global.BuildTime),
		// Errors are printed in cmd/envspec/main.go
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := console.ParseLevel(global.LogLevel)
			if err != nil {
				return fmt.Errorf("--log-level %q: %w", global.LogLevel, err)
			}
			if global.Verbose {
				level = console.DebugLevel
			}
			console.SetLevel(level)
			if global.NoColor {
				console.SetColor(false)
			}
			cmd.SilenceUsage = true
			return nil
		},
		SilenceErrors: true,
	}
	setPersistentFlags(&rootCmd)
	rootCmd.SetGlobalNormalizationFunc(wordSepNormalizeFunc)

	rootCmd.AddCommand(
		newBuildCommand(registry),
		newDockerfileCommand(registry),
		newBuildersCommand(registry),
		newValidateCommand(),
	)

	return &rootCmd
}

func setPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVar(&global.NoColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().StringVar(&global.LogLevel, "log-level", global.DefaultLogLevel(), "Minimum level of messages to print (debug, info, warn, error). Defaults to $"+global.LogLevelEnvVarName+" or info")
}

func addBuilderFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "builder", "b", "", "Builder to use, overrides the spec's builder field. Defaults to $"+global.BuilderEnvVarName+" or the highest priority builder")
}

// wordSepNormalizeFunc accepts underscores in flag names, so --no_push works
// like --no-push.
func wordSepNormalizeFunc(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}
