package cli

import (
	"github.com/spf13/cobra"

	"github.com/replicate/envspec/pkg/util/console"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [spec.yaml...]",
		Short: "Validate spec files without building them",
		RunE:  validateCommand,
	}
}

func validateCommand(cmd *cobra.Command, args []string) error {
	for _, path := range specPaths(args) {
		s, err := loadSpec(path, "")
		if err != nil {
			return err
		}
		console.Infof("Valid %s, image %s", path, s.ImageName())
	}
	return nil
}
