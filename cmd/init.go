package cmd

import (
	"fmt"

	"github.com/nikogura/referral-mailer/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	Long: `Create a default configuration file at $HOME/.referral-mailer/config.json,
or at the path given with --config. Files ending in .yaml or .yml are written as YAML.

The API key is not stored in the file. Set GROQ_API_KEY (or the key for your
provider) in the environment or a .env file, or run 'referral-mailer key set'.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	path := getConfigFile()
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	err = config.InitConfig(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", path)
	return err
}
