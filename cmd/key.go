package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/nikogura/referral-mailer/pkg/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var keyProvider string

//nolint:gochecknoglobals // Cobra boilerplate
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the API key stored in the OS keyring",
}

//nolint:gochecknoglobals // Cobra boilerplate
var keySetCmd = &cobra.Command{
	Use:   "set [api-key]",
	Short: "Store the provider API key in the OS keyring",
	Long: `Store the provider API key in the OS keyring. When the key is not given
as an argument it is read from stdin.

Example:
  referral-mailer key set --provider groq
  echo "$KEY" | referral-mailer key set --provider anthropic`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKeySet,
}

//nolint:gochecknoglobals // Cobra boilerplate
var keyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the provider API key from the OS keyring",
	Args:  cobra.NoArgs,
	RunE:  runKeyDelete,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyDeleteCmd)
	keyCmd.PersistentFlags().StringVar(&keyProvider, "provider", "", "Provider the key belongs to (default from config)")
}

func resolveKeyProvider() (provider string, err error) {
	if keyProvider != "" {
		provider = strings.ToLower(keyProvider)
		return provider, err
	}

	var cfg config.Config
	cfg, err = loadConfig()
	if err != nil {
		return provider, err
	}
	provider = cfg.Provider
	return provider, err
}

func runKeySet(cmd *cobra.Command, args []string) (err error) {
	var provider string
	provider, err = resolveKeyProvider()
	if err != nil {
		return err
	}

	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		fmt.Fprintf(os.Stderr, "Enter %s API key: ", provider)
		reader := bufio.NewReader(os.Stdin)
		key, err = reader.ReadString('\n')
		if err != nil && key == "" {
			err = errors.Wrap(err, "failed to read API key from stdin")
			return err
		}
		err = nil
	}

	err = config.SetAPIKey(provider, strings.TrimSpace(key))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stored %s API key in keyring service %q\n", provider, config.KeyringService)
	return err
}

func runKeyDelete(cmd *cobra.Command, args []string) (err error) {
	var provider string
	provider, err = resolveKeyProvider()
	if err != nil {
		return err
	}

	err = config.DeleteAPIKey(provider)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s API key from keyring\n", provider)
	return err
}
