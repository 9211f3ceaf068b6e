package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/regdash/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the regdash config file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := activeConfigPath()
		_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
		return err
	},
}

var setAPIURLCmd = &cobra.Command{
	Use:   "set-api-url <url>",
	Short: "Point the TUI at a different auth API",
	Long: `Update api.base_url in the config file. Other settings and comments
are left as they are.

Example:
  regdash config set-api-url https://accounts.example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := activeConfigPath()
		if err := config.SaveAPIBaseURL(path, args[0]); err != nil {
			return fmt.Errorf("saving api url: %w", err)
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "api.base_url set to %s in %s\n", config.NormalizeBaseURL(args[0]), path)
		return err
	},
}

func init() {
	configCmd.AddCommand(configPathCmd, setAPIURLCmd)
	rootCmd.AddCommand(configCmd)
}

// activeConfigPath is the file viper loaded, or the local default when
// none was found.
func activeConfigPath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	return localConfigPath
}
