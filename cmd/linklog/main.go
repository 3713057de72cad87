// Command linklog inspects linklog properties files: it resolves
// effective levels for logger names and reports what a file configures.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abyssdigger/linklog"
)

var rootCmd = &cobra.Command{
	Use:           "linklog",
	Short:         "Inspect linklog level configuration files",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <name>...",
	Short: "Print the effective level for each logger name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, path, err := loadRules()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", path)
		for _, name := range args {
			level := rules.GetLevelForLogger(name, linklog.DEFAULT_LEVEL)
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", name, level)
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Parse a configuration file and report what was accepted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, path, err := loadRules()
		if err != nil {
			return err
		}
		exact, wild := rules.RuleCount()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "config:      %s\n", path)
		fmt.Fprintf(out, "root:        %s\n", rules.RootLevel())
		fmt.Fprintf(out, "exact rules: %d\n", exact)
		fmt.Fprintf(out, "wildcards:   %d\n", wild)
		fmt.Fprintf(out, "scan:        %v\n", rules.ScanEnabled())
		if rules.ScanEnabled() {
			fmt.Fprintf(out, "scan period: %s\n", rules.ScanPeriod())
		}
		return nil
	},
}

// loadRules reads the file from --config / LINKLOG_CONFIG, falling back
// to the standard search path.
func loadRules() (*linklog.Rules, string, error) {
	path := viper.GetString("config")
	if path == "" {
		found, ok := linklog.FindConfigFile(nil)
		if !ok {
			return nil, "", fmt.Errorf("no config file found, use --config or LINKLOG_CONFIG")
		}
		path = found
	}
	rules := linklog.NewRules()
	if err := rules.LoadFromFile(path); err != nil {
		return nil, "", err
	}
	return rules, path, nil
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to a properties file")
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.SetEnvPrefix("LINKLOG")
	viper.AutomaticEnv()
	rootCmd.AddCommand(resolveCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
