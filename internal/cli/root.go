package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pratik-mahalle/processimo/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	outputFormat string
	noColor      bool
	serverURL    string
	apiClient    *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "processimo",
	Short: "Processimo CLI - AI agent marketplace",
	Long: `Browse AI agents and agent teams, manage subscriptions and submit custom
workflow requests to the Processimo marketplace.`,
	PersistentPreRunE: connect,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.processimo/config.yaml)")
	flags.StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	flags.BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colored output")
	flags.StringVar(&serverURL, "server", "", "server URL (overrides config)")
	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("server_url", flags.Lookup("server"))

	rootCmd.AddCommand(
		newAuthCmd(),
		newConfigCmd(),
		newStatusCmd(),
		newAgentCmd(),
		newTeamCmd(),
		newSubscribeCmd(),
		newSubscriptionCmd(),
		newRequestCmd(),
		newAdminCmd(),
	)
}

func initConfig() {
	viper.SetDefault("server_url", "http://localhost:5000")
	viper.SetDefault("output", "table")
	viper.SetEnvPrefix("PROCESSIMO")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(configDir(home))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	} else {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return
	}
	// a missing file just means defaults
	_ = viper.ReadInConfig()
}

// connect builds apiClient before any command runs. Config commands stay
// offline, and commands outside publicCommand need a stored token.
func connect(cmd *cobra.Command, args []string) error {
	if p := cmd.Parent(); p != nil && p.Name() == "config" {
		return nil
	}
	base := viper.GetString("server_url")
	if serverURL != "" {
		base = serverURL
	}
	apiClient = client.NewClient(client.Config{BaseURL: base})
	if !requiresAuth(cmd) {
		return nil
	}
	token := viper.GetString(keyToken)
	if token == "" {
		return fmt.Errorf("not signed in. Run 'processimo auth login' first")
	}
	apiClient.SetToken(token)
	return nil
}

func getOutputFormat() string {
	if outputFormat != "" && outputFormat != "table" {
		return outputFormat
	}
	return viper.GetString("output")
}

const annotationPublic = "public"

func requiresAuth(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationPublic] == "true" {
			return false
		}
	}
	return true
}

func publicCommand() map[string]string {
	return map[string]string{annotationPublic: "true"}
}

func configDir(home string) string {
	return filepath.Join(home, ".processimo")
}
