package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// settableKeys are the keys "config set" accepts, each with its checker.
// Credentials under auth.* are managed by the auth commands only.
var settableKeys = map[string]func(string) error{
	"server_url": checkServerURL,
	"output":     checkOutputFormat,
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Manage CLI configuration"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Interactive first-time setup",
			RunE:  runConfigInit,
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set server_url or output",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := setKey(args[0], args[1]); err != nil {
					return err
				}
				if err := writeConfig(); err != nil {
					return err
				}
				fmt.Printf("%s = %s\n", args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one configuration value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Printf("%s: %s\n", args[0], shownValue(args[0], viper.Get(args[0])))
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print every configuration value",
			RunE: func(cmd *cobra.Command, args []string) error {
				keys := viper.AllKeys()
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Printf("%s: %s\n", k, shownValue(k, viper.Get(k)))
				}
				return nil
			},
		},
	)
	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	answers := []struct{ key, prompt, def string }{
		{"server_url", "Marketplace server URL", "http://localhost:5000"},
		{"output", "Default output format (table/json/yaml)", "table"},
	}
	for _, a := range answers {
		v := promptInput(fmt.Sprintf("%s [%s]: ", a.prompt, a.def))
		if v == "" {
			v = a.def
		}
		if err := setKey(a.key, v); err != nil {
			return err
		}
	}
	if err := writeConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Printf("Configuration saved to %s\n", viper.ConfigFileUsed())
	return nil
}

func setKey(key, value string) error {
	check, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("unknown key %q (settable: server_url, output)", key)
	}
	if err := check(value); err != nil {
		return err
	}
	viper.Set(key, value)
	return nil
}

func checkServerURL(v string) error {
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server_url must be an http(s) URL, got %q", v)
	}
	return nil
}

func checkOutputFormat(v string) error {
	switch v {
	case "table", "json", "yaml":
		return nil
	}
	return fmt.Errorf("output must be table, json or yaml, got %q", v)
}

// shownValue hides stored tokens.
func shownValue(key string, v interface{}) string {
	if v == nil {
		return "(not set)"
	}
	if strings.HasPrefix(key, "auth.") && strings.HasSuffix(key, "token") {
		if v == "" {
			return "(not set)"
		}
		return "(stored)"
	}
	return fmt.Sprint(v)
}

func writeConfig() error {
	if cfgFile != "" {
		return viper.WriteConfigAs(cfgFile)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	dir := configDir(home)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path := filepath.Join(dir, "config.yaml")
	viper.SetConfigFile(path)
	return viper.WriteConfigAs(path)
}
