package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".config", "dealscout")
	dataDir := filepath.Join(home, ".local", "share", "dealscout")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	configFile := filepath.Join(configDir, "config.toml")

	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("Config file already exists at %s\n", configFile)
		fmt.Println("Use 'dealscout config show' to view current configuration")
		return nil
	}

	if err := os.WriteFile(configFile, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Run 'dealscout persona init-defaults' for the starter personas")
	fmt.Println("  2. Run 'dealscout persona use <id>' to pick one")
	fmt.Println("  3. Start scoring: dealscout score \"serial_founder,yc_alumni\"")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No config file found. Run 'dealscout config init' to create one.")
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	fmt.Printf("# Config file: %s\n\n", configPath)
	fmt.Println(string(data))
	return nil
}

const defaultConfig = `# DealScout Configuration

[database]
path = "~/.local/share/dealscout/dealscout.db"

[scoring]
positive_default = 0.5    # weight when a positive highlight has no learned/base weight
negative_default = -0.3
red_flag_default = -0.5
highlight_scale = 20.0    # score points per weight unit
red_flag_scale = 30.0
strong_pass_min = 80
soft_pass_min = 60
borderline_min = 40

[upstream]
base_url = "http://localhost:8731"
token_env = "DEALSCOUT_API_TOKEN"  # env var holding the bearer token
timeout_seconds = 30
max_attempts = 3                   # delivery tries before an entry is parked

[mcp]
enabled = true
transport = "stdio"
`
