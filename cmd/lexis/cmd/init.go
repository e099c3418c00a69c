package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/lexis/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize Lexis configuration",
	Long: `Write a config.yaml with the default settings to your config directory.

Edit it to point Lexis at your backend, lyrics and dictionary services.
Every key can also be set through the environment, e.g. LEXIS_BACKEND_URL.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configDir := getConfigDir()
	path := filepath.Join(configDir, config.FileName)

	// Check if config already exists
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	}

	if err := config.Save(configDir, config.Default()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Set backend_url and lyrics_url in config.yaml")
	fmt.Fprintln(out, "  2. Run 'lexis signup' or 'lexis signin'")
	fmt.Fprintln(out, "  3. Run 'lexis' to start reading lyrics")

	return nil
}
