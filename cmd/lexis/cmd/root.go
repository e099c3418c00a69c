// Package cmd contains all CLI commands for Lexis.
package cmd

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/lexis/internal/config"
	"github.com/f3rmion/lexis/internal/llm"
	"github.com/f3rmion/lexis/internal/prompt"
	"github.com/f3rmion/lexis/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lexis",
	Short: "Learn vocabulary from song lyrics",
	Long: `Lexis fetches the lyrics of a song and lets you study its words.

Words you save are highlighted wherever they appear in lyrics, and words
you have learned are marked as such. Saved songs and words live in your
account on the Lexis backend.

Running 'lexis' without arguments launches the interactive TUI.`,
	SilenceUsage: true,
	RunE:         runUnifiedTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config directory (default is $HOME/.config/lexis)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in ENV variables and resolves the config directory.
func initConfig() {
	if cfgFile != "" {
		viper.Set("config_dir", cfgFile)
	} else {
		configDir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", configDir)
	}

	viper.SetEnvPrefix("LEXIS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// runUnifiedTUI launches the unified TUI application.
func runUnifiedTUI(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := cmd.Context()
	if err := env.restore(ctx); err != nil {
		env.log.WithError(err).Info("starting signed out")
	}

	llmClient, err := llm.NewClient(env.cfg.AnthropicModel)
	if err != nil {
		env.log.WithError(err).Info("line explanations disabled")
		llmClient = nil
	}

	app := tui.NewApp(tui.Options{
		Config:     env.cfg,
		ConfigDir:  env.dir,
		Sessions:   env.sessions,
		Session:    env.session,
		Auth:       env.backend,
		NewService: env.newService,
		LLM:        llmClient,
		Generator:  prompt.NewGenerator(),
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if m, ok := final.(tui.AppModel); ok {
		if cerr := m.Close(); cerr != nil {
			env.log.WithError(cerr).Warn("closing views")
		}
	}
	if err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
