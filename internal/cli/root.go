package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ppiankov/qualcode/internal/logger"
	"github.com/ppiankov/qualcode/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Version is set at build time with -ldflags
var Version = "0.3.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "qualcode",
	Short: "qualcode - heuristic qualitative coding for interview transcripts",
	Long: `qualcode turns a set of interview transcripts into a first-pass
qualitative analysis: TF-IDF keywords, phrase-based auto-codes, code
co-occurrence, lexicon sentiment and stem-based themes, rendered as a
Markdown research report.

An optional AI pass (Gemini, OpenAI, Anthropic or a local Ollama model)
produces a full thematic analysis answering a research question.

The heuristics approximate an NVivo-style workflow. They make no claim of
linguistic correctness: verify codes and quotes before citing them.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose || viper.GetBool("output.verbose"))
	},
}

// Execute runs the root command; ctx is cancelled on interrupt
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "qualcode v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.qualcode/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// initConfig points viper at the config file and QUALCODE_* variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(model.HomeDir())
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// QUALCODE_LLM_PROVIDER -> llm.provider
	viper.SetEnvPrefix("QUALCODE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := setDefaults(viper.GetViper(), model.DefaultConfig()); err != nil {
		logger.Warn("failed to register config defaults: %v", err)
	}

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("Using config file: %s", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		logger.Warn("could not read config file %s: %v", cfgFile, err)
	}
}

// setDefaults registers every key of cfg so that Unmarshal sees values
// that only exist in the environment
func setDefaults(v *viper.Viper, cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	for section, values := range tree {
		v.SetDefault(section, values)
	}
	return nil
}

// loadConfig resolves defaults < config file < QUALCODE_* env
func loadConfig() (*model.Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = filepath.Join(model.HomeDir(), "cache")
	}
	return cfg, nil
}
