package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/claimaudit/internal/logging"
	"github.com/ppiankov/claimaudit/internal/model"
	"github.com/ppiankov/claimaudit/internal/server"
)

var (
	cfgFile string
	verbose bool
)

// legacyEnv maps config keys to the plain environment variables deployments
// already set
var legacyEnv = map[string]string{
	"llm.api_key":  "OPENAI_API_KEY",
	"llm.base_url": "OPENROUTER_API_BASE",
	"server.port":  "PORT",
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "claimaudit",
	Short: "claimaudit - audit document claims and research university reviews",
	Long: `claimaudit extracts verifiable claims from institutional documents,
gathers evidence for each one and assigns a verdict with a trust score.

When no language model is reachable it falls back to pattern matching,
so every document still gets an audit.

It also researches the public reputation of a university: rankings,
review platforms, social media and news.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("claimaudit v%s\n", server.Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.claimaudit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (console, json)")
	rootCmd.PersistentFlags().String("report-dir", "", "directory for report files")

	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("output.report_dir", rootCmd.PersistentFlags().Lookup("report-dir"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if err := setDefaults(viper.GetViper()); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading defaults: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".claimaudit"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// CLAIMAUDIT_LLM_MODEL overrides llm.model and so on
	viper.SetEnvPrefix("CLAIMAUDIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for key, legacy := range legacyEnv {
		_ = viper.BindEnv(key, "CLAIMAUDIT_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), legacy)
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key of the default configuration so that
// environment variables apply to keys absent from the config file
func setDefaults(v *viper.Viper) error {
	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}
	for key, value := range flatten("", tree) {
		v.SetDefault(key, value)
	}
	// Omitted from the YAML when empty
	for _, key := range []string{"llm.api_key", "llm.http_proxy", "llm.https_proxy", "llm.no_proxy"} {
		v.SetDefault(key, "")
	}
	return nil
}

func flatten(prefix string, tree map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		// Threshold keys are claim types, not settings
		if child, ok := v.(map[string]any); ok && key != "patterns.thresholds" {
			for ck, cv := range flatten(key, child) {
				out[ck] = cv
			}
			continue
		}
		out[key] = v
	}
	return out
}

// loadConfig returns the effective configuration
func loadConfig() (model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// setup loads the configuration and builds the logger
func setup() (model.Config, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}
