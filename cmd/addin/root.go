package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/native-addin/addin"
	"github.com/wippyai/native-addin/addins/stopwatch"
	"github.com/wippyai/native-addin/addins/sysutil"
	"github.com/wippyai/native-addin/variant"
	"github.com/wippyai/native-addin/wasmhost"
)

const (
	keyEncoding   = "narrow_encoding"
	keyLogLevel   = "log.level"
	keyLogDevMode = "log.development"
)

var (
	cfgFile string
	verbose bool
	log     = zap.NewNop()
)

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "addin",
	Short: "Inspect and call native add-in classes",
	Long: `addin exposes the bundled native classes (Instant, Utils) the way a host
application sees them: as ordered method and property tables called by index
with tagged value cells.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return setupLogging()
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	defer func() { _ = log.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.addin.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("encoding", "utf-8", "code page for narrow strings (e.g. windows-1251)")
	_ = viper.BindPFlag(keyEncoding, rootCmd.PersistentFlags().Lookup("encoding"))

	viper.SetDefault(keyEncoding, "utf-8")
	viper.SetDefault(keyLogLevel, "warn")
	viper.SetDefault(keyLogDevMode, false)
}

// initConfig loads configuration from the config file and environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".addin")
	}

	viper.SetEnvPrefix("ADDIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

func setupLogging() error {
	level, err := zapcore.ParseLevel(viper.GetString(keyLogLevel))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", keyLogLevel, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	if viper.GetBool(keyLogDevMode) {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	log = l
	addin.SetLogger(l.Named("addin"))
	wasmhost.SetLogger(l.Named("wasmhost"))

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("using config file", zap.String("file", used))
	}
	return nil
}

// newLibrary builds the class library with the configured code page.
func newLibrary() (*addin.Library, error) {
	conv, err := variant.NewConverter(viper.GetString(keyEncoding))
	if err != nil {
		return nil, err
	}
	return addin.NewLibrary(
		[]addin.Class{stopwatch.Class, sysutil.Class},
		addin.WithCodePage(conv),
		addin.WithLogger(log.Named("addin")),
	)
}
