package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = "rampart"
	envPrefix  = "RAMPART"
)

// Settings are the process-level knobs. Strategy lives under "strategy" and
// is read separately with Strategy.
type Settings struct {
	ConfigDir   string
	LogLevel    string
	LogFile     string
	Seed        uint64
	TurnTimeout time.Duration
	Journal     string // sqlite path, empty disables the journal
	Render      string // board render file, empty disables rendering
}

// LoadDotEnv loads .env files into the process environment so RAMPART_*
// overrides can live next to the binary. Missing files are ignored.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// BindFlags registers the command line flags on fs and binds them into
// viper so flags beat env, env beats file, file beats defaults.
func BindFlags(fs *pflag.FlagSet) error {
	fs.String("config-dir", ".", "directory holding rampart.json")
	fs.String("log-level", "info", "debug, info, warn or error")
	fs.String("log-file", "", "also write logs to this file")
	fs.Uint64("seed", 0, "random seed (0 picks one and logs it)")
	fs.Duration("turn-timeout", 0, "planning budget per turn (0 = none)")
	fs.String("journal", "", "sqlite file to journal turns and breaches to")
	fs.String("render", "", "file to draw the board to after every turn")

	for key, flag := range map[string]string{
		"configDir":   "config-dir",
		"logLevel":    "log-level",
		"logFile":     "log-file",
		"seed":        "seed",
		"turnTimeout": "turn-timeout",
		"journal":     "journal",
		"render":      "render",
	} {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// Load sets defaults, enables RAMPART_* environment overrides and reads
// rampart.json from configDir when present. A missing file is not an error.
func Load(configDir string) error {
	viper.SetDefault("configDir", ".")
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "")
	viper.SetDefault("seed", 0)
	viper.SetDefault("turnTimeout", "0s")
	viper.SetDefault("journal", "")
	viper.SetDefault("render", "")
	setStrategyDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(configName)
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Current returns the resolved settings.
func Current() Settings {
	return Settings{
		ConfigDir:   viper.GetString("configDir"),
		LogLevel:    viper.GetString("logLevel"),
		LogFile:     viper.GetString("logFile"),
		Seed:        viper.GetUint64("seed"),
		TurnTimeout: viper.GetDuration("turnTimeout"),
		Journal:     viper.GetString("journal"),
		Render:      viper.GetString("render"),
	}
}

// FileUsed is the config file that was read, if any.
func FileUsed() string {
	return viper.ConfigFileUsed()
}
