package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const appName = "ask"

//go:embed ask.toml
var defaultConfigFile []byte

// Config is the resolved configuration of a run.
type Config struct {
	LlamaCppPath        string
	ModelsPath          string
	DefaultModel        string
	CodeInstructModel   string
	CodeGenerationModel string
	CtxSize             string
	Style               string
	PresetsFile         string
	HistoryFile         string
	IMEndStopAlways     bool
	DisabledQuirks      []string
}

// InitConfig reads the config file into v. Without an explicit file, the one
// in the XDG config directory is used and created from the embedded default
// when missing.
func InitConfig(v *viper.Viper, file string) error {
	setDefaults(v)
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	// the historical variable names win over the ASK_ ones
	_ = v.BindEnv("llama-cpp-path", "LLAMA_CPP_PATH", "ASK_LLAMA_CPP_PATH")
	_ = v.BindEnv("models-path", "MODELS_PATH", "ASK_MODELS_PATH")

	v.SetConfigType("toml")
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", file, err)
		}
		return nil
	}

	v.SetConfigName(appName)
	v.AddConfigPath(ConfigDir()) // $XDG_CONFIG_HOME takes precedence over config in repo dir
	v.AddConfigPath("./config")  // in the repo

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		// create config file from embedded default file
		if err := v.ReadConfig(bytes.NewReader(defaultConfigFile)); err != nil {
			return fmt.Errorf("reading default config: %w", err)
		}
		if err := writeDefault(filepath.Join(ConfigDir(), appName+".toml")); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing default config: %v\n", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()
	v.SetDefault("llama-cpp-path", "")
	v.SetDefault("models-path", filepath.Join(home, "Downloads"))
	v.SetDefault("default-model", "gemma-2-9b-it")
	v.SetDefault("code-instruct-model", "Qwen2.5-Coder-32B-Instruct")
	v.SetDefault("code-generation-model", "Qwen2.5-Coder-32B-Instruct")
	v.SetDefault("ctx-size", "0")
	v.SetDefault("style", "tokyo-night")
	v.SetDefault("presets-file", filepath.Join(ConfigDir(), "presets.ini"))
	v.SetDefault("history-file", filepath.Join(cacheDir(), "history.txt"))
	v.SetDefault("quirks.im-end-stop-always", true)
	v.SetDefault("quirks.disabled", []string{})
}

// Load returns the configuration held by v. Empty values fall back to the
// defaults.
func Load(v *viper.Viper) Config {
	get := func(key string) string {
		if s := v.GetString(key); s != "" {
			return s
		}
		s, _ := defaultValue(key).(string)
		return s
	}
	return Config{
		LlamaCppPath:        v.GetString("llama-cpp-path"),
		ModelsPath:          get("models-path"),
		DefaultModel:        get("default-model"),
		CodeInstructModel:   get("code-instruct-model"),
		CodeGenerationModel: get("code-generation-model"),
		CtxSize:             get("ctx-size"),
		Style:               get("style"),
		PresetsFile:         get("presets-file"),
		HistoryFile:         get("history-file"),
		IMEndStopAlways:     v.GetBool("quirks.im-end-stop-always"),
		DisabledQuirks:      v.GetStringSlice("quirks.disabled"),
	}
}

func defaultValue(key string) any {
	d := viper.New()
	setDefaults(d)
	return d.Get(key)
}

// ConfigDir is $XDG_CONFIG_HOME/ask, or ~/.config/ask.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, _ := os.UserHomeDir()
		configHome = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configHome, appName)
}

func cacheDir() string {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		homeDir, _ := os.UserHomeDir()
		cacheHome = filepath.Join(homeDir, ".cache")
	}
	return filepath.Join(cacheHome, appName)
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, defaultConfigFile, 0o644)
}
