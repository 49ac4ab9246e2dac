package config

import (
	"errors"
	"maps"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the command-line services.
// Values come from defaults, then configs/config.defaults.yaml, then APP_*
// environment variables, then command-line flags.
type Config struct {
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	Prompt    string `mapstructure:"PROMPT"`

	// Phonebook Service Specific
	PhonebookDataFile string `mapstructure:"PHONEBOOK_DATA_FILE"`
	PhonebookPageSize int    `mapstructure:"PHONEBOOK_PAGE_SIZE"`
	PhonebookAutosave bool   `mapstructure:"PHONEBOOK_AUTOSAVE"`

	// Notebook Service Specific
	NotebookDataFile string `mapstructure:"NOTEBOOK_DATA_FILE"`

	// ConfigFile is the config file that was read, empty when none was found.
	ConfigFile string `mapstructure:"-"`
}

// flagKeys maps command-line flag names shared by all services to the
// configuration keys they override.
var flagKeys = map[string]string{
	"log-level":  "LOG_LEVEL",
	"log-format": "LOG_FORMAT",
	"prompt":     "PROMPT",
	"page-size":  "PHONEBOOK_PAGE_SIZE",
	"autosave":   "PHONEBOOK_AUTOSAVE",
}

// dataFileKeys names the key the --data-file flag overrides for each service.
var dataFileKeys = map[string]string{
	"phonebook_service": "PHONEBOOK_DATA_FILE",
	"notebook_service":  "NOTEBOOK_DATA_FILE",
}

// flagBindings returns the flag to key mapping for serviceName.
func flagBindings(serviceName string) map[string]string {
	bindings := maps.Clone(flagKeys)
	if key, ok := dataFileKeys[serviceName]; ok {
		bindings["data-file"] = key
	}
	return bindings
}

// Load reads the configuration for serviceName. flags may be nil.
func Load(serviceName string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config.defaults")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetEnvPrefix("APP") // APP_LOG_LEVEL, APP_PHONEBOOK_DATA_FILE etc.

	// Set defaults for all known keys
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("PROMPT", "Enter a command: ")
	v.SetDefault("PHONEBOOK_DATA_FILE", "contacts.json")
	v.SetDefault("PHONEBOOK_PAGE_SIZE", 5)
	v.SetDefault("PHONEBOOK_AUTOSAVE", false)
	v.SetDefault("NOTEBOOK_DATA_FILE", "notes.txt")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if flags != nil {
		for name, key := range flagBindings(serviceName) {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	return &cfg, nil
}
