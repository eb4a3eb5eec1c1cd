package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "BMT"

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"./configs/.env",
}

const (
	defaultSummarySubject = "BimiTool summary"
	defaultSummaryText    = `Hello everyone,

these are our kings and queens:
  $kings:$name rules $drink with $amount bottles

Current balances:
  $accInfos:$name $balance

Cheers`
	defaultCreditSubject = "Credit of $amount booked"
	defaultCreditText    = `Hi $name,

your credit of $amount has been booked.

Cheers`
)

// DefaultPath returns ~/.config/bimiTool/bmt_config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "bimiTool", "bmt_config.yaml")
}

// Load reads the configuration. An empty path means DefaultPath, which is
// allowed to be missing. An explicit path must exist. Environment variables
// (BMT_DB_PATH, BMT_SERVER_ADDR, ...) override the file and changed flags in
// flags override everything. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	// A missing .env is not an error.
	for _, p := range DotEnvPaths {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err != nil {
				return nil, fmt.Errorf("error loading %s: %w", p, err)
			}
			break
		}
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	path = expandHome(path)
	if explicit {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s not found: %w", path, err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v, filepath.Dir(path))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range map[string]string{
			"db_path":     "database",
			"server.addr": "addr",
			"log_level":   "log-level",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.DBPath = expandHome(config.DBPath)
	config.path = path
	return &config, nil
}

// Save writes c to its file as YAML, creating the directory if needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("can't create config directory: %w", err)
	}
	v := viper.New()
	v.SetConfigType("yaml")
	for key, value := range map[string]interface{}{
		"db_path":                 c.DBPath,
		"currency":                c.Currency,
		"deposit":                 c.Deposit,
		"log_level":               c.LogLevel,
		"mail_program":            c.MailProgram,
		"server.addr":             c.Server.Addr,
		"server.read_timeout":     c.Server.ReadTimeout.String(),
		"server.write_timeout":    c.Server.WriteTimeout.String(),
		"server.idle_timeout":     c.Server.IdleTimeout.String(),
		"server.shutdown_timeout": c.Server.ShutdownTimeout.String(),
		"credit_mail_subject":     c.Mail.CreditSubject,
		"credit_mail_text":        c.Mail.CreditText,
		"summary_mail_to":         c.Mail.SummaryTo,
		"summary_mail_subject":    c.Mail.SummarySubject,
		"summary_mail_text":       c.Mail.SummaryText,
	} {
		v.Set(key, value)
	}
	if err := v.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("can't write config file %s: %w", c.path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("db_path", filepath.Join(dir, "bmt_db.sqlite"))
	v.SetDefault("currency", "€")
	v.SetDefault("deposit", 0)
	v.SetDefault("log_level", "error")
	v.SetDefault("mail_program", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("credit_mail_subject", defaultCreditSubject)
	v.SetDefault("credit_mail_text", defaultCreditText)
	v.SetDefault("summary_mail_to", "")
	v.SetDefault("summary_mail_subject", defaultSummarySubject)
	v.SetDefault("summary_mail_text", defaultSummaryText)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
