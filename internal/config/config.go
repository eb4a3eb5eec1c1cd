package config

import "time"

// Config holds every recognised option. It is passed explicitly to whoever
// needs it.
type Config struct {
	DBPath      string       `mapstructure:"db_path"`
	Currency    string       `mapstructure:"currency"`
	Deposit     int64        `mapstructure:"deposit"` // minor units, subtracted from displayed balances
	LogLevel    string       `mapstructure:"log_level"`
	MailProgram string       `mapstructure:"mail_program"`
	Server      ServerConfig `mapstructure:"server"`
	Mail        MailConfig   `mapstructure:",squash"`

	path string
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// MailConfig contains the templates of the summary and credit mails.
// SummaryTo is the recipient of the summary mail, usually the dorm list.
type MailConfig struct {
	SummaryTo      string `mapstructure:"summary_mail_to"`
	CreditSubject  string `mapstructure:"credit_mail_subject"`
	CreditText     string `mapstructure:"credit_mail_text"`
	SummarySubject string `mapstructure:"summary_mail_subject"`
	SummaryText    string `mapstructure:"summary_mail_text"`
}

// Path is the file the configuration was read from and Save writes to.
func (c *Config) Path() string {
	return c.path
}
