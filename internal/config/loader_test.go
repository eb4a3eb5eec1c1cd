package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
db_path: /var/lib/bimi/bmt_db.sqlite
currency: CHF
deposit: 1500
log_level: debug
server:
  addr: 127.0.0.1:9000
  read_timeout: 3s
summary_mail_to: dorm@example.org
summary_mail_subject: Monthly drinks
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bmt_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	dir := filepath.Join(home, ".config", "bimiTool")
	assert.Equal(t, filepath.Join(dir, "bmt_config.yaml"), cfg.Path())
	assert.Equal(t, filepath.Join(dir, "bmt_db.sqlite"), cfg.DBPath)
	assert.Equal(t, "€", cfg.Currency)
	assert.Equal(t, int64(0), cfg.Deposit)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, defaultSummaryText, cfg.Mail.SummaryText)
	assert.Equal(t, defaultCreditSubject, cfg.Mail.CreditSubject)
	assert.Empty(t, cfg.Mail.SummaryTo)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/bimi/bmt_db.sqlite", cfg.DBPath)
	assert.Equal(t, "CHF", cfg.Currency)
	assert.Equal(t, int64(1500), cfg.Deposit)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "dorm@example.org", cfg.Mail.SummaryTo)
	assert.Equal(t, "Monthly drinks", cfg.Mail.SummarySubject)
	assert.Equal(t, defaultCreditText, cfg.Mail.CreditText)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name string
		path string
	}{
		{
			name: "Missing explicit file",
			path: filepath.Join(t.TempDir(), "nope.yaml"),
		},
		{
			name: "Invalid yaml",
			path: writeConfig(t, "currency: [unterminated"),
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := Load(testCase.path, nil)
			assert.Error(t, err)
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	t.Run("Environment", func(t *testing.T) {
		t.Setenv("BMT_CURRENCY", "$")
		t.Setenv("BMT_SERVER_ADDR", ":7000")

		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "$", cfg.Currency)
		assert.Equal(t, ":7000", cfg.Server.Addr)
	})

	t.Run("Flags", func(t *testing.T) {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("database", "", "")
		flags.String("addr", "", "")
		require.NoError(t, flags.Parse([]string{"--database", "/tmp/other.sqlite"}))

		cfg, err := Load(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/other.sqlite", cfg.DBPath)
		assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	})
}

func TestSave(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	cfg, err := Load(path, nil)
	require.NoError(t, err)

	cfg.Currency = "£"
	cfg.Deposit = 250
	cfg.path = filepath.Join(t.TempDir(), "new", "bmt_config.yaml")
	require.NoError(t, cfg.Save())

	saved, err := Load(cfg.Path(), nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, saved)
}
