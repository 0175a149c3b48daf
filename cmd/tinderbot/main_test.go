package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinderbot/pkg/auth"
	"tinderbot/pkg/config"
	"tinderbot/pkg/models"
)

func TestResolveCredentialsPrefersConfig(t *testing.T) {
	manager, mock := auth.NewMockManager()
	require.NoError(t, mock.Store(&auth.Account{Name: auth.DefaultAccount, FacebookToken: "stored", FacebookID: "1"}))

	cfg := config.DefaultConfig()
	cfg.Credentials = config.CredentialsConfig{FacebookToken: "from-config", FacebookID: "2"}

	source, name, err := resolveCredentials(cfg, manager, "")
	require.NoError(t, err)
	assert.Equal(t, sourceConfig, source)
	assert.Empty(t, name)
	assert.Equal(t, "from-config", cfg.Credentials.FacebookToken)
}

func TestResolveCredentialsNamedAccount(t *testing.T) {
	manager, mock := auth.NewMockManager()
	require.NoError(t, mock.Store(&auth.Account{Name: "work", FacebookToken: "work-token", FacebookID: "7"}))

	cfg := config.DefaultConfig()
	cfg.Credentials = config.CredentialsConfig{FacebookToken: "from-config", FacebookID: "2"}

	source, name, err := resolveCredentials(cfg, manager, "work")
	require.NoError(t, err)
	assert.Equal(t, sourceAccount, source)
	assert.Equal(t, "work", name)
	assert.Equal(t, config.CredentialsConfig{FacebookToken: "work-token", FacebookID: "7"}, cfg.Credentials)

	_, _, err = resolveCredentials(cfg, manager, "missing")
	assert.ErrorIs(t, err, auth.ErrCredentialsNotFound)
}

func TestResolveCredentialsDefaultAccount(t *testing.T) {
	manager, mock := auth.NewMockManager()
	cfg := config.DefaultConfig()

	_, _, err := resolveCredentials(cfg, manager, "")
	assert.ErrorIs(t, err, auth.ErrCredentialsNotFound)

	require.NoError(t, mock.Store(&auth.Account{Name: auth.DefaultAccount, FacebookToken: "token", FacebookID: "1"}))
	source, name, err := resolveCredentials(cfg, manager, "")
	require.NoError(t, err)
	assert.Equal(t, sourceAccount, source)
	assert.Equal(t, auth.DefaultAccount, name)
	assert.True(t, cfg.HasCredentials())
}

func newFlagCommand(t *testing.T) *cobra.Command {
	t.Helper()

	saved := []interface{}{logLevel, storeDir, baseURL, notifications, useTUI}
	t.Cleanup(func() {
		logLevel = saved[0].(string)
		storeDir = saved[1].(string)
		baseURL = saved[2].(string)
		notifications = saved[3].(bool)
		useTUI = saved[4].(bool)
	})
	storeDir, baseURL, useTUI = "", "", false

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "")
	cmd.Flags().BoolVar(&notifications, "notifications", true, "")
	return cmd
}

func TestCommandLineFlagsOnlyChanged(t *testing.T) {
	cmd := newFlagCommand(t)

	assert.Empty(t, commandLineFlags(cmd))

	require.NoError(t, cmd.Flags().Set("log-level", "debug"))
	require.NoError(t, cmd.Flags().Set("notifications", "false"))
	storeDir = "/tmp/store"

	flags := commandLineFlags(cmd)
	assert.Equal(t, map[string]interface{}{
		"log-level":     "debug",
		"notifications": false,
		"store-dir":     "/tmp/store",
	}, flags)
}

func TestCommandLineFlagsQuietUnderTUI(t *testing.T) {
	cmd := newFlagCommand(t)
	useTUI = true

	assert.Equal(t, "error", commandLineFlags(cmd)["log-level"])

	require.NoError(t, cmd.Flags().Set("log-level", "debug"))
	assert.Equal(t, "debug", commandLineFlags(cmd)["log-level"])
}

func TestExampleConfigIsValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(exampleConfig), 0600))

	cfg := config.DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://api.gotinder.com", cfg.API.BaseURL)
	assert.Equal(t, "Hi {name}! How are you?", cfg.Bot.HiMessage)
	assert.True(t, cfg.Notifications.OnMatch)
}

func TestMaskedConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Credentials.FacebookToken = "EAAGabcdefghij1234"

	display := maskedConfig(cfg)
	assert.Equal(t, "EAAG...1234", display.Credentials.FacebookToken)
	assert.Equal(t, "EAAGabcdefghij1234", cfg.Credentials.FacebookToken)

	cfg.Credentials.FacebookToken = "short"
	assert.Equal(t, "***", maskedConfig(cfg).Credentials.FacebookToken)
}

func TestConfigWarnings(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Store.BaseDirectory = t.TempDir()
	assert.Len(t, configWarnings(cfg), 2)

	cfg.Credentials = config.CredentialsConfig{FacebookToken: "t", FacebookID: "1"}
	cfg.API.Timeout = 30e9
	assert.Empty(t, configWarnings(cfg))
}

func TestRenderTables(t *testing.T) {
	var buf bytes.Buffer
	renderMatches(&buf, []models.Match{
		{ID: "m2", Person: models.Profile{ID: "u2", Name: "Val"}},
		{ID: "m1", Person: models.Profile{ID: "u1", Name: "Uma"}, Messages: []models.Message{{Message: "hey"}}},
	})
	out := buf.String()
	assert.Contains(t, out, "Uma")
	assert.Contains(t, out, "m2")
	assert.Less(t, strings.Index(out, "Uma"), strings.Index(out, "Val"))

	buf.Reset()
	renderAccounts(&buf, []*auth.Account{{Name: "work", FacebookToken: "EAAGabcdefghij1234", FacebookID: "7"}})
	assert.Contains(t, buf.String(), "EAAG...1234")
	assert.NotContains(t, buf.String(), "abcdefghij")

	buf.Reset()
	renderPeople(&buf, map[string]models.Profile{"u9": {Name: "Zoe"}})
	assert.Contains(t, buf.String(), "Zoe")
	assert.Contains(t, buf.String(), "u9")
}
