package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/felixgeelhaar/gymstore/internal/accounts/application/commands"
	"github.com/felixgeelhaar/gymstore/internal/app"
	"github.com/felixgeelhaar/gymstore/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) *app.Container {
	t.Helper()
	c, err := app.NewContainer(context.Background(), &config.Config{
		AppEnv:              "development",
		SQLitePath:          ":memory:",
		JWTSecret:           "cli-test-secret",
		JWTTTL:              time.Hour,
		PurchaseMaxAttempts: 3,
		OutboxPollInterval:  time.Second,
		OutboxBatchSize:     10,
		OutboxMaxRetries:    3,
	}, nil)
	require.NoError(t, err)
	SetApp(c)
	t.Cleanup(func() {
		SetApp(nil)
		c.Close()
	})
	return c
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	t.Cleanup(func() { versionShort, versionJSON = false, false })

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gymstore dev (go")
	assert.Contains(t, out, "commit:")

	out, err = run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
	versionShort = false

	out, err = run(t, "version", "--json")
	require.NoError(t, err)
	var info BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "dev", info.Version)
	assert.NotEmpty(t, info.Commit)
	assert.NotEmpty(t, info.GoVersion)
}

func TestCommandsRequireApp(t *testing.T) {
	SetApp(nil)
	_, err := run(t, "migrate")
	assert.ErrorContains(t, err, "database connection required")
}

func TestMigrateCommand(t *testing.T) {
	setupTestApp(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema up to date (sqlite)")
}

func TestTokenCommand(t *testing.T) {
	c := setupTestApp(t)
	opened, err := c.OpenAccountHandler.Handle(context.Background(), commands.OpenAccountCommand{
		Email:    "sam@gym.test",
		FullName: "Sam Lee",
	})
	require.NoError(t, err)

	out, err := run(t, "token", "--user", "sam@gym.test")
	require.NoError(t, err)

	userID, err := c.Tokens.Verify(string(bytes.TrimSpace([]byte(out))))
	require.NoError(t, err)
	assert.Equal(t, opened.UserID, userID)

	_, err = run(t, "token", "--user", "nobody@gym.test")
	assert.Error(t, err)
}

func TestRelayOnce(t *testing.T) {
	c := setupTestApp(t)
	_, err := c.OpenAccountHandler.Handle(context.Background(), commands.OpenAccountCommand{
		Email:    "sam@gym.test",
		FullName: "Sam Lee",
	})
	require.NoError(t, err)

	out, err := run(t, "relay", "--once")
	require.NoError(t, err)
	assert.Contains(t, out, "failed=0")
}
