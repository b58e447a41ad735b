package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrewpaige1/lingodeck-api/auth"
	"github.com/andrewpaige1/lingodeck-api/config"
	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("RAILWAY_ENVIRONMENT_NAME", "test")
	t.Setenv("LOG_MODE", "prod")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_URL", filepath.Join(dir, "lingodeck.db"))
	t.Setenv("JWT_SECRET_KEY", "cmd-secret")
	t.Setenv("JWT_ISSUER", "lingodeck")
	t.Setenv("JWT_AUDIENCE", "lingodeck-api")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "token", "auth0|alice", "--nickname", "alice")
	require.NoError(t, err)

	sub, err := auth.VerifyToken(auth.Options{
		SecretKey: "cmd-secret",
		Issuer:    "lingodeck",
		Audience:  "lingodeck-api",
	}, strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "auth0|alice", sub)
}

func TestImportCommand(t *testing.T) {
	dir := setupEnv(t)
	file := filepath.Join(dir, "greetings.csv")
	require.NoError(t, os.WriteFile(file, []byte("vocab,pronunciation,meaning\nhola,OH-la,hello\nadiós,ah-DYOS,goodbye\n,,\n"), 0o644))

	_, err := run(t, "import", file)
	assert.Error(t, err, "--user is required")

	out, err := run(t, "import", file, "--user", "auth0|bob")
	require.NoError(t, err)
	assert.Contains(t, out, `Imported 2 cards to deck "greetings"`)

	db, err := config.Connect(env)
	require.NoError(t, err)
	var cards int64
	require.NoError(t, db.Model(&models.Card{}).Count(&cards).Error)
	assert.EqualValues(t, 2, cards)

	var user models.User
	require.NoError(t, db.Where("auth0_id = ?", "auth0|bob").First(&user).Error)
}
