package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := newViper()
	v.Set("ALLOWED_ORIGINS", "http://localhost:3000, https://lingodeck.app ,")
	v.Set("TIMEZONE", "Asia/Seoul")

	env, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "8080", env.Port)
	assert.Equal(t, "postgres", env.DBDriver)
	assert.Equal(t, []string{"http://localhost:3000", "https://lingodeck.app"}, env.AllowedOrigins)
	assert.Equal(t, "Asia/Seoul", env.Location.String())
	assert.True(t, env.IsDevelopment)
	assert.Empty(t, env.ImportAPIKey)
	assert.Equal(t, 5.0, env.DataRateLimit)
}

func TestFromViper_BadTimezone(t *testing.T) {
	v := viper.New()
	v.Set("TIMEZONE", "Mars/Olympus")
	_, err := FromViper(v)
	assert.Error(t, err)
}

func TestConnect_Sqlite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "lingodeck.db")
	db, err := Connect(Environment{DBDriver: "sqlite", DBURL: dsn, IsDevelopment: true})
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable("user_achievements"))
	assert.True(t, db.Migrator().HasColumn("user_achievements", "odachievement_id"))

	_, err = Connect(Environment{DBDriver: "mysql"})
	assert.Error(t, err)
}
