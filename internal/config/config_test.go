package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HOST", "PORT", "ALLOW_ORIGINS", "MIN_SIMILARITY", "DB_PATH"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "127.0.0.1:8082", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.AllowOrigins)
	assert.Equal(t, 70.0, cfg.MinSimilarity)
	assert.Equal(t, "data/cache.db", cfg.DBPath)
	assert.Positive(t, cfg.MatchWorkers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOW_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("MIN_SIMILARITY", "85.5")
	t.Setenv("MATCH_WORKERS", "oops")
	t.Setenv("REFRESH_CRON", "")

	cfg := Load()
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowOrigins)
	assert.Equal(t, 85.5, cfg.MinSimilarity)
	assert.Positive(t, cfg.MatchWorkers)
	assert.Equal(t, "", cfg.RefreshCron)
}
