package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-key")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "entities", cfg.EntitiesTable)
	assert.Equal(t, "entities_context", cfg.EntitiesView)
	assert.Equal(t, "buyer_micro_context", cfg.MicroLinksTable)
	assert.Equal(t, time.Second, cfg.SyncMinInterval)
	assert.Equal(t, 500, cfg.ImportBatchSize)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-key")
	t.Setenv("SYNC_MIN_INTERVAL", "250ms")
	t.Setenv("IMPORT_BATCH_SIZE", "100")
	t.Setenv("MICRO_LINKS_TABLE", "entity_micro_links")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.SyncMinInterval)
	assert.Equal(t, 100, cfg.ImportBatchSize)
	assert.Equal(t, "entity_micro_links", cfg.MicroLinksTable)
}

func TestLoadConfig_RequiresSupabaseCredentials(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "")

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestValidate_RejectsBadTuning(t *testing.T) {
	cfg := &Config{
		SupabaseURL:     "https://project.supabase.co",
		SupabaseKey:     "key",
		SyncMinInterval: time.Second,
		ImportBatchSize: 0,
	}

	assert.Error(t, cfg.Validate())
}
