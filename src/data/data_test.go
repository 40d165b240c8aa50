package data

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/stake-plus/truthlens/src/modality"
	"github.com/stake-plus/truthlens/src/verdict"
)

func TestEnsureParam(t *testing.T) {
	assert.Equal(t, "u:p@tcp(h)/db?parseTime=true", ensureParam("u:p@tcp(h)/db", "parseTime", "true"))
	assert.Equal(t, "u:p@tcp(h)/db?a=1&parseTime=true", ensureParam("u:p@tcp(h)/db?a=1", "parseTime", "true"))
	assert.Equal(t, "u:p@tcp(h)/db?parseTime=false", ensureParam("u:p@tcp(h)/db?parseTime=false", "parseTime", "true"))
}

func TestSettingsCache(t *testing.T) {
	ReplaceSettings(settingsMap([]Setting{{Name: "ai_provider", Value: "mock"}}))
	t.Cleanup(func() { ReplaceSettings(nil) })
	assert.Equal(t, "mock", GetSetting("ai_provider"))
	assert.Empty(t, GetSetting("missing"))
}

func TestNewRecord(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := newRecord(AuditEntry{
		Fingerprint: "text:abc",
		Kind:        modality.KindImage,
		Verdict:     verdict.New(verdict.LabelFake, true, 0.7, "Warped edges."),
		Elapsed:     1500 * time.Millisecond,
	}, now)
	assert.Len(t, rec.ID, 36)
	assert.Equal(t, "image", rec.Kind)
	assert.Equal(t, "FAKE", rec.Label)
	assert.True(t, rec.IsFake)
	assert.Equal(t, int64(1500), rec.ElapsedMS)
	assert.Equal(t, now, rec.CreatedAt)
}

func TestAuditInsertSQL(t *testing.T) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/truthlens?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true})
	require.NoError(t, err)

	rec := newRecord(AuditEntry{Fingerprint: "video:1", Kind: modality.KindVideo, Verdict: verdict.Fallback(), ParseFault: true}, time.Now())
	stmt := db.Create(&rec).Statement
	assert.Contains(t, stmt.SQL.String(), "INSERT INTO `verdict_audit`")
}

func TestNilStoresAreNoops(t *testing.T) {
	var c *VerdictCache
	_, ok, err := c.Get(context.Background(), "text:1")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Put(context.Background(), "text:1", verdict.Fallback(), modality.Meta{}))
	assert.NoError(t, c.Close())

	var a *AuditLog
	id, err := a.Record(context.Background(), AuditEntry{})
	assert.NoError(t, err)
	assert.Empty(t, id)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "truthlens:verdict:image:00ff", cacheKey("image:00ff"))
}

func TestNewVerdictCacheRejectsBadURL(t *testing.T) {
	_, err := NewVerdictCache("not-a-redis-url", time.Minute)
	assert.Error(t, err)
}

func TestVerdictCacheRoundTripRedis(t *testing.T) {
	url := os.Getenv("TRUTHLENS_TEST_REDIS_URL")
	if url == "" {
		t.Skip("TRUTHLENS_TEST_REDIS_URL not set")
	}
	c, err := NewVerdictCache(url, time.Minute)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	key := "text:" + time.Now().Format(time.RFC3339Nano)
	v := verdict.New(verdict.LabelReal, false, 0.9, "Consistent sourcing.")
	require.NoError(t, c.Put(ctx, key, v, modality.Meta{InputLength: 42}))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, v, got.Verdict)
	assert.Equal(t, 42, got.Meta.InputLength)
}
