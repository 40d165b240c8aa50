// Smoke test for the verdict cache and audit log against live stores.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stake-plus/truthlens/src/data"
	"github.com/stake-plus/truthlens/src/modality"
	"github.com/stake-plus/truthlens/src/verdict"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	fp := modality.Fingerprint(modality.Text{Body: "storage smoke " + uuid.NewString()})
	v := verdict.New(verdict.LabelReal, false, 0.8, "storage smoke test")

	if url := os.Getenv("REDIS_URL"); url != "" {
		cache, err := data.NewVerdictCache(url, time.Minute)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer cache.Close()

		if err := cache.Put(ctx, fp, v, modality.Meta{InputLength: 42}); err != nil {
			log.Fatalf("cache put: %v", err)
		}
		got, ok, err := cache.Get(ctx, fp)
		if err != nil || !ok {
			log.Fatalf("cache get: ok=%v err=%v", ok, err)
		}
		log.Printf("cache: %s -> %s %.2f (stored %s)", fp, got.Verdict.Label, got.Verdict.Confidence, got.StoredAt.Format(time.RFC3339))
	} else {
		log.Printf("REDIS_URL not set, skipping cache")
	}

	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		db, err := data.ConnectMySQL(dsn, logger)
		if err != nil {
			log.Fatalf("mysql: %v", err)
		}
		audit, err := data.NewAuditLog(db, logger)
		if err != nil {
			log.Fatalf("audit: %v", err)
		}
		id, err := audit.Record(ctx, data.AuditEntry{Fingerprint: fp, Kind: modality.KindText, Verdict: v})
		if err != nil {
			log.Fatalf("audit record: %v", err)
		}
		recent, err := audit.Recent(ctx, 5)
		if err != nil {
			log.Fatalf("audit recent: %v", err)
		}
		found := false
		for _, r := range recent {
			log.Printf("audit: %s %s %s %.2f", r.ID, r.Kind, r.Label, r.Confidence)
			found = found || r.ID == id
		}
		if !found {
			log.Fatalf("audit: record %s not among recent rows", id)
		}
	} else {
		log.Printf("MYSQL_DSN not set, skipping audit log")
	}

	log.Printf("✓ storage checks passed")
}
