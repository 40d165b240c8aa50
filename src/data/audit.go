package data

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stake-plus/truthlens/src/modality"
	"github.com/stake-plus/truthlens/src/verdict"
)

// VerdictRecord is one completed verification in the audit table. Raw input
// content is never stored, only its fingerprint.
type VerdictRecord struct {
	ID          string `gorm:"primaryKey;size:36"`
	Kind        string `gorm:"size:16;index;not null"`
	Fingerprint string `gorm:"size:64;index;not null"`
	Label       string `gorm:"size:16;not null"`
	IsFake      bool   `gorm:"not null"`
	Confidence  float64
	Rationale   string `gorm:"type:text"`
	ParseFault  bool   `gorm:"not null"`
	Cached      bool   `gorm:"not null"`
	Source      string `gorm:"size:2048"`
	ElapsedMS   int64
	CreatedAt   time.Time `gorm:"index"`
}

func (VerdictRecord) TableName() string { return "verdict_audit" }

// AuditEntry is what callers hand to AuditLog.Record.
type AuditEntry struct {
	Fingerprint string
	Kind        modality.Kind
	Verdict     verdict.Verdict
	ParseFault  bool
	Cached      bool
	Source      string
	Elapsed     time.Duration
}

// AuditLog persists verification outcomes. A nil *AuditLog records nothing.
type AuditLog struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAuditLog migrates the audit table and returns a log bound to db.
func NewAuditLog(db *gorm.DB, logger *zap.Logger) (*AuditLog, error) {
	if err := db.AutoMigrate(&VerdictRecord{}); err != nil {
		return nil, err
	}
	return &AuditLog{db: db, logger: logger}, nil
}

// Record inserts one row and returns its id.
func (a *AuditLog) Record(ctx context.Context, e AuditEntry) (string, error) {
	if a == nil {
		return "", nil
	}
	rec := newRecord(e, time.Now())
	if err := a.db.WithContext(ctx).Create(&rec).Error; err != nil {
		a.logger.Warn("audit insert failed", zap.String("kind", rec.Kind), zap.Error(err))
		return "", err
	}
	return rec.ID, nil
}

// Recent returns the newest records, newest first.
func (a *AuditLog) Recent(ctx context.Context, limit int) ([]VerdictRecord, error) {
	if a == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var out []VerdictRecord
	err := a.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

func newRecord(e AuditEntry, now time.Time) VerdictRecord {
	return VerdictRecord{
		ID:          uuid.NewString(),
		Kind:        e.Kind.String(),
		Fingerprint: e.Fingerprint,
		Label:       string(e.Verdict.Label),
		IsFake:      e.Verdict.IsFake,
		Confidence:  e.Verdict.Confidence,
		Rationale:   e.Verdict.Rationale,
		ParseFault:  e.ParseFault,
		Cached:      e.Cached,
		Source:      e.Source,
		ElapsedMS:   e.Elapsed.Milliseconds(),
		CreatedAt:   now.UTC(),
	}
}
