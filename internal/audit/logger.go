package audit

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/reservas-api/internal/models"
)

// Logger writes events to the audit_logs table.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Record(ctx context.Context, ev Event) error {
	row := models.AuditLog{
		LocationID: ev.LocationID,
		UserID:     ev.UserID,
		Action:     ev.Action,
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
		Metadata:   encodeMetadata(ev.Metadata),
		CreatedAt:  ev.OccurredAt,
	}

	return l.db.WithContext(ctx).Create(&row).Error
}

func encodeMetadata(metadata any) string {
	if metadata == nil {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}

// ===============================
// Query
// ===============================

// Filter scopes a listing. With OwnerID set it covers the owner's own
// events plus everything recorded for their locations; otherwise only
// UserID's events.
type Filter struct {
	OwnerID uint
	UserID  uint

	Action string
	Entity string
	From   *time.Time
	To     *time.Time

	Limit  int
	Offset int
}

// List returns one page, newest first, and the total for the filter.
func (l *Logger) List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error) {
	q := l.db.WithContext(ctx).Model(&models.AuditLog{})

	if f.OwnerID != 0 {
		q = q.Where(
			"user_id = ? OR location_id IN (?)",
			f.OwnerID,
			l.db.Model(&models.Location{}).Select("id").Where("owner_id = ?", f.OwnerID),
		)
	} else {
		q = q.Where("user_id = ?", f.UserID)
	}

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
