package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRecord is one section row in engine_snapshots.
type SnapshotRecord struct {
	Key       string         `gorm:"primaryKey;column:key;type:varchar(32)"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:false;not null"`
}

func (SnapshotRecord) TableName() string {
	return "engine_snapshots"
}

// PostgresStore upserts every section in a single INSERT ... ON CONFLICT statement.
type PostgresStore struct {
	db  *gorm.DB
	now func() time.Time
}

var _ SnapshotStore = (*PostgresStore)(nil)

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) Save(ctx context.Context, snap *Snapshot) error {
	now := s.now().UTC()
	sections := snap.sections()
	records := make([]SnapshotRecord, 0, len(sections))
	for key, section := range sections {
		raw, err := json.Marshal(section)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		records = append(records, SnapshotRecord{Key: key, Payload: datatypes.JSON(raw), UpdatedAt: now})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Key < records[j].Key })

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&records).Error
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (*Snapshot, error) {
	var records []SnapshotRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoSnapshot
	}

	snap := &Snapshot{}
	sections := snap.sections()
	for _, r := range records {
		target, ok := sections[r.Key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(r.Payload, target); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, r.Key, err)
		}
	}
	snap.fill()
	return snap, nil
}
