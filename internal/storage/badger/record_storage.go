package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// RecordStorage implements the RecordStorage interface for Badger.
// Records are write-once: there is deliberately no update or delete.
type RecordStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewRecordStorage creates a new RecordStorage instance
func NewRecordStorage(db *BadgerDB, logger arbor.ILogger) interfaces.RecordStorage {
	return &RecordStorage{
		db:     db,
		logger: logger,
	}
}

// CreateRecord writes one immutable final-submission record
func (s *RecordStorage) CreateRecord(ctx context.Context, record *models.ProfileRecord) error {
	if record.ID == "" {
		return fmt.Errorf("record ID is required")
	}

	record.CreatedAt = time.Now().UTC()

	if err := s.db.Store().Insert(record.ID, record); err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	s.logger.Debug().Str("record_id", record.ID).Msg("Record created")
	return nil
}

// GetRecord retrieves a record by ID
func (s *RecordStorage) GetRecord(ctx context.Context, recordID string) (*models.ProfileRecord, error) {
	var record models.ProfileRecord
	if err := s.db.Store().Get(recordID, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return &record, nil
}

// CountRecords returns the total number of records
func (s *RecordStorage) CountRecords(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.ProfileRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return int(count), nil
}
