package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/strichliste/bootstrap/internal/bootstrap/domain"
	apperrors "github.com/strichliste/bootstrap/internal/errors"
)

// RecordFileMode keeps the secrets file readable by its owner only.
const RecordFileMode os.FileMode = 0o600

// FileRecordRepository stores the secrets record as a JSON file.
type FileRecordRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileRecordRepository creates a repository for the record at path.
func NewFileRecordRepository(path string) *FileRecordRepository {
	return &FileRecordRepository{path: path}
}

// Path returns the canonical record location.
func (r *FileRecordRepository) Path() string {
	return r.path
}

// Save replaces the stored record in full. Concurrent saves through the same
// repository are serialized; across processes the last rename wins.
func (r *FileRecordRepository) Save(ctx context.Context, record *domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record == nil {
		return apperrors.Wrap(domain.ErrInconsistentRecord, "record is nil")
	}
	if err := record.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return apperrors.Join(domain.ErrPersistence, err)
	}
	data = append(data, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := writeFileAtomic(r.path, data, RecordFileMode); err != nil {
		return apperrors.Join(domain.ErrPersistence, err)
	}

	return nil
}

// Load reads the stored record and checks its structural invariants.
func (r *FileRecordRepository) Load(ctx context.Context) (*domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	data, err := os.ReadFile(r.path)
	r.mu.Unlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, apperrors.Join(domain.ErrPersistence, err)
	}

	var record domain.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, apperrors.Join(domain.ErrInconsistentRecord, err)
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	return &record, nil
}
