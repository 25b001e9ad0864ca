package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"vitalis/internal/domain"
	"vitalis/internal/port"
)

type biomarkerRepo struct {
	db *sqlx.DB
}

// NewBiomarkerRepo creates a new PostgreSQL-backed BiomarkerRepository.
func NewBiomarkerRepo(db *sqlx.DB) port.BiomarkerRepository {
	return &biomarkerRepo{db: db}
}

// InsertBatch appends measurements to the biomarker time series.
func (r *biomarkerRepo) InsertBatch(ctx context.Context, records []domain.BiomarkerRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `INSERT INTO biomarkers
		(id, name, value, unit, status, source, report_id, detected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, rec := range records {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		_, err := r.db.ExecContext(ctx, query,
			rec.ID, rec.Name, rec.Value, rec.Unit, rec.Status,
			rec.Source, rec.ReportID, rec.DetectedAt)
		if err != nil {
			return fmt.Errorf("biomarkerRepo.InsertBatch %q: %w", rec.Name, err)
		}
	}
	return nil
}

func (r *biomarkerRepo) List(ctx context.Context) ([]domain.BiomarkerRecord, error) {
	var records []domain.BiomarkerRecord
	err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM biomarkers ORDER BY detected_at DESC, name")
	if err != nil {
		return nil, fmt.Errorf("biomarkerRepo.List: %w", err)
	}
	return records, nil
}

func (r *biomarkerRepo) ListByName(ctx context.Context, name string) ([]domain.BiomarkerRecord, error) {
	var records []domain.BiomarkerRecord
	err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM biomarkers WHERE LOWER(name) = LOWER($1) ORDER BY detected_at", name)
	if err != nil {
		return nil, fmt.Errorf("biomarkerRepo.ListByName: %w", err)
	}
	return records, nil
}
