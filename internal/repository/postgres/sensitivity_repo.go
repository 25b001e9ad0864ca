package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"vitalis/internal/domain"
	"vitalis/internal/port"
)

type sensitivityRepo struct {
	db *sqlx.DB
}

// NewSensitivityRepo creates a new PostgreSQL-backed SensitivityRepository.
func NewSensitivityRepo(db *sqlx.DB) port.SensitivityRepository {
	return &sensitivityRepo{db: db}
}

// Upsert inserts or refreshes findings keyed by normalized food name, so a
// re-extracted report updates severity instead of duplicating rows.
func (r *sensitivityRepo) Upsert(ctx context.Context, records []domain.SensitivityRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `INSERT INTO sensitivities
		(id, food, food_key, level, category, source, report_id, detected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (food_key) DO UPDATE SET
			food = EXCLUDED.food,
			level = EXCLUDED.level,
			category = EXCLUDED.category,
			source = EXCLUDED.source,
			report_id = EXCLUDED.report_id,
			detected_at = EXCLUDED.detected_at`

	for _, rec := range records {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		_, err := r.db.ExecContext(ctx, query,
			rec.ID, rec.Food, NormalizeFoodKey(rec.Food), rec.Level,
			rec.Category, rec.Source, rec.ReportID, rec.DetectedAt)
		if err != nil {
			return fmt.Errorf("sensitivityRepo.Upsert %q: %w", rec.Food, err)
		}
	}
	return nil
}

func (r *sensitivityRepo) List(ctx context.Context) ([]domain.SensitivityRecord, error) {
	var records []domain.SensitivityRecord
	err := r.db.SelectContext(ctx, &records,
		"SELECT id, food, level, category, source, report_id, detected_at FROM sensitivities ORDER BY level, food")
	if err != nil {
		return nil, fmt.Errorf("sensitivityRepo.List: %w", err)
	}
	return records, nil
}

// NormalizeFoodKey collapses a food name to its upsert key: lowercased with
// whitespace runs reduced to single spaces.
func NormalizeFoodKey(food string) string {
	return strings.Join(strings.Fields(strings.ToLower(food)), " ")
}
