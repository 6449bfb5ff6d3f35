package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gw-transaction-view/internal/custom_err"
	"gw-transaction-view/internal/models"
	"gw-transaction-view/internal/storage"
)

// RecordRepository хранит сырые записи транзакций как jsonb. Неизвестные
// поля апстрима сохраняются и игнорируются при разборе, а не отбрасываются.
type RecordRepository interface {
	GetByID(ctx context.Context, userID uuid.UUID, recordID string) (*models.RawRecord, error)
	GetUserRecords(ctx context.Context, userID uuid.UUID, from, to time.Time, limit, offset int) ([]models.RawRecord, error)
	CountUserRecords(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error)
	Upsert(ctx context.Context, userID uuid.UUID, raw *models.RawRecord) error
}

type PgRecordRepository struct {
	db *pgxpool.Pool
}

func NewRecordRepository(db *pgxpool.Pool) RecordRepository {
	return &PgRecordRepository{db: db}
}

func (r *PgRecordRepository) GetByID(ctx context.Context, userID uuid.UUID, recordID string) (*models.RawRecord, error) {
	const op = "storage.GetRecordByID"

	var payload []byte
	err := r.db.QueryRow(ctx, storage.GetRecordByIDQuery, recordID, userID).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var raw models.RawRecord
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%s: unmarshal payload: %w", op, err)
	}
	return &raw, nil
}

func (r *PgRecordRepository) GetUserRecords(ctx context.Context, userID uuid.UUID, from, to time.Time, limit, offset int) ([]models.RawRecord, error) {
	const op = "storage.GetUserRecords"

	rows, err := r.db.Query(ctx, storage.GetUserRecordsQuery, userID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var records []models.RawRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("%s: scan error: %w", op, err)
		}
		var raw models.RawRecord
		if err := json.Unmarshal(payload, &raw); err != nil {
			return nil, fmt.Errorf("%s: unmarshal payload: %w", op, err)
		}
		records = append(records, raw)
	}
	return records, rows.Err()
}

func (r *PgRecordRepository) CountUserRecords(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error) {
	const op = "storage.CountUserRecords"

	var count int
	err := r.db.QueryRow(ctx, storage.CountUserRecordsQuery, userID, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

func (r *PgRecordRepository) Upsert(ctx context.Context, userID uuid.UUID, raw *models.RawRecord) error {
	const op = "storage.UpsertRecord"

	payload, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%s: marshal payload: %w", op, err)
	}

	_, err = r.db.Exec(ctx, storage.UpsertRecordQuery, raw.ID, userID, payload, raw.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
