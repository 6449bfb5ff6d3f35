package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"gw-transaction-view/internal/custom_err"
	"gw-transaction-view/internal/models"
	"gw-transaction-view/internal/storage"
)

// AccountRepository отдает счета пользователя: карты, IBAN и крипто-кошельки.
// Снимок счетов используется резолвером масок, поэтому возвращается целиком.
type AccountRepository interface {
	GetUserAccounts(ctx context.Context, userID uuid.UUID) ([]models.KnownAccount, error)
	Create(ctx context.Context, acc *models.KnownAccount) (*models.KnownAccount, error)
	CreateTx(ctx context.Context, tx pgx.Tx, acc *models.KnownAccount) error
}

type PgAccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) AccountRepository {
	return &PgAccountRepository{db: db}
}

func (r *PgAccountRepository) GetUserAccounts(ctx context.Context, userID uuid.UUID) ([]models.KnownAccount, error) {
	const op = "storage.GetUserAccounts"

	rows, err := r.db.Query(ctx, storage.GetUserAccountsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var accounts []models.KnownAccount
	for rows.Next() {
		var acc models.KnownAccount
		err := rows.Scan(
			&acc.ID,
			&acc.UserID,
			&acc.Kind,
			&acc.Number,
			&acc.Last4,
			&acc.CardType,
			&acc.Token,
			&acc.Network,
			&acc.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: scan error: %w", op, err)
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

func (r *PgAccountRepository) Create(ctx context.Context, acc *models.KnownAccount) (*models.KnownAccount, error) {
	const op = "storage.CreateAccount"

	var created models.KnownAccount
	err := r.db.QueryRow(
		ctx,
		storage.CreateAccountQuery,
		acc.ID, acc.UserID, acc.Kind, acc.Number, acc.Last4, acc.CardType, acc.Token, acc.Network,
	).Scan(
		&created.ID,
		&created.UserID,
		&created.Kind,
		&created.Number,
		&created.Last4,
		&created.CardType,
		&created.Token,
		&created.Network,
		&created.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, custom_err.ErrDuplicateRecord
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}
