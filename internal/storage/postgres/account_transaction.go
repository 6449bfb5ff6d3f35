package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"gw-transaction-view/internal/custom_err"
	"gw-transaction-view/internal/models"
	"gw-transaction-view/internal/storage"
)

func (r *PgAccountRepository) CreateTx(ctx context.Context, tx pgx.Tx, acc *models.KnownAccount) error {
	const op = "storage.CreateAccountTx"

	err := tx.QueryRow(
		ctx,
		storage.CreateAccountQuery,
		acc.ID, acc.UserID, acc.Kind, acc.Number, acc.Last4, acc.CardType, acc.Token, acc.Network,
	).Scan(
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
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return custom_err.ErrDuplicateRecord
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
