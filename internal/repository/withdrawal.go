package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tobenna/vendora/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// possible withdrawal request status
// pending is the initial state; approved and rejected are terminal,
// a request transitions exactly once.
const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusRejected = "rejected"
)

type WithdrawalRepository interface {
	Insert(withdrawal *models.WithdrawalRequest, tx *sqlx.Tx) (*models.WithdrawalRequest, error)
	FindByReference(reference string) (*models.WithdrawalRequest, bool, error)
	SettleIfPending(reference, status, transferID, remarks string) (bool, error)
	GetAllByUserID(userID string, limit, offset int) ([]models.WithdrawalRequest, error)
}

type WithdrawalRepositoryImpl struct {
	db *sqlx.DB
}

func NewWithdrawalRepository(db *sqlx.DB) WithdrawalRepository {
	return &WithdrawalRepositoryImpl{db: db}
}

func (repo *WithdrawalRepositoryImpl) Insert(withdrawal *models.WithdrawalRequest, tx *sqlx.Tx) (*models.WithdrawalRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var created models.WithdrawalRequest

	query := `
		INSERT INTO withdrawal_requests (user_id, amount, bank_code, account_number, reference)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, amount, bank_code, account_number, reference, status, created_at`

	if tx != nil {
		err := tx.GetContext(ctx, &created, query,
			withdrawal.UserID,
			withdrawal.Amount,
			withdrawal.BankCode,
			withdrawal.AccountNumber,
			withdrawal.Reference,
		)
		if err != nil {
			return nil, err
		}
	} else {
		err := repo.db.GetContext(ctx, &created, query,
			withdrawal.UserID,
			withdrawal.Amount,
			withdrawal.BankCode,
			withdrawal.AccountNumber,
			withdrawal.Reference,
		)
		if err != nil {
			return nil, err
		}
	}

	return &created, nil
}

func (repo *WithdrawalRepositoryImpl) FindByReference(reference string) (*models.WithdrawalRequest, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var withdrawal models.WithdrawalRequest

	query := `
        SELECT id, user_id, amount, bank_code, account_number, reference, status, flutterwave_transfer_id, remarks, created_at, updated_at
        FROM withdrawal_requests WHERE reference=$1`

	err := repo.db.GetContext(ctx, &withdrawal, query, reference)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &withdrawal, true, nil
}

// SettleIfPending moves a request from pending to the given terminal status.
// The status guard in the WHERE clause is what makes reconciliation safe
// under duplicate webhook deliveries: when two callbacks for the same
// reference race, only one update matches a pending row, the other affects
// zero rows and reports settled=false. The transfer id is only recorded when
// not already set, an existing value is never overwritten.
//
// A rejection also returns the reserved amount to the owner's wallet. The
// credit commits in the same transaction as the status flip: the refund can
// neither be lost when a downstream event drops, nor applied twice when one
// is redelivered.
func (repo *WithdrawalRepositoryImpl) SettleIfPending(reference, status, transferID, remarks string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}

	defer tx.Rollback()

	var settled struct {
		UserID string          `db:"user_id"`
		Amount decimal.Decimal `db:"amount"`
	}

	query := `
		UPDATE withdrawal_requests
		SET status=$1,
		    flutterwave_transfer_id=COALESCE(flutterwave_transfer_id, NULLIF($2, '')),
		    remarks=$3,
		    updated_at=NOW()
		WHERE reference=$4 AND status=$5
		RETURNING user_id, amount`

	err = tx.GetContext(ctx, &settled, query, status, transferID, remarks, reference, WithdrawalStatusPending)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	if status == WithdrawalStatusRejected {
		query = `
			UPDATE wallets SET balance=balance+$1, updated_at=NOW()
			WHERE user_id=$2 AND deleted_at IS NULL`

		_, err = tx.ExecContext(ctx, query, settled.Amount, settled.UserID)
		if err != nil {
			return false, err
		}
	}

	err = tx.Commit()
	if err != nil {
		return false, err
	}

	return true, nil
}

func (repo *WithdrawalRepositoryImpl) GetAllByUserID(userID string, limit, offset int) ([]models.WithdrawalRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var withdrawals []models.WithdrawalRequest

	query := `
        SELECT id, user_id, amount, bank_code, account_number, reference, status, flutterwave_transfer_id, remarks, created_at, updated_at
        FROM withdrawal_requests WHERE user_id=$1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	err := repo.db.SelectContext(ctx, &withdrawals, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return withdrawals, nil
}
