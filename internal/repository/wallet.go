package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tobenna/vendora/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// possible wallet status. Only an active wallet can request withdrawals;
// on-hold is set administratively and blocks payouts until lifted.
const (
	WalletActiveStatus = "active"
	WalletOnHoldStatus = "on-hold"
)

type WalletRepository interface {
	GetOrCreateByUserID(userID string) (*models.Wallet, error)
	GetOne(id string) (*models.Wallet, bool, error)
	Credit(walletID string, amount decimal.Decimal) (*models.Wallet, error)
	DebitTx(tx *sqlx.Tx, walletID string, amount decimal.Decimal) (bool, error)
}

type WalletRepositoryImpl struct {
	db *sqlx.DB
}

func NewWalletRepository(db *sqlx.DB) WalletRepository {
	return &WalletRepositoryImpl{db: db}
}

// GetOrCreateByUserID returns the user's wallet, creating an empty one on
// first access. The unique index on user_id makes the insert a no-op when two
// first-access calls race; both end up reading the same row.
func (repo *WalletRepositoryImpl) GetOrCreateByUserID(userID string) (*models.Wallet, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `
		INSERT INTO wallets (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`

	_, err := repo.db.ExecContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}

	var wallet models.Wallet

	query = `
        SELECT id, user_id, balance, currency, status, created_at FROM wallets WHERE user_id=$1 AND deleted_at IS NULL`

	err = repo.db.GetContext(ctx, &wallet, query, userID)
	if err != nil {
		return nil, err
	}

	return &wallet, nil
}

func (repo *WalletRepositoryImpl) GetOne(id string) (*models.Wallet, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var wallet models.Wallet

	query := `
        SELECT id, user_id, balance, currency, status, created_at FROM wallets WHERE id=$1 AND deleted_at IS NULL`

	err := repo.db.GetContext(ctx, &wallet, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &wallet, true, nil
}

// Credit adds amount to the wallet balance and returns the updated row.
// We use a pessimistic lock so that concurrent credits on the same wallet
// serialize; credits on different wallets don't block each other.
func (repo *WalletRepositoryImpl) Credit(walletID string, amount decimal.Decimal) (*models.Wallet, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer tx.Rollback()

	var wallet models.Wallet

	query := `
		SELECT id, balance FROM wallets WHERE id=$1 AND deleted_at IS NULL FOR UPDATE`

	err = tx.GetContext(ctx, &wallet, query, walletID)
	if err != nil {
		return nil, err
	}

	query = `
		UPDATE wallets SET balance=balance+$1, updated_at=NOW() WHERE id=$2 AND deleted_at IS NULL
		RETURNING id, user_id, balance, currency, status, created_at, updated_at`

	err = tx.GetContext(ctx, &wallet, query, amount, walletID)
	if err != nil {
		return nil, err
	}

	err = tx.Commit()
	if err != nil {
		return nil, err
	}

	return &wallet, nil
}

// DebitTx reduces the wallet balance inside the caller's transaction, so the
// debit commits or rolls back together with whatever record reserved the
// funds. Returns false when the balance can't cover the amount.
func (repo *WalletRepositoryImpl) DebitTx(tx *sqlx.Tx, walletID string, amount decimal.Decimal) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var wallet models.Wallet

	query := `
		SELECT id, balance FROM wallets WHERE id=$1 AND deleted_at IS NULL FOR UPDATE`

	err := tx.GetContext(ctx, &wallet, query, walletID)
	if err != nil {
		return false, err
	}

	if wallet.Balance.LessThan(amount) {
		return false, nil
	}

	query = `
		UPDATE wallets SET balance=balance-$1, updated_at=NOW() WHERE id=$2 AND deleted_at IS NULL`

	_, err = tx.ExecContext(ctx, query, amount, walletID)
	if err != nil {
		return false, err
	}

	return true, nil
}
