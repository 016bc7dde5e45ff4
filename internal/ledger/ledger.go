// Package ledger owns the spendable balance of a user's wallet. Every
// mutation goes through the wallet repository's transactional credit/debit
// queries, so balances can never drift under concurrent requests and can
// never go negative.
package ledger

import (
	"errors"

	"github.com/tobenna/vendora/internal/models"
	"github.com/tobenna/vendora/internal/repository"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

type Ledger struct {
	walletRepo repository.WalletRepository
}

func New(walletRepo repository.WalletRepository) *Ledger {
	return &Ledger{
		walletRepo: walletRepo,
	}
}

// Balance returns the user's wallet, creating an empty one on first access.
// The read always comes from the committed row, never a cache, so a caller
// that just topped up sees the new balance.
func (l *Ledger) Balance(userID string) (*models.Wallet, error) {
	return l.walletRepo.GetOrCreateByUserID(userID)
}

// TopUp credits the user's wallet with amount and returns the updated wallet.
// The credit is a single locked read-modify-write, so concurrent top-ups on
// the same wallet serialize instead of losing updates. A persistence failure
// leaves the balance unchanged.
func (l *Ledger) TopUp(userID string, amount decimal.Decimal) (*models.Wallet, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	wallet, err := l.walletRepo.GetOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	return l.walletRepo.Credit(wallet.ID, amount)
}
