package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalRequest tracks a seller's payout from their wallet to an external
// bank account. The reference is generated at creation, is immutable, and is
// the join key with Flutterwave's transfer record, so the webhook reconciler
// can match asynchronous outcomes back to the right row.
type WithdrawalRequest struct {
	ID                    string          `db:"id"`
	UserID                string          `db:"user_id"`
	Amount                decimal.Decimal `db:"amount"`
	BankCode              string          `db:"bank_code"`
	AccountNumber         string          `db:"account_number"`
	Reference             string          `db:"reference"`
	Status                string          `db:"status"`
	FlutterwaveTransferID sql.NullString  `db:"flutterwave_transfer_id"`
	Remarks               sql.NullString  `db:"remarks"`
	CreatedAt             time.Time       `db:"created_at"`
	UpdatedAt             sql.NullTime    `db:"updated_at"`
}
