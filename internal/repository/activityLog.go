// Logging is a critical part of the system
// Every action (synchronous or asynchronous) should be logged.
// This helps in audit and will also be used to trace activities.
// ...
// We used polymorphism to define entity and entity_id
// This allows the table to be used for different parts of the application
package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type ActivityRepository interface {
	Insert(log *ActivityLog) (*ActivityLog, error)
}

type ActivityLog struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Entity      string    `db:"entity"`
	EntityId    string    `db:"entity_id"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

const (
	// ActivityLogWalletEntity is used in activities that has to do with wallets and the wallets table
	ActivityLogWalletEntity = "wallet"

	// ActivityLogWithdrawalEntity is used in activities that has to do with withdrawal requests
	ActivityLogWithdrawalEntity = "withdrawal"
)

const (
	ActivityLogWalletTopupDescription = "Wallet top-up"

	ActivityLogWithdrawalRequestedDescription = "Withdrawal requested"
	ActivityLogWithdrawalApprovedDescription  = "Withdrawal approved"
	ActivityLogWithdrawalRejectedDescription  = "Withdrawal rejected"
	ActivityLogWithdrawalRefundedDescription  = "Withdrawal refunded"
)

type ActivityRepositoryImpl struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &ActivityRepositoryImpl{db: db}
}

func (repo *ActivityRepositoryImpl) Insert(log *ActivityLog) (*ActivityLog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var created ActivityLog

	query := `
		INSERT INTO activity_logs (user_id, entity, entity_id, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, entity, entity_id, description, created_at`

	err := repo.db.GetContext(ctx, &created, query,
		log.UserID,
		log.Entity,
		log.EntityId,
		log.Description,
	)

	if err != nil {
		return nil, err
	}

	return &created, nil
}
