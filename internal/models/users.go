package models

import (
	"database/sql"
	"time"
)

// User rows are created by the marketplace's account service; this core only
// reads them to resolve authenticated callers and to address alert emails.
type User struct {
	ID          string       `db:"id"`
	FirstName   string       `db:"first_name"`
	LastName    string       `db:"last_name"`
	PhoneNumber string       `db:"phone_number"`
	Email       string       `db:"email"`
	Status      string       `db:"status"`
	CreatedAt   time.Time    `db:"created_at"`
	DeletedAt   sql.NullTime `db:"deleted_at"`
}
