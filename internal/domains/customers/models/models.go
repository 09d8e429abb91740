package models

import (
	"database/sql"

	"github.com/sangkips/records-service/internal/db"
)

type Customer struct {
	ID          int64
	Name        string
	DateOfBirth db.Date
	PhoneNumber string
	Email       sql.NullString
	Company     sql.NullString
}
