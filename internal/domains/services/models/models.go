package models

import (
	"database/sql"
)

type Service struct {
	ID          int64
	ServiceName string
	Description sql.NullString
	Price       float64
}
