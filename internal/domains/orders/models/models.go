package models

import (
	"github.com/sangkips/records-service/internal/db"
)

type Order struct {
	ID         int64
	CustomerID int64
	ServiceID  int64
	OrderDate  db.Date
}

// OrderRow is an order joined with the names shown in the listing.
type OrderRow struct {
	ID           int64
	CustomerID   int64
	CustomerName string
	ServiceID    int64
	ServiceName  string
	OrderDate    db.Date
}

type CustomerOption struct {
	ID   int64
	Name string
}

type ServiceOption struct {
	ID          int64
	ServiceName string
}
