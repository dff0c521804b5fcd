package customer

import "time"

// Customer is a storefront customer. Phone is the natural unique key:
// checking out twice with the same phone updates the existing row.
type Customer struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Phone        string    `json:"phone" db:"phone"`
	Address      string    `json:"address" db:"address"`
	Neighborhood string    `json:"neighborhood" db:"neighborhood"`
	Reference    string    `json:"reference,omitempty" db:"reference"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
