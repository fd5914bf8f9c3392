package models

import (
	"time"

	"github.com/ruralpay/ledgersim/internal/validation"
)

// Customer represents a bank customer
type Customer struct {
	CustomerID string    `json:"customer_id" validate:"required"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	Email      string    `json:"email" validate:"required,contains=@"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewCustomer builds a validated customer; CreatedAt is fixed here and never reassigned.
func NewCustomer(id, name, address, email, phone string, now time.Time) (*Customer, error) {
	c := &Customer{
		CustomerID: id,
		Name:       name,
		Address:    address,
		Email:      email,
		Phone:      phone,
		CreatedAt:  now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Customer) Validate() error {
	return validation.Default.Check(c)
}
