package domain

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// CustomerInfo is the payment and contact metadata attached to an order when
// the customer confirms payment intent. There is at most one per order.
type CustomerInfo struct {
	CustomerID    CustomerID
	OrderID       OrderID
	Name          string
	Email         string
	Phone         string
	AddressLine   string
	City          string
	PostalCode    string
	Country       string
	PaymentMethod string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (c CustomerInfo) Validate() error {
	if c.OrderID == "" || c.CustomerID == "" {
		return invalidArgument("customer info requires order and customer ids")
	}

	if strings.TrimSpace(c.Name) == "" {
		return invalidArgument("customer name must not be blank")
	}

	if err := validate.Var(c.Email, "required,email"); err != nil {
		return invalidArgument("email %q is not valid", c.Email)
	}

	if strings.TrimSpace(c.PaymentMethod) == "" {
		return invalidArgument("payment method must not be blank")
	}

	return nil
}

func (c CustomerInfo) SameOrder(other CustomerInfo) bool {
	return c.OrderID == other.OrderID
}
