package models

import "time"

type PaymentStatus string
type OrderStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentReceived PaymentStatus = "received"
	PaymentRefunded PaymentStatus = "refunded"
)

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Order captures a placed order. ProductName and TotalAmount are snapshots
// taken at creation time so later catalog edits never alter historical
// records. Optional text fields are pointers and normalized to nil when the
// customer leaves them blank.
type Order struct {
	ID               int           `db:"id" json:"id"`
	CustomerName     string        `db:"customer_name" json:"customer_name"`
	CustomerPhone    string        `db:"customer_phone" json:"customer_phone"`
	CustomerEmail    *string       `db:"customer_email" json:"customer_email"`
	ProductID        int           `db:"product_id" json:"product_id"`
	ProductName      string        `db:"product_name" json:"product_name"`
	Quantity         int           `db:"quantity" json:"quantity"`
	TotalAmount      int           `db:"total_amount" json:"total_amount"`
	PaymentMethod    string        `db:"payment_method" json:"payment_method"`
	CustomerAddress  *string       `db:"customer_address" json:"customer_address"`
	Notes            *string       `db:"notes" json:"notes"`
	UPITransactionID *string       `db:"upi_transaction_id" json:"upi_transaction_id"`
	PaymentStatus    PaymentStatus `db:"payment_status" json:"payment_status"`
	OrderStatus      OrderStatus   `db:"order_status" json:"order_status"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updated_at"`
}

// OrderPatch is a partial admin update. Only these three fields are ever
// honored; nil means "leave unchanged".
type OrderPatch struct {
	PaymentStatus *string `json:"payment_status"`
	OrderStatus   *string `json:"order_status"`
	Notes         *string `json:"notes"`
}

// IsEmpty reports whether the patch carries no changes.
func (p *OrderPatch) IsEmpty() bool {
	return p.PaymentStatus == nil && p.OrderStatus == nil && p.Notes == nil
}
