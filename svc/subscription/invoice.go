package subscription

import "time"

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "pending"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceFailed    InvoiceStatus = "failed"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// Valid reports whether the status is one of the known invoice states.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoicePending, InvoicePaid, InvoiceFailed, InvoiceCancelled:
		return true
	}
	return false
}

// Invoice is a billing record tied to a subscription. Payment collection
// itself happens outside this system; invoices are read for summaries and
// administered through the admin surface.
type Invoice struct {
	ID             string        `json:"id" bson:"_id"`
	UserID         string        `json:"userId" bson:"userId"`
	SubscriptionID string        `json:"subscriptionId" bson:"subscriptionId"`
	Amount         float64       `json:"amount" bson:"amount"`
	Currency       string        `json:"currency" bson:"currency"`
	Status         InvoiceStatus `json:"status" bson:"status"`
	InvoiceNumber  *string       `json:"invoiceNumber,omitempty" bson:"invoiceNumber,omitempty"`
	Description    *string       `json:"description,omitempty" bson:"description,omitempty"`
	DueDate        *time.Time    `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	PaidAt         *time.Time    `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CreatedAt      time.Time     `json:"createdAt" bson:"createdAt"`
}
