package models

import "time"

// Payment statuses.
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
)

// DefaultPaymentAmount is the subscription price in BDT.
const DefaultPaymentAmount = 10.0

// Payment is one manual bKash payment attempt. TransactionID stays nil until
// the user reports the bKash transaction and the payment is completed.
type Payment struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"userId" db:"user_id"`
	Amount        float64   `json:"amount" db:"amount"`
	Status        string    `json:"status" db:"status"`
	PaymentMethod string    `json:"paymentMethod" db:"payment_method"`
	TransactionID *string   `json:"transactionId,omitempty" db:"transaction_id"`
	BkashNumber   string    `json:"bkashNumber" db:"bkash_number"`
	ValidUntil    time.Time `json:"validUntil" db:"valid_until"`
	Notes         *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UserName      *string   `json:"userName,omitempty" db:"user_name"`
	UserMobile    *string   `json:"userMobile,omitempty" db:"user_mobile"`
}

// PaymentStats is the admin revenue overview.
type PaymentStats struct {
	TotalPayments     int     `json:"totalPayments"`
	CompletedPayments int     `json:"completedPayments"`
	TodayPayments     int     `json:"todayPayments"`
	MonthlyPayments   int     `json:"monthlyPayments"`
	TotalRevenue      float64 `json:"totalRevenue"`
	MonthlyRevenue    float64 `json:"monthlyRevenue"`
	CompletionRate    string  `json:"completionRate"`
}

// PaymentFilter narrows the admin payment listing.
type PaymentFilter struct {
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}
