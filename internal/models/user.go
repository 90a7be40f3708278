package models

import "time"

// User is an account. Password never leaves the server.
type User struct {
	ID                string     `json:"id" db:"id"`
	Name              string     `json:"name" db:"name"`
	Mobile            string     `json:"mobile" db:"mobile"`
	Email             *string    `json:"email,omitempty" db:"email"`
	Password          string     `json:"-" db:"password_hash"`
	ReferralID        string     `json:"referralId" db:"referral_id"`
	ReferralCount     int        `json:"referralCount" db:"referral_count"`
	ReferredBy        *string    `json:"referredBy,omitempty" db:"referred_by"`
	HighScore         int        `json:"highScore" db:"high_score"`
	IsAdmin           bool       `json:"-" db:"is_admin"`
	IsPaymentValid    bool       `json:"isPaymentValid" db:"is_payment_valid"`
	PaymentValidUntil *time.Time `json:"paymentValidUntil,omitempty" db:"payment_valid_until"`
	LastPaymentDate   *time.Time `json:"lastPaymentDate,omitempty" db:"last_payment_date"`
	CreatedAt         time.Time  `json:"createdAt" db:"created_at"`
}

// Referral is one user brought in through a referral link.
type Referral struct {
	Name     string    `json:"name" db:"name"`
	Mobile   string    `json:"mobile" db:"mobile"`
	JoinedAt time.Time `json:"joinedAt" db:"created_at"`
}
