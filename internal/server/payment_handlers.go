package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"flappy-game/internal/auth"
	"flappy-game/internal/database"
	"flappy-game/internal/models"
)

// paymentValidUntil returns the subscription expiry for a payment completed
// now: the last instant of the next calendar month.
func paymentValidUntil(now time.Time) time.Time {
	firstOfMonthAfterNext := time.Date(now.Year(), now.Month()+2, 1, 0, 0, 0, 0, now.Location())
	return firstOfMonthAfterNext.Add(-time.Millisecond)
}

// InitiatePayment opens a PENDING bKash payment and tells the user which
// merchant number to send money to.
//
// POST /api/payment/initiate
func (s *GameServer) InitiatePayment(c *gin.Context) {
	var req struct {
		BkashNumber string `json:"bkashNumber" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Validation failed", "message": "bkashNumber is required"})
		return
	}

	bkashNumber, err := auth.NormalizeMobile(req.BkashNumber)
	if err != nil {
		c.JSON(400, gin.H{"error": "Validation failed", "message": "Please provide a valid bKash number"})
		return
	}

	userID := c.GetString("userId")
	payment := &models.Payment{
		ID:            uuid.NewString(),
		UserID:        userID,
		Amount:        models.DefaultPaymentAmount,
		Status:        models.PaymentPending,
		PaymentMethod: "bKash",
		BkashNumber:   bkashNumber,
		ValidUntil:    paymentValidUntil(time.Now()),
	}

	if err := s.db.CreatePayment(c.Request.Context(), payment); err != nil {
		s.log.Error("failed to create payment", "userId", userID, "err", err)
		c.JSON(500, gin.H{"error": "Error initiating payment"})
		return
	}

	c.JSON(200, gin.H{
		"success":   true,
		"paymentId": payment.ID,
		"amount":    payment.Amount,
		"instructions": fmt.Sprintf(
			"Send %.0f TK to bKash number %s, then submit your transaction ID to verify.",
			payment.Amount, s.cfg.Payment.MerchantNumber,
		),
	})
}

// VerifyPayment records the user-reported bKash transaction ID, completes the
// payment and extends the account's validity. The validity update is a
// separate explicit step so a failure there surfaces instead of leaving the
// account silently unpaid.
//
// POST /api/payment/verify
func (s *GameServer) VerifyPayment(c *gin.Context) {
	var req struct {
		PaymentID     string `json:"paymentId" binding:"required"`
		TransactionID string `json:"transactionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Validation failed", "message": "paymentId and transactionId are required"})
		return
	}

	userID := c.GetString("userId")
	payment, err := s.db.CompletePayment(c.Request.Context(), userID, req.PaymentID, req.TransactionID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			c.JSON(404, gin.H{"error": "Payment not found"})
		case errors.Is(err, database.ErrPaymentCompleted):
			c.JSON(400, gin.H{"error": "Payment already completed"})
		case errors.Is(err, database.ErrTransactionIDUsed):
			c.JSON(400, gin.H{"error": "Transaction ID already used"})
		default:
			s.log.Error("failed to complete payment", "userId", userID, "err", err)
			c.JSON(500, gin.H{"error": "Error verifying payment"})
		}
		return
	}

	if err := s.db.SetPaymentValidity(c.Request.Context(), userID, payment.ValidUntil); err != nil {
		s.log.Error("failed to set payment validity", "userId", userID, "paymentId", payment.ID, "err", err)
		c.JSON(500, gin.H{"error": "Payment recorded but account update failed, please contact support"})
		return
	}

	_ = s.notifications.Notify(c.Request.Context(), &models.AdminNotification{
		Type:     "payment_completed",
		Priority: "low",
		Message:  fmt.Sprintf("Payment %s completed by user %s", payment.ID, userID),
	})

	c.JSON(200, gin.H{
		"success":    true,
		"message":    "Payment verified successfully",
		"validUntil": payment.ValidUntil,
	})
}

// GetPaymentStatus reports whether the caller's subscription is active.
//
// GET /api/payment/status
func (s *GameServer) GetPaymentStatus(c *gin.Context) {
	user, err := s.db.GetUserByID(c.Request.Context(), c.GetString("userId"))
	if err != nil {
		s.log.Error("failed to fetch payment status", "err", err)
		c.JSON(500, gin.H{"error": "Error fetching payment status"})
		return
	}

	valid := user.IsPaymentValid
	if valid && user.PaymentValidUntil != nil && user.PaymentValidUntil.Before(time.Now()) {
		valid = false
	}

	c.JSON(200, gin.H{
		"success":           true,
		"isPaymentValid":    valid,
		"paymentValidUntil": user.PaymentValidUntil,
		"lastPaymentDate":   user.LastPaymentDate,
	})
}
