package server

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"flappy-game/internal/database"
	"flappy-game/internal/models"
)

// AdminListPayments returns a filtered, paginated payment listing.
//
// GET /api/payment/admin/payments
func (s *GameServer) AdminListPayments(c *gin.Context) {
	filter := models.PaymentFilter{Status: c.Query("status")}

	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid startDate, expected YYYY-MM-DD"})
			return
		}
		filter.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid endDate, expected YYYY-MM-DD"})
			return
		}
		// Inclusive end of day.
		t = t.Add(24*time.Hour - time.Millisecond)
		filter.EndDate = &t
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	payments, total, err := s.db.ListPayments(c.Request.Context(), filter, page, limit)
	if err != nil {
		s.log.Error("failed to list payments", "err", err)
		c.JSON(500, gin.H{"error": "Error fetching payments"})
		return
	}

	c.JSON(200, gin.H{
		"success":  true,
		"payments": payments,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + limit - 1) / limit,
		},
	})
}

// AdminGetPayment returns one payment with user details.
//
// GET /api/payment/admin/payments/:paymentId
func (s *GameServer) AdminGetPayment(c *gin.Context) {
	payment, err := s.db.GetPaymentByID(c.Request.Context(), c.Param("paymentId"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(404, gin.H{"error": "Payment not found"})
			return
		}
		s.log.Error("failed to fetch payment", "err", err)
		c.JSON(500, gin.H{"error": "Error fetching payment"})
		return
	}
	c.JSON(200, gin.H{"success": true, "payment": payment})
}

// AdminUpdatePayment manually changes a payment's status. Marking a payment
// COMPLETED also extends the owner's validity, same as self-service
// verification.
//
// PATCH /api/payment/admin/payments/:paymentId
func (s *GameServer) AdminUpdatePayment(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Validation failed", "message": "status is required"})
		return
	}

	switch req.Status {
	case models.PaymentPending, models.PaymentCompleted, models.PaymentFailed:
	default:
		c.JSON(400, gin.H{"error": "Invalid status", "message": "status must be PENDING, COMPLETED or FAILED"})
		return
	}

	payment, err := s.db.UpdatePaymentStatus(c.Request.Context(), c.Param("paymentId"), req.Status, req.Notes)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(404, gin.H{"error": "Payment not found"})
			return
		}
		s.log.Error("failed to update payment", "err", err)
		c.JSON(500, gin.H{"error": "Error updating payment"})
		return
	}

	if req.Status == models.PaymentCompleted {
		if err := s.db.SetPaymentValidity(c.Request.Context(), payment.UserID, payment.ValidUntil); err != nil {
			s.log.Error("failed to set payment validity", "userId", payment.UserID, "err", err)
			c.JSON(500, gin.H{"error": "Payment updated but account update failed"})
			return
		}
	}

	c.JSON(200, gin.H{"success": true, "payment": payment})
}

// AdminPaymentStats returns the revenue overview.
//
// GET /api/payment/admin/statistics
func (s *GameServer) AdminPaymentStats(c *gin.Context) {
	stats, err := s.db.GetPaymentStats(c.Request.Context())
	if err != nil {
		s.log.Error("failed to fetch payment stats", "err", err)
		c.JSON(500, gin.H{"error": "Error fetching statistics"})
		return
	}
	c.JSON(200, gin.H{"success": true, "statistics": stats})
}

// AdminExpiredPayments lists users whose subscription has lapsed.
//
// GET /api/payment/admin/expired-payments
func (s *GameServer) AdminExpiredPayments(c *gin.Context) {
	users, err := s.db.GetUsersWithExpiredPayments(c.Request.Context())
	if err != nil {
		s.log.Error("failed to fetch expired payments", "err", err)
		c.JSON(500, gin.H{"error": "Error fetching expired payments"})
		return
	}
	c.JSON(200, gin.H{"success": true, "count": len(users), "users": users})
}

// AdminNotifications returns recent operator notifications.
//
// GET /api/payment/admin/notifications
func (s *GameServer) AdminNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	notifs, err := s.db.GetAdminNotifications(c.Request.Context(), limit)
	if err != nil {
		s.log.Error("failed to fetch notifications", "err", err)
		c.JSON(500, gin.H{"error": "Error fetching notifications"})
		return
	}
	c.JSON(200, gin.H{"success": true, "notifications": notifs})
}

// AdminMarkNotificationRead acknowledges a notification.
//
// PATCH /api/payment/admin/notifications/:id
func (s *GameServer) AdminMarkNotificationRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid notification id"})
		return
	}

	if err := s.db.MarkNotificationRead(c.Request.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(404, gin.H{"error": "Notification not found"})
			return
		}
		s.log.Error("failed to mark notification read", "err", err)
		c.JSON(500, gin.H{"error": "Error updating notification"})
		return
	}
	c.JSON(200, gin.H{"success": true})
}
