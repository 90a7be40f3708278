package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"flappy-game/internal/models"
)

// CreatePayment stores a newly initiated (PENDING) payment.
func (d *Database) CreatePayment(ctx context.Context, p *models.Payment) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO payments (id, user_id, amount, status, payment_method, bkash_number, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.UserID, p.Amount, p.Status, p.PaymentMethod, p.BkashNumber, p.ValidUntil)
	if err != nil {
		d.log.Error("failed to create payment", "userId", p.UserID, "err", err)
	}
	return err
}

// GetPaymentForUser fetches one payment scoped to its owner.
func (d *Database) GetPaymentForUser(ctx context.Context, userID, paymentID string) (*models.Payment, error) {
	var p models.Payment
	err := d.db.GetContext(ctx, &p, `
		SELECT id, user_id, amount, status, payment_method, transaction_id,
		       bkash_number, valid_until, notes, created_at
		FROM payments WHERE id = $1 AND user_id = $2`, paymentID, userID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &p, nil
}

// CompletePayment marks a pending payment as completed, attaching the bKash
// transaction id. The status guard keeps a completed payment from being
// replayed; the caller is responsible for the explicit follow-up call to
// SetPaymentValidity.
func (d *Database) CompletePayment(ctx context.Context, userID, paymentID, transactionID string) (*models.Payment, error) {
	var p models.Payment
	err := d.db.QueryRowContext(ctx, `
		UPDATE payments
		SET status = $4, transaction_id = $3
		WHERE id = $1 AND user_id = $2 AND status = $5
		RETURNING id, user_id, amount, status, payment_method, transaction_id,
		          bkash_number, valid_until, created_at`,
		paymentID, userID, transactionID, models.PaymentCompleted, models.PaymentPending).
		Scan(&p.ID, &p.UserID, &p.Amount, &p.Status, &p.PaymentMethod,
			&p.TransactionID, &p.BkashNumber, &p.ValidUntil, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Distinguish "no such payment" from "already completed".
			if _, lookupErr := d.GetPaymentForUser(ctx, userID, paymentID); lookupErr == nil {
				return nil, ErrPaymentCompleted
			}
			return nil, ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrTransactionIDUsed
		}
		d.log.Error("failed to complete payment", "paymentId", paymentID, "err", err)
		return nil, err
	}
	return &p, nil
}

// ListPayments returns one admin page of payments with optional status and
// date-range filters, plus the unpaged total for pagination.
func (d *Database) ListPayments(ctx context.Context, filter models.PaymentFilter, page, limit int) ([]models.Payment, int, error) {
	cond := sq.And{}
	if filter.Status != "" {
		cond = append(cond, sq.Eq{"p.status": filter.Status})
	}
	if filter.StartDate != nil {
		cond = append(cond, sq.GtOrEq{"p.created_at": *filter.StartDate})
	}
	if filter.EndDate != nil {
		cond = append(cond, sq.LtOrEq{"p.created_at": *filter.EndDate})
	}

	countQuery := d.sq.Select("COUNT(*)").From("payments p")
	if len(cond) > 0 {
		countQuery = countQuery.Where(cond)
	}
	query, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := d.db.GetContext(ctx, &total, query, args...); err != nil {
		return nil, 0, err
	}

	listQuery := d.sq.Select(
		"p.id", "p.user_id", "p.amount", "p.status", "p.payment_method",
		"p.transaction_id", "p.bkash_number", "p.valid_until", "p.notes", "p.created_at",
		"u.name AS user_name", "u.mobile AS user_mobile").
		From("payments p").
		Join("users u ON u.id = p.user_id").
		OrderBy("p.created_at DESC").
		Offset(uint64((page - 1) * limit)).
		Limit(uint64(limit))
	if len(cond) > 0 {
		listQuery = listQuery.Where(cond)
	}
	query, args, err = listQuery.ToSql()
	if err != nil {
		return nil, 0, err
	}

	payments := []models.Payment{}
	if err := d.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// GetPaymentByID is the unscoped admin lookup.
func (d *Database) GetPaymentByID(ctx context.Context, paymentID string) (*models.Payment, error) {
	var p models.Payment
	err := d.db.GetContext(ctx, &p, `
		SELECT p.id, p.user_id, p.amount, p.status, p.payment_method, p.transaction_id,
		       p.bkash_number, p.valid_until, p.notes, p.created_at,
		       u.name AS user_name, u.mobile AS user_mobile
		FROM payments p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1`, paymentID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &p, nil
}

// UpdatePaymentStatus is the manual admin override for bKash reconciliation.
func (d *Database) UpdatePaymentStatus(ctx context.Context, paymentID, status, notes string) (*models.Payment, error) {
	res, err := d.db.ExecContext(ctx, `
		UPDATE payments
		SET status = COALESCE(NULLIF($2, ''), status),
		    notes  = COALESCE(NULLIF($3, ''), notes)
		WHERE id = $1`,
		paymentID, status, notes)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return d.GetPaymentByID(ctx, paymentID)
}

// GetPaymentStats aggregates the admin revenue overview.
func (d *Database) GetPaymentStats(ctx context.Context) (*models.PaymentStats, error) {
	var stats models.PaymentStats

	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	err := d.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*) FILTER (WHERE status = $1 AND created_at >= $2),
			COUNT(*) FILTER (WHERE status = $1 AND created_at >= $3),
			COALESCE(SUM(amount) FILTER (WHERE status = $1), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = $1 AND created_at >= $3), 0)
		FROM payments`,
		models.PaymentCompleted, startOfDay, startOfMonth).Scan(
		&stats.TotalPayments, &stats.CompletedPayments, &stats.TodayPayments,
		&stats.MonthlyPayments, &stats.TotalRevenue, &stats.MonthlyRevenue)
	if err != nil {
		return nil, err
	}

	if stats.TotalPayments > 0 {
		rate := float64(stats.CompletedPayments) / float64(stats.TotalPayments) * 100
		stats.CompletionRate = fmt.Sprintf("%.2f%%", rate)
	} else {
		stats.CompletionRate = "0.00%"
	}
	return &stats, nil
}
