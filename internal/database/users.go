package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"flappy-game/internal/models"
	"flappy-game/pkg/crypto"
)

const (
	referralCodeLen     = 8
	referralCodeRetries = 5
	pqUniqueViolation   = "23505"
)

// CreateUser inserts a new account. The referral code is generated here with
// a bounded retry loop: on a referral_id collision a fresh code is tried, up
// to referralCodeRetries attempts, after which ErrReferralCodeExhausted is
// returned rather than retrying forever.
func (d *Database) CreateUser(ctx context.Context, u *models.User) error {
	for attempt := 0; attempt < referralCodeRetries; attempt++ {
		code, err := crypto.RandomCode(referralCodeLen)
		if err != nil {
			return err
		}

		err = d.db.QueryRowContext(ctx, `
			INSERT INTO users (name, mobile, email, password_hash, referral_id, referred_by)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at`,
			u.Name, u.Mobile, u.Email, u.Password, code, u.ReferredBy).
			Scan(&u.ID, &u.CreatedAt)
		if err == nil {
			u.ReferralID = code
			return nil
		}

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			switch pqErr.Constraint {
			case "users_referral_id_key":
				continue
			case "users_mobile_key":
				return ErrUserExists
			}
		}
		d.log.Error("failed to create user", "mobile", u.Mobile, "err", err)
		return err
	}
	return ErrReferralCodeExhausted
}

func (d *Database) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := d.db.GetContext(ctx, &u, `
		SELECT id, name, mobile, email, password_hash, referral_id, referral_count,
		       referred_by, high_score, is_admin, is_payment_valid,
		       payment_valid_until, last_payment_date, created_at
		FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &u, nil
}

func (d *Database) GetUserByMobile(ctx context.Context, mobile string) (*models.User, error) {
	var u models.User
	err := d.db.GetContext(ctx, &u, `
		SELECT id, name, mobile, email, password_hash, referral_id, referral_count,
		       referred_by, high_score, is_admin, is_payment_valid,
		       payment_valid_until, last_payment_date, created_at
		FROM users WHERE mobile = $1`, mobile)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &u, nil
}

// GetUserByReferralID resolves a referral code to its owner, returning
// ErrInvalidReferral for unknown codes.
func (d *Database) GetUserByReferralID(ctx context.Context, referralID string) (*models.User, error) {
	var u models.User
	err := d.db.GetContext(ctx, &u, `
		SELECT id, name, mobile, email, password_hash, referral_id, referral_count,
		       referred_by, high_score, is_admin, is_payment_valid,
		       payment_valid_until, last_payment_date, created_at
		FROM users WHERE referral_id = $1`, referralID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidReferral
		}
		return nil, err
	}
	return &u, nil
}

// IncrementReferralCount credits a referrer for one signup.
func (d *Database) IncrementReferralCount(ctx context.Context, userID string) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE users SET referral_count = referral_count + 1 WHERE id = $1`, userID)
	return err
}

// GetReferrals lists the users referred by userID, newest first.
func (d *Database) GetReferrals(ctx context.Context, userID string) ([]models.Referral, error) {
	referrals := []models.Referral{}
	err := d.db.SelectContext(ctx, &referrals, `
		SELECT name, mobile, created_at
		FROM users WHERE referred_by = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return referrals, nil
}

// SetPaymentValidity updates the user's subscription window. This is the
// explicit counterpart of the payment-completion cascade: callers invoke it
// after completing a payment instead of relying on an implicit save hook.
func (d *Database) SetPaymentValidity(ctx context.Context, userID string, validUntil time.Time) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE users
		SET is_payment_valid = TRUE, last_payment_date = $2, payment_valid_until = $3
		WHERE id = $1`,
		userID, time.Now().UTC(), validUntil)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetUsersWithExpiredPayments lists accounts whose subscription lapsed.
func (d *Database) GetUsersWithExpiredPayments(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := d.db.SelectContext(ctx, &users, `
		SELECT id, name, mobile, email, password_hash, referral_id, referral_count,
		       referred_by, high_score, is_admin, is_payment_valid,
		       payment_valid_until, last_payment_date, created_at
		FROM users
		WHERE payment_valid_until < NOW() OR is_payment_valid = FALSE
		ORDER BY payment_valid_until NULLS FIRST`)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
