package database

import (
	"errors"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// Sentinel errors surfaced by the storage layer. The HTTP layer maps them to
// status codes; nothing here writes responses.
var (
	ErrNotFound              = errors.New("record not found")
	ErrNoActiveSession       = errors.New("active session not found")
	ErrUserExists            = errors.New("user with this mobile number already exists")
	ErrInvalidReferral       = errors.New("invalid referral code")
	ErrReferralCodeExhausted = errors.New("could not generate a unique referral code")
	ErrPaymentCompleted      = errors.New("payment already completed")
	ErrTransactionIDUsed     = errors.New("transaction id already used")
)

type Database struct {
	db  *sqlx.DB
	sq  sq.StatementBuilderType
	log *slog.Logger
}

// New connects to postgres and verifies the connection. The caller owns the
// lifecycle: construct once at startup, Close on shutdown.
func New(connStr string, log *slog.Logger) (*Database, error) {
	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, err
	}

	return &Database{
		db:  db,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		log: log,
	}, nil
}

// Migrate applies pending goose migrations from dir.
func (d *Database) Migrate(dir string) error {
	return goose.Up(d.db.DB, dir)
}

func (d *Database) Close() error {
	return d.db.Close()
}
