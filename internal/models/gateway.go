package models

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/brainfuel/backend/internal/config"
	"gorm.io/gorm"
)

// ErrTxClosed is returned when Close is called on a transaction-scoped gateway.
var ErrTxClosed = errors.New("cannot close a transaction-scoped gateway")

// DatabaseError wraps a driver failure with the gateway operation that hit it.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return "database " + e.Op + ": " + e.Err.Error()
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// IsUniqueViolation reports whether err is a unique-constraint failure.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}

// IsForeignKeyViolation reports whether err is a foreign-key failure.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") || strings.Contains(msg, "a foreign key constraint fails")
}

// ExecResult is the outcome of a mutating statement.
type ExecResult struct {
	LastInsertID int64
	RowsChanged  int64
}

// Opener opens a database handle. OpenDB is the production opener.
type Opener func() (*gorm.DB, error)

// Gateway is the single data-access handle shared by the services. The
// connection is opened lazily on first use; Close releases it and the next
// call re-opens it.
//
// Execute sends the statement to the driver as written, so it does not expand
// slice arguments. QueryOne and QueryMany go through gorm and do.
type Gateway struct {
	mu   sync.Mutex
	open Opener
	db   *gorm.DB
	tx   bool
}

func NewGateway(cfg *config.DatabaseConfig) *Gateway {
	return NewGatewayWithOpener(func() (*gorm.DB, error) {
		return OpenDB(cfg)
	})
}

func NewGatewayWithOpener(open Opener) *Gateway {
	return &Gateway{open: open}
}

func (g *Gateway) conn() (*gorm.DB, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db != nil {
		return g.db, nil
	}
	if g.tx {
		return nil, &DatabaseError{Op: "open", Err: ErrTxClosed}
	}

	db, err := g.open()
	if err != nil {
		return nil, &DatabaseError{Op: "open", Err: err}
	}
	g.db = db
	return db, nil
}

// DB returns the underlying gorm handle, opening it if needed.
func (g *Gateway) DB() (*gorm.DB, error) {
	return g.conn()
}

// Execute runs a mutating statement.
func (g *Gateway) Execute(ctx context.Context, query string, args ...interface{}) (ExecResult, error) {
	db, err := g.conn()
	if err != nil {
		return ExecResult{}, err
	}

	res, err := db.Statement.ConnPool.ExecContext(ctx, query, args...)
	if err != nil {
		return ExecResult{}, &DatabaseError{Op: "execute", Err: err}
	}

	var out ExecResult
	// Drivers without insert ids (or without row counts) leave the field zero
	out.LastInsertID, _ = res.LastInsertId()
	out.RowsChanged, _ = res.RowsAffected()
	return out, nil
}

// QueryOne scans at most one row into dest and reports whether a row matched.
func (g *Gateway) QueryOne(ctx context.Context, dest interface{}, query string, args ...interface{}) (bool, error) {
	db, err := g.conn()
	if err != nil {
		return false, err
	}

	res := db.WithContext(ctx).Raw(query, args...).Scan(dest)
	if res.Error != nil {
		return false, &DatabaseError{Op: "query", Err: res.Error}
	}
	return res.RowsAffected > 0, nil
}

// QueryMany scans every row into dest, a pointer to a slice, in result order.
func (g *Gateway) QueryMany(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	db, err := g.conn()
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).Raw(query, args...).Scan(dest).Error; err != nil {
		return &DatabaseError{Op: "query", Err: err}
	}
	return nil
}

// Transaction runs fn against a gateway bound to one database transaction.
// The transaction commits when fn returns nil and rolls back otherwise; fn's
// error is returned unchanged.
func (g *Gateway) Transaction(ctx context.Context, fn func(tx *Gateway) error) error {
	db, err := g.conn()
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gateway{db: tx, tx: true})
	})
}

// Ping checks that the database answers.
func (g *Gateway) Ping(ctx context.Context) error {
	db, err := g.conn()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return &DatabaseError{Op: "ping", Err: err}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return &DatabaseError{Op: "ping", Err: err}
	}
	return nil
}

// Close releases the connection. A later call re-opens it.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.tx {
		return ErrTxClosed
	}
	if g.db == nil {
		return nil
	}

	sqlDB, err := g.db.DB()
	g.db = nil
	if err != nil {
		return &DatabaseError{Op: "close", Err: err}
	}
	if err := sqlDB.Close(); err != nil {
		return &DatabaseError{Op: "close", Err: err}
	}
	return nil
}
