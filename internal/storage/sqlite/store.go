package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/imtiaz478/Sellora-full/internal/models"
	"github.com/imtiaz478/Sellora-full/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store is a SQLite-backed storage.Store. Dates and timestamps are kept as TEXT.
type Store struct {
	db *sqlx.DB
}

// NewStore opens the database file at path (":memory:" for a throwaway database) and runs migrations.
func NewStore(ctx context.Context, path string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", dataSource(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite serialises writers, and an in-memory database lives only as long as its connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// dataSource enables foreign keys on every connection the pool opens.
func dataSource(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// Close releases the database handle.
func (s *Store) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			source TEXT NOT NULL,
			user_or_merchant TEXT NOT NULL,
			product TEXT NOT NULL,
			total_price REAL NOT NULL,
			buy_date TEXT NOT NULL,
			sell_date TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS transactions_user_id_idx ON transactions (user_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

type userRow struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    string `db:"created_at"`
}

func (r userRow) model() (models.User, error) {
	created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("user %d: parse created_at: %w", r.ID, err)
	}
	return models.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    created,
	}, nil
}

type transactionRow struct {
	ID             int64          `db:"id"`
	UserID         int64          `db:"user_id"`
	Source         string         `db:"source"`
	UserOrMerchant string         `db:"user_or_merchant"`
	Product        string         `db:"product"`
	TotalPrice     float64        `db:"total_price"`
	BuyDate        string         `db:"buy_date"`
	SellDate       sql.NullString `db:"sell_date"`
	CreatedAt      string         `db:"created_at"`
}

func (r transactionRow) model() (models.Transaction, error) {
	tx := models.Transaction{
		ID:             r.ID,
		UserID:         r.UserID,
		Source:         r.Source,
		UserOrMerchant: r.UserOrMerchant,
		Product:        r.Product,
		TotalPrice:     r.TotalPrice,
	}
	var err error
	if tx.BuyDate, err = models.ParseDate(r.BuyDate); err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %d: %w", r.ID, err)
	}
	if r.SellDate.Valid {
		sell, err := models.ParseDate(r.SellDate.String)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("transaction %d: %w", r.ID, err)
		}
		tx.SellDate = &sell
	}
	if tx.CreatedAt, err = time.Parse(time.RFC3339Nano, r.CreatedAt); err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %d: parse created_at: %w", r.ID, err)
	}
	return tx, nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id, username, email, password_hash, created_at`
	var row userRow
	err := s.db.GetContext(ctx, &row, query, user.Username, user.Email, user.PasswordHash, now())
	if err != nil {
		if hasCode(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return row.model()
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findUser(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?`, email)
}

func (s *Store) findUser(ctx context.Context, query string, arg string) (models.User, error) {
	var row userRow
	if err := s.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return row.model()
}

const transactionColumns = `id, user_id, source, user_or_merchant, product, total_price, buy_date, sell_date, created_at`

// CreateTransaction inserts tx for its owner and returns the stored row.
func (s *Store) CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, source, user_or_merchant, product, total_price, buy_date, sell_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + transactionColumns
	var row transactionRow
	err := s.db.GetContext(ctx, &row, query,
		tx.UserID, tx.Source, tx.UserOrMerchant, tx.Product, tx.TotalPrice,
		tx.BuyDate.String(), dateText(tx.SellDate), now(),
	)
	if err != nil {
		if hasCode(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY) {
			return models.Transaction{}, storage.ErrNotFound
		}
		return models.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return row.model()
}

// ListTransactions returns every transaction owned by ownerID in insertion order.
func (s *Store) ListTransactions(ctx context.Context, ownerID int64) ([]models.Transaction, error) {
	var rows []transactionRow
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = ? ORDER BY id`
	if err := s.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	items := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := row.model()
		if err != nil {
			return nil, err
		}
		items = append(items, tx)
	}
	return items, nil
}

// UpdateTransaction applies patch to the owner's row inside a single database transaction.
func (s *Store) UpdateTransaction(ctx context.Context, id, ownerID int64, patch models.TransactionPatch) (models.Transaction, error) {
	dbtx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = dbtx.Rollback() }()

	var row transactionRow
	selectQuery := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ? AND user_id = ?`
	if err := dbtx.GetContext(ctx, &row, selectQuery, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Transaction{}, storage.ErrNotFound
		}
		return models.Transaction{}, fmt.Errorf("load transaction %d: %w", id, err)
	}
	current, err := row.model()
	if err != nil {
		return models.Transaction{}, err
	}
	current.Apply(patch)

	updateQuery := `
		UPDATE transactions
		SET source = ?, user_or_merchant = ?, product = ?, total_price = ?, buy_date = ?, sell_date = ?
		WHERE id = ?
		RETURNING ` + transactionColumns
	var updated transactionRow
	err = dbtx.GetContext(ctx, &updated, updateQuery,
		current.Source, current.UserOrMerchant, current.Product, current.TotalPrice,
		current.BuyDate.String(), dateText(current.SellDate), current.ID,
	)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("update transaction %d: %w", id, err)
	}
	if err := dbtx.Commit(); err != nil {
		return models.Transaction{}, fmt.Errorf("commit transaction: %w", err)
	}
	return updated.model()
}

// DeleteTransaction removes the owner's row.
func (s *Store) DeleteTransaction(ctx context.Context, id, ownerID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func hasCode(err error, code int) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == code
}

func dateText(d *models.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
