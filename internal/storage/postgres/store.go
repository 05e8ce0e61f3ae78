package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/imtiaz478/Sellora-full/internal/models"
	"github.com/imtiaz478/Sellora-full/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Store provides Postgres-backed persistence for users and transactions.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to databaseURL and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			source VARCHAR(100) NOT NULL,
			user_or_merchant VARCHAR(100) NOT NULL,
			product VARCHAR(200) NOT NULL,
			total_price DOUBLE PRECISION NOT NULL,
			buy_date DATE NOT NULL,
			sell_date DATE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS transactions_user_id_idx ON transactions (user_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, password_hash, created_at;
	`
	row := s.pool.QueryRow(ctx, query, user.Username, user.Email, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT id, username, email, password_hash, created_at FROM users WHERE email = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

const transactionColumns = `id, user_id, source, user_or_merchant, product, total_price, buy_date, sell_date, created_at`

// CreateTransaction inserts tx for its owner and returns the stored row.
func (s *Store) CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, source, user_or_merchant, product, total_price, buy_date, sell_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + transactionColumns + `;`
	row := s.pool.QueryRow(ctx, query,
		tx.UserID, tx.Source, tx.UserOrMerchant, tx.Product, tx.TotalPrice,
		toPgDate(&tx.BuyDate), toPgDate(tx.SellDate),
	)
	created, err := scanTransaction(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return models.Transaction{}, storage.ErrNotFound
		}
		return models.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return created, nil
}

// ListTransactions returns every transaction owned by ownerID in insertion order.
func (s *Store) ListTransactions(ctx context.Context, ownerID int64) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 ORDER BY id;`
	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return items, nil
}

// UpdateTransaction applies patch to the owner's row inside a single database transaction.
func (s *Store) UpdateTransaction(ctx context.Context, id, ownerID int64, patch models.TransactionPatch) (models.Transaction, error) {
	var updated models.Transaction
	err := pgx.BeginFunc(ctx, s.pool, func(dbtx pgx.Tx) error {
		selectQuery := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2 FOR UPDATE;`
		current, err := scanTransaction(dbtx.QueryRow(ctx, selectQuery, id, ownerID))
		if err != nil {
			return err
		}
		current.Apply(patch)

		updateQuery := `
			UPDATE transactions
			SET source = $1, user_or_merchant = $2, product = $3, total_price = $4, buy_date = $5, sell_date = $6
			WHERE id = $7
			RETURNING ` + transactionColumns + `;`
		updated, err = scanTransaction(dbtx.QueryRow(ctx, updateQuery,
			current.Source, current.UserOrMerchant, current.Product, current.TotalPrice,
			toPgDate(&current.BuyDate), toPgDate(current.SellDate), current.ID,
		))
		return err
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Transaction{}, err
		}
		return models.Transaction{}, fmt.Errorf("update transaction %d: %w", id, err)
	}
	return updated, nil
}

// DeleteTransaction removes the owner's row.
func (s *Store) DeleteTransaction(ctx context.Context, id, ownerID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2;`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var (
		tx   models.Transaction
		buy  pgtype.Date
		sell pgtype.Date
	)
	err := row.Scan(&tx.ID, &tx.UserID, &tx.Source, &tx.UserOrMerchant, &tx.Product, &tx.TotalPrice, &buy, &sell, &tx.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Transaction{}, storage.ErrNotFound
		}
		return models.Transaction{}, err
	}
	tx.BuyDate = models.NewDate(buy.Time)
	if sell.Valid {
		d := models.NewDate(sell.Time)
		tx.SellDate = &d
	}
	return tx, nil
}

func toPgDate(d *models.Date) pgtype.Date {
	if d == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time, Valid: true}
}
