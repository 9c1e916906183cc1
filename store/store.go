package store

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/lib/pq"

	"rocketcart/model"
)

// PostgresStore is a Store backed by the cart_snapshots table.
// Key defaults to DefaultKey when empty.
type PostgresStore struct {
	DB  *sql.DB
	Key string
}

func NewPostgresStore(dsn, key string) (*PostgresStore, error) {
	DB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := DB.Ping(); err != nil {
		DB.Close()
		return nil, err
	}
	return &PostgresStore{DB: DB, Key: key}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

func (s *PostgresStore) key() string {
	if s.Key == "" {
		return DefaultKey
	}
	return s.Key
}

// Load reads the snapshot row; a missing row is an empty cart.
func (s *PostgresStore) Load(ctx context.Context) (model.Cart, error) {
	var payload []byte
	err := s.DB.QueryRowContext(ctx, `SELECT payload FROM cart_snapshots WHERE key=$1`, s.key()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(payload)
}

// Save upserts the whole snapshot.
func (s *PostgresStore) Save(ctx context.Context, cart model.Cart) error {
	payload, err := encode(cart)
	if err != nil {
		return err
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO cart_snapshots (key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`, s.key(), payload)
	return err
}
