package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/lootscout/lootscout/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled
// PostgreSQL). Listing snapshots are stored as JSONB so favorites keep
// rendering even after the source listing disappears.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// AddFavorite saves a listing snapshot for a user. Re-favoriting the
// same product refreshes the snapshot but keeps the original timestamp
// row.
func (s *PostgresStore) AddFavorite(ctx context.Context, f *domain.Favorite) error {
	data, err := json.Marshal(f.Listing)
	if err != nil {
		return fmt.Errorf("encoding listing snapshot: %w", err)
	}

	args := pgx.NamedArgs{
		"user_id":      f.UserID,
		"product_id":   f.ProductID,
		"product_data": data,
	}
	if err := s.pool.QueryRow(ctx, queryAddFavorite, args).Scan(&f.CreatedAt); err != nil {
		return fmt.Errorf("inserting favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes one favorite. Removing a favorite that does
// not exist returns ErrNotFound.
func (s *PostgresStore) RemoveFavorite(ctx context.Context, userID, productID string) error {
	tag, err := s.pool.Exec(ctx, queryRemoveFavorite, userID, productID)
	if err != nil {
		return fmt.Errorf("deleting favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFavorites returns a user's favorites, newest first.
func (s *PostgresStore) ListFavorites(ctx context.Context, userID string) ([]domain.Favorite, error) {
	rows, err := s.pool.Query(ctx, queryListFavorites, userID)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer rows.Close()

	var out []domain.Favorite
	for rows.Next() {
		var (
			f    domain.Favorite
			data []byte
		)
		if err := rows.Scan(&f.UserID, &f.ProductID, &data, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		if err := json.Unmarshal(data, &f.Listing); err != nil {
			return nil, fmt.Errorf("decoding listing snapshot: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating favorites: %w", err)
	}
	return out, nil
}

// IsFavorite reports whether the user has favorited the product.
func (s *PostgresStore) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx, queryIsFavorite, userID, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking favorite: %w", err)
	}
	return exists, nil
}

// ListManualTrending returns the curated trending rows in rank order.
func (s *PostgresStore) ListManualTrending(ctx context.Context) ([]ManualTrending, error) {
	rows, err := s.pool.Query(ctx, queryListManualTrending)
	if err != nil {
		return nil, fmt.Errorf("querying manual trending: %w", err)
	}
	defer rows.Close()

	var out []ManualTrending
	for rows.Next() {
		var (
			m    ManualTrending
			data []byte
		)
		if err := rows.Scan(&m.ProductID, &data, &m.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning manual trending: %w", err)
		}
		if err := json.Unmarshal(data, &m.Listing); err != nil {
			return nil, fmt.Errorf("decoding listing snapshot: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating manual trending: %w", err)
	}
	return out, nil
}

// ListMostFavorited ranks products by favorite count inside the window,
// skipping the excluded product ids.
func (s *PostgresStore) ListMostFavorited(
	ctx context.Context,
	window time.Duration,
	limit int,
	excluding []string,
) ([]FavoriteCount, error) {
	if excluding == nil {
		excluding = []string{}
	}
	interval := fmt.Sprintf("%d seconds", int64(window.Seconds()))

	rows, err := s.pool.Query(ctx, queryListMostFavorited, interval, excluding, limit)
	if err != nil {
		return nil, fmt.Errorf("querying most favorited: %w", err)
	}
	defer rows.Close()

	var out []FavoriteCount
	for rows.Next() {
		var (
			fc   FavoriteCount
			data []byte
		)
		if err := rows.Scan(&fc.ProductID, &data, &fc.Count); err != nil {
			return nil, fmt.Errorf("scanning most favorited: %w", err)
		}
		if err := json.Unmarshal(data, &fc.Listing); err != nil {
			return nil, fmt.Errorf("decoding listing snapshot: %w", err)
		}
		out = append(out, fc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating most favorited: %w", err)
	}
	return out, nil
}
