package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"

	"github.com/example/motogo/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Migrate applies every .sql file in dir in name order.
func (p *PostgresStore) Migrate(ctx context.Context, dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	applied := make([]string, 0, len(files))
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return applied, err
		}
		if _, err := p.db.ExecContext(ctx, string(b)); err != nil {
			return applied, fmt.Errorf("migration %s: %w", filepath.Base(f), err)
		}
		applied = append(applied, filepath.Base(f))
	}
	return applied, nil
}

func (p *PostgresStore) Append(ctx context.Context, e models.RideHistoryEntry) error {
	_, err := p.db.ExecContext(ctx, `INSERT INTO ride_history(id, requested_at, origin, destination, duration, distance, fare, driver_name, driver_rating, payment_method, status) VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) ON CONFLICT (id) DO NOTHING`,
		e.ID, e.RequestedAt, e.Origin, e.Destination, e.Duration, e.Distance, e.Fare, e.Driver.Name, e.Driver.Rating, string(e.PaymentMethod), string(e.Status))
	return err
}

func (p *PostgresStore) List(ctx context.Context, f Filter) ([]models.RideHistoryEntry, error) {
	q := `SELECT id, requested_at, origin, destination, duration, distance, fare, driver_name, driver_rating, payment_method, status FROM ride_history`
	var args []any
	if f.Status != "" {
		q += ` WHERE status = $1`
		args = append(args, string(f.Status))
	}
	q += ` ORDER BY requested_at DESC`
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.RideHistoryEntry
	for rows.Next() {
		var e models.RideHistoryEntry
		var pm, st string
		if err := rows.Scan(&e.ID, &e.RequestedAt, &e.Origin, &e.Destination, &e.Duration, &e.Distance, &e.Fare, &e.Driver.Name, &e.Driver.Rating, &pm, &st); err != nil {
			return nil, err
		}
		e.PaymentMethod = models.PaymentMethod(pm)
		e.Status = models.HistoryStatus(st)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (p *PostgresStore) Close() error { return p.db.Close() }
