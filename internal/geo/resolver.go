package geo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

type Resolver interface {
	// ResolveTown returns "" when no town is near c.
	ResolveTown(ctx context.Context, c Coordinate) (string, error)
}

type NopResolver struct{}

func (NopResolver) ResolveTown(context.Context, Coordinate) (string, error) {
	return "", nil
}

const DefaultSearchRadius = 0.05

// SQLiteResolver looks up the nearest row of an existing towns table:
//
//	towns(name TEXT, latitude REAL, longitude REAL)
type SQLiteResolver struct {
	db *sql.DB
	// SearchRadius bounds the lookup box in degrees around the fix.
	SearchRadius float64
}

func OpenSQLiteResolver(path string) (*SQLiteResolver, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open town database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open town database: %w", err)
	}
	return NewSQLiteResolver(db), nil
}

func NewSQLiteResolver(db *sql.DB) *SQLiteResolver {
	if db == nil {
		panic("geo.NewSQLiteResolver: db must not be nil")
	}
	return &SQLiteResolver{db: db, SearchRadius: DefaultSearchRadius}
}

func (r *SQLiteResolver) Close() error {
	return r.db.Close()
}

func (r *SQLiteResolver) ResolveTown(ctx context.Context, c Coordinate) (string, error) {
	if !c.Valid() {
		return "", nil
	}
	radius := r.SearchRadius
	if radius <= 0 {
		radius = DefaultSearchRadius
	}
	var name string
	err := r.db.QueryRowContext(ctx, `
		SELECT name FROM towns
		WHERE latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?
		ORDER BY (latitude - ?) * (latitude - ?) + (longitude - ?) * (longitude - ?)
		LIMIT 1`,
		c.Latitude-radius, c.Latitude+radius, c.Longitude-radius, c.Longitude+radius,
		c.Latitude, c.Latitude, c.Longitude, c.Longitude,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve town: %w", err)
	}
	return strings.TrimSpace(name), nil
}
