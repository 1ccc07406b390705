package levels

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const mapsSchema = `
CREATE TABLE IF NOT EXISTS maps (
	name TEXT PRIMARY KEY,
	width INTEGER NOT NULL,
	height INTEGER NOT NULL,
	tile_size INTEGER NOT NULL,
	document JSONB NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`

// PostgresStore keeps each map document as a JSONB row keyed by name.
type PostgresStore struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &PostgresStore{db: db, timeout: 10 * time.Second}

	ctx, cancel := s.ctx()
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, mapsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *PostgresStore) SaveMap(doc *MapDocument) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal map: %w", err)
	}
	ctx, cancel := s.ctx()
	defer cancel()
	_, err = s.db.ExecContext(ctx, `
	INSERT INTO maps (name, width, height, tile_size, document)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (name)
	DO UPDATE SET
		width = $2, height = $3, tile_size = $4, document = $5,
		updated_at = NOW()
	`, doc.Name, doc.Width, doc.Height, doc.TileSize, string(data))
	if err != nil {
		return fmt.Errorf("save map %s: %w", doc.Name, err)
	}
	return nil
}

func (s *PostgresStore) LoadMap(name string) (*MapDocument, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM maps WHERE name = $1`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrMapNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load map %s: %w", name, err)
	}
	return decodeMap([]byte(data))
}

func (s *PostgresStore) ListMaps() ([]string, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM maps ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("list maps: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
