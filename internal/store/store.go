// Package store persists rendered exports in PostgreSQL.
package store

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/blake2b"

	"github.com/inamate/pathsvg/internal/document"
	"github.com/inamate/pathsvg/internal/typeid"
)

var ErrNotFound = errors.New("export not found")

// querier is the subset of pgxpool.Pool the store needs.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const (
	migrateSQL = `CREATE TABLE IF NOT EXISTS exports (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	scene_id   TEXT NOT NULL DEFAULT '',
	svg        TEXT NOT NULL,
	digest     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS exports_created_at_idx ON exports (created_at DESC)`

	insertSQL = `INSERT INTO exports (id, name, scene_id, svg, digest)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at`

	getSQL = `SELECT id, name, scene_id, svg, digest, created_at FROM exports WHERE id = $1`

	listSQL = `SELECT id, name, scene_id, digest, created_at FROM exports
ORDER BY created_at DESC LIMIT $1`
)

// Export is one stored SVG. List leaves SVG empty.
type Export struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SceneID   string    `json:"sceneId,omitempty"`
	SVG       string    `json:"svg,omitempty"`
	Digest    string    `json:"digest"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store struct {
	q    querier
	pool *pgxpool.Pool
}

// New connects to the database at url.
func New(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{q: pool, pool: pool}, nil
}

func newWithQuerier(q querier) *Store {
	return &Store{q: q}
}

// Close releases the pool, if the store owns one.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the exports table when it is missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.q.Exec(ctx, migrateSQL); err != nil {
		return fmt.Errorf("migrate exports: %w", err)
	}
	return nil
}

// Digest returns the hex blake2b-256 digest of an SVG text.
func Digest(svg string) string {
	sum := blake2b.Sum256([]byte(svg))
	return hex.EncodeToString(sum[:])
}

// Save stores svg under a new export id.
func (s *Store) Save(ctx context.Context, name, sceneID, svg string) (*Export, error) {
	e := &Export{
		ID:      typeid.NewExportID(),
		Name:    name,
		SceneID: sceneID,
		SVG:     svg,
		Digest:  Digest(svg),
	}
	if err := s.q.QueryRow(ctx, insertSQL, e.ID, e.Name, e.SceneID, e.SVG, e.Digest).Scan(&e.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert export: %w", err)
	}
	return e, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Export, error) {
	var e Export
	err := s.q.QueryRow(ctx, getSQL, id).Scan(&e.ID, &e.Name, &e.SceneID, &e.SVG, &e.Digest, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get export: %w", err)
	}
	return &e, nil
}

// List returns the newest exports first, without their SVG text.
func (s *Store) List(ctx context.Context, limit int) ([]Export, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	rows, err := s.q.Query(ctx, listSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer rows.Close()

	exports := []Export{}
	for rows.Next() {
		var e Export
		if err := rows.Scan(&e.ID, &e.Name, &e.SceneID, &e.Digest, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		exports = append(exports, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	return exports, nil
}

// Sink saves every write as a new export named after dest.
type Sink struct {
	store   *Store
	sceneID string

	mu   sync.Mutex
	last *Export
}

// NewSink returns a sink recording exports of the given scene.
func (s *Store) NewSink(sceneID string) *Sink {
	return &Sink{store: s, sceneID: sceneID}
}

func (k *Sink) Write(ctx context.Context, text, dest string) error {
	e, err := k.store.Save(ctx, dest, k.sceneID, text)
	if err != nil {
		return &document.IOError{Dest: dest, Err: err}
	}
	k.mu.Lock()
	k.last = e
	k.mu.Unlock()
	return nil
}

// Last returns the export saved by the most recent Write, or nil.
func (k *Sink) Last() *Export {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.last
}
