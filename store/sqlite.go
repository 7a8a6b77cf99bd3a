package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	store TEXT NOT NULL,
	id    TEXT NOT NULL,
	data  TEXT NOT NULL,
	PRIMARY KEY (store, id)
);
`

// Sqlite keeps all stores in one table of a single database file. The
// connection is not safe for concurrent use and is guarded by mu.
type Sqlite struct {
	mu   sync.Mutex
	conn *sqlite.Conn
	log  *zap.Logger
}

func OpenSqlite(path string, log *zap.Logger) (*Sqlite, error) {
	if path == "" {
		return nil, errors.New("sqlite store needs a path")
	}
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	log.Debug("Sqlite store opened", zap.String("path", path))
	return &Sqlite{conn: conn, log: log.Named("sqlite")}, nil
}

func (s *Sqlite) exec(ctx context.Context, query string, opts *sqlitex.ExecOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.conn.SetInterrupt(s.conn.SetInterrupt(ctx.Done()))
	return sqlitex.Execute(s.conn, query, opts)
}

func (s *Sqlite) Get(ctx context.Context, store, id string) ([]byte, error) {
	if err := checkName(store); err != nil {
		return nil, err
	}
	var (
		out   []byte
		found bool
	)
	err := s.exec(ctx, `SELECT data FROM records WHERE store = ? AND id = ?;`, &sqlitex.ExecOptions{
		Args: []any{store, id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			out = []byte(stmt.ColumnText(0))
			found = true
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", store, id, err)
	}
	if !found {
		return nil, fmt.Errorf("%s/%s: %w", store, id, ErrNotFound)
	}
	return out, nil
}

func (s *Sqlite) GetAll(ctx context.Context, store string) ([][]byte, error) {
	if err := checkName(store); err != nil {
		return nil, err
	}
	var out [][]byte
	err := s.exec(ctx, `SELECT data FROM records WHERE store = ? ORDER BY id;`, &sqlitex.ExecOptions{
		Args: []any{store},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			out = append(out, []byte(stmt.ColumnText(0)))
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", store, err)
	}
	return out, nil
}

func (s *Sqlite) Put(ctx context.Context, store, id string, record []byte) error {
	if err := checkName(store); err != nil {
		return err
	}
	err := s.exec(ctx, `INSERT INTO records (store, id, data) VALUES (?, ?, ?)
		ON CONFLICT (store, id) DO UPDATE SET data = excluded.data;`, &sqlitex.ExecOptions{
		Args: []any{store, id, string(record)},
	})
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", store, id, err)
	}
	return nil
}

func (s *Sqlite) Remove(ctx context.Context, store, id string) error {
	if err := checkName(store); err != nil {
		return err
	}
	err := s.exec(ctx, `DELETE FROM records WHERE store = ? AND id = ?;`, &sqlitex.ExecOptions{
		Args: []any{store, id},
	})
	if err != nil {
		return fmt.Errorf("failed to remove %s/%s: %w", store, id, err)
	}
	return nil
}

func (s *Sqlite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}
