package repo

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"virtualco/internal/kv"
)

// KV is a kv.Store over the workspace database.
type KV struct {
	DB  *sql.DB
	Now func() time.Time
}

func (s KV) now() string {
	if s.Now == nil {
		return time.Now().UTC().Format(time.RFC3339)
	}
	return s.Now().UTC().Format(time.RFC3339)
}

func (s KV) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return nil, kv.ErrNotFound
	}
	return v, err
}

func (s KV) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.DB.ExecContext(ctx, `INSERT INTO kv(key,value,updated_at) VALUES (?,?,?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`, key, value, s.now())
	return err
}

func (s KV) Delete(ctx context.Context, key string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM kv WHERE key=?`, key)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return kv.ErrNotFound
	}
	return nil
}

func (s KV) List(ctx context.Context, prefix string) ([]kv.Entry, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT key,value FROM kv WHERE substr(key,1,?)=? ORDER BY key`, len(prefix), prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []kv.Entry
	for rows.Next() {
		var e kv.Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, err
		}
		if strings.HasPrefix(e.Key, prefix) {
			out = append(out, e)
		}
	}
	return out, rows.Err()
}
