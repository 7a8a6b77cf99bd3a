// Package store persists library records as JSON documents grouped in named
// stores.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	Snippets      = "snippets"
	Collections   = "collections"
	CssTemplates  = "cssTemplates"
	PageTemplates = "pageTemplates"
	Images        = "images"
	Categories    = "categories"
	Tags          = "tags"
)

// Names lists every store in dump order.
var Names = []string{Snippets, Collections, CssTemplates, PageTemplates, Images, Categories, Tags}

var ErrNotFound = errors.New("record not found")

// Store is a key-value document store. Records are opaque JSON.
type Store interface {
	Get(ctx context.Context, store, id string) ([]byte, error)
	GetAll(ctx context.Context, store string) ([][]byte, error)
	Put(ctx context.Context, store, id string, record []byte) error
	Remove(ctx context.Context, store, id string) error
	Close() error
}

const (
	DriverBadger = "badger"
	DriverSqlite = "sqlite"
	DriverMemory = "memory"
)

type Options struct {
	Driver string
	Path   string
}

// Open creates the store selected by opts.
func Open(opts Options, log *zap.Logger) (Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var (
		s   Store
		err error
	)
	switch opts.Driver {
	case DriverBadger:
		s, err = OpenBadger(opts.Path, log)
	case DriverSqlite:
		s, err = OpenSqlite(opts.Path, log)
	case DriverMemory, "":
		s, err = OpenMemory(log)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	log.Info("Store opened", zap.String("driver", opts.Driver), zap.String("path", opts.Path))
	return s, nil
}

func checkName(store string) error {
	for _, n := range Names {
		if n == store {
			return nil
		}
	}
	return fmt.Errorf("unknown store %q", store)
}

// GetJSON loads and decodes one record.
func GetJSON[T any](ctx context.Context, s Store, store, id string) (*T, error) {
	data, err := s.Get(ctx, store, id)
	if err != nil {
		return nil, err
	}
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("failed to decode %s/%s: %w", store, id, err)
	}
	return v, nil
}

// AllJSON loads and decodes every record of a store.
func AllJSON[T any](ctx context.Context, s Store, store string) ([]*T, error) {
	records, err := s.GetAll(ctx, store)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(records))
	for _, data := range records {
		v := new(T)
		if err := json.Unmarshal(data, v); err != nil {
			return nil, fmt.Errorf("failed to decode %s record: %w", store, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// PutJSON encodes and stores one record.
func PutJSON(ctx context.Context, s Store, store, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", store, id, err)
	}
	return s.Put(ctx, store, id, data)
}
