package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Badger keeps records under "<store>/<id>" keys.
type Badger struct {
	db  *badger.DB
	log *zap.Logger
}

func OpenBadger(path string, log *zap.Logger) (*Badger, error) {
	if path == "" {
		return nil, errors.New("badger store needs a path")
	}
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	return openBadger(opts, log)
}

// OpenMemory returns a badger store that lives only in memory.
func OpenMemory(log *zap.Logger) (*Badger, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return openBadger(opts, log)
}

func openBadger(opts badger.Options, log *zap.Logger) (*Badger, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	log.Debug("Badger store opened", zap.String("path", opts.Dir), zap.Bool("memory", opts.InMemory))
	return &Badger{db: db, log: log.Named("badger")}, nil
}

func key(store, id string) []byte {
	return []byte(store + "/" + id)
}

func (b *Badger) Get(ctx context.Context, store, id string) ([]byte, error) {
	if err := checkName(store); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(store, id))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s/%s: %w", store, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", store, id, err)
	}
	return out, nil
}

func (b *Badger) GetAll(ctx context.Context, store string) ([][]byte, error) {
	if err := checkName(store); err != nil {
		return nil, err
	}
	prefix := []byte(store + "/")
	var out [][]byte
	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", store, err)
	}
	return out, nil
}

func (b *Badger) Put(ctx context.Context, store, id string, record []byte) error {
	if err := checkName(store); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(store, id), record)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", store, id, err)
	}
	return nil
}

func (b *Badger) Remove(ctx context.Context, store, id string) error {
	if err := checkName(store); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(store, id))
	})
	if err != nil {
		return fmt.Errorf("failed to remove %s/%s: %w", store, id, err)
	}
	return nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}
