package library

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"pageforge/model"
	"pageforge/store"
)

func (l *Library) CreateCollection(ctx context.Context, name string) (*model.Collection, error) {
	id, err := newId("col_")
	if err != nil {
		return nil, err
	}
	c := model.NewCollection(id, name, l.now())
	if err := l.SaveCollection(ctx, c); err != nil {
		return nil, err
	}
	l.log.Info("Collection created", zap.String("id", id), zap.String("name", name))
	return c, nil
}

// Collection loads a collection, migrating the legacy shape on the fly.
func (l *Library) Collection(ctx context.Context, id string) (*model.Collection, error) {
	data, err := l.store.Get(ctx, store.Collections, id)
	if err != nil {
		return nil, err
	}
	return model.DecodeCollection(data)
}

// Collections lists every collection by name.
func (l *Library) Collections(ctx context.Context) ([]*model.Collection, error) {
	records, err := l.store.GetAll(ctx, store.Collections)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Collection, 0, len(records))
	for _, data := range records {
		c, err := model.DecodeCollection(data)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (l *Library) SaveCollection(ctx context.Context, c *model.Collection) error {
	c.UpdatedAt = l.now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = c.UpdatedAt
	}
	return store.PutJSON(ctx, l.store, store.Collections, c.Id, c)
}

// UpdateCollection applies fn to a copy of the stored collection and saves
// it only when fn succeeds.
func (l *Library) UpdateCollection(ctx context.Context, id string, fn func(*model.Collection) error) (*model.Collection, error) {
	c, err := l.Collection(ctx, id)
	if err != nil {
		return nil, err
	}
	next := c.Clone()
	if err := fn(next); err != nil {
		return c, err
	}
	if err := l.SaveCollection(ctx, next); err != nil {
		return c, err
	}
	return next, nil
}

func (l *Library) DeleteCollection(ctx context.Context, id string) error {
	if _, err := l.store.Get(ctx, store.Collections, id); err != nil {
		return err
	}
	if err := l.store.Remove(ctx, store.Collections, id); err != nil {
		return err
	}
	l.log.Info("Collection deleted", zap.String("id", id))
	return nil
}

// MigrateAll rewrites every collection still stored in the legacy shape and
// returns how many were converted.
func (l *Library) MigrateAll(ctx context.Context) (int, error) {
	records, err := l.store.GetAll(ctx, store.Collections)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, data := range records {
		c := &model.Collection{}
		if err := json.Unmarshal(data, c); err != nil {
			return n, fmt.Errorf("failed to decode collection: %w", err)
		}
		if !c.Migrate() {
			continue
		}
		if err := store.PutJSON(ctx, l.store, store.Collections, c.Id, c); err != nil {
			return n, err
		}
		n++
	}
	if n > 0 {
		l.log.Info("Collections migrated", zap.Int("count", n))
	}
	return n, nil
}
