// Package library manages snippets, collections and images on top of a
// store.
package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pageforge/compose"
	"pageforge/model"
	"pageforge/store"
)

type Library struct {
	store store.Store
	log   *zap.Logger
	now   func() time.Time
}

func New(s store.Store, log *zap.Logger) *Library {
	if log == nil {
		log = zap.NewNop()
	}
	return &Library{store: s, log: log.Named("library"), now: time.Now}
}

// WithClock fixes the time stamps written to records.
func (l *Library) WithClock(now func() time.Time) *Library {
	nl := *l
	nl.now = now
	return &nl
}

func (l *Library) Store() store.Store { return l.store }

func newId(prefix string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %v", err)
	}
	return prefix + id.String(), nil
}

// LoadSource fetches every snippet c refers to and the image alias map.
// Missing snippets are left out; the builder reports them.
func (l *Library) LoadSource(ctx context.Context, c *model.Collection) (compose.Source, error) {
	src := compose.Source{Snippets: make(map[string]*model.Snippet)}
	for _, id := range c.SnippetIds() {
		if _, ok := src.Snippets[id]; ok {
			continue
		}
		sn, err := l.Snippet(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			l.log.Debug("Referenced snippet missing", zap.String("collection", c.Id), zap.String("snippet", id))
			continue
		}
		if err != nil {
			return compose.Source{}, err
		}
		src.Snippets[id] = sn
	}
	images, err := l.ImageMap(ctx)
	if err != nil {
		return compose.Source{}, err
	}
	src.Images = images
	return src, nil
}
