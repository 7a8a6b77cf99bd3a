package library

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"pageforge/model"
	"pageforge/store"
)

func (l *Library) Snippet(ctx context.Context, id string) (*model.Snippet, error) {
	return store.GetJSON[model.Snippet](ctx, l.store, store.Snippets, id)
}

// Snippets lists every snippet, most recently updated first.
func (l *Library) Snippets(ctx context.Context) ([]*model.Snippet, error) {
	list, err := store.AllJSON[model.Snippet](ctx, l.store, store.Snippets)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
	return list, nil
}

// Search returns the snippets whose title, tags or content contain query.
func (l *Library) Search(ctx context.Context, query string) ([]*model.Snippet, error) {
	all, err := l.Snippets(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.Snippet
	for _, sn := range all {
		if sn.Matches(query) {
			out = append(out, sn)
		}
	}
	return out, nil
}

// SaveSnippet stores sn, assigning an id and creation time to new snippets.
func (l *Library) SaveSnippet(ctx context.Context, sn *model.Snippet) error {
	now := l.now()
	if sn.Id == "" {
		id, err := newId("snip_")
		if err != nil {
			return err
		}
		sn.Id = id
		sn.CreatedAt = now
	}
	if sn.Version < 1 {
		sn.Version = 1
	}
	if sn.Status == "" {
		sn.Status = model.StatusDraft
	}
	if strings.TrimSpace(sn.Title) == "" {
		sn.Title = "Unbenannt"
	}
	sn.UpdatedAt = now
	if err := store.PutJSON(ctx, l.store, store.Snippets, sn.Id, sn); err != nil {
		return err
	}
	l.log.Debug("Snippet saved", zap.String("id", sn.Id), zap.Int("version", sn.Version))
	return nil
}

// NewVersion pushes the current body of a snippet into its history.
func (l *Library) NewVersion(ctx context.Context, id, note string) (*model.Snippet, error) {
	sn, err := l.Snippet(ctx, id)
	if err != nil {
		return nil, err
	}
	sn.PushVersion(note, l.now())
	if err := l.SaveSnippet(ctx, sn); err != nil {
		return nil, err
	}
	l.log.Info("Snippet version saved", zap.String("id", id), zap.Int("version", sn.Version-1))
	return sn, nil
}

// DeleteSnippet removes a snippet and every collection reference to it.
func (l *Library) DeleteSnippet(ctx context.Context, id string) error {
	if _, err := l.Snippet(ctx, id); err != nil {
		return err
	}
	if err := l.store.Remove(ctx, store.Snippets, id); err != nil {
		return err
	}
	cols, err := l.Collections(ctx)
	if err != nil {
		return err
	}
	for _, c := range cols {
		if !c.RemoveSnippetRefs(id) {
			continue
		}
		if err := l.SaveCollection(ctx, c); err != nil {
			return fmt.Errorf("failed to update collection %s: %w", c.Id, err)
		}
		l.log.Debug("Removed snippet references", zap.String("collection", c.Id), zap.String("snippet", id))
	}
	return nil
}
