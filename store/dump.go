package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// DumpVersion is written into every dump.
const DumpVersion = 3

// Dump is the content of every store, as written by backup files.
type Dump struct {
	Stores     map[string][]json.RawMessage
	ExportedAt time.Time
	Version    int
}

func (d Dump) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Stores)+2)
	for name, records := range d.Stores {
		if records == nil {
			records = []json.RawMessage{}
		}
		out[name] = records
	}
	out["exportedAt"] = d.ExportedAt.UTC().Format(time.RFC3339Nano)
	out["version"] = d.Version
	return json.Marshal(out)
}

func (d *Dump) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Stores = make(map[string][]json.RawMessage)
	for _, name := range Names {
		v, ok := raw[name]
		if !ok {
			continue
		}
		var records []json.RawMessage
		if err := json.Unmarshal(v, &records); err != nil {
			return fmt.Errorf("store %s: %w", name, err)
		}
		d.Stores[name] = records
	}
	if v, ok := raw["exportedAt"]; ok {
		if err := json.Unmarshal(v, &d.ExportedAt); err != nil {
			return fmt.Errorf("exportedAt: %w", err)
		}
	}
	if v, ok := raw["version"]; ok {
		if err := json.Unmarshal(v, &d.Version); err != nil {
			return fmt.Errorf("version: %w", err)
		}
	}
	return nil
}

// ExportAll reads every store into a dump.
func ExportAll(ctx context.Context, s Store, now time.Time) (*Dump, error) {
	d := &Dump{Stores: make(map[string][]json.RawMessage, len(Names)), ExportedAt: now, Version: DumpVersion}
	for _, name := range Names {
		records, err := s.GetAll(ctx, name)
		if err != nil {
			return nil, err
		}
		list := make([]json.RawMessage, 0, len(records))
		for _, r := range records {
			list = append(list, json.RawMessage(r))
		}
		d.Stores[name] = list
	}
	return d, nil
}

// ImportAll replaces the content of every store present in d. Records
// without an id are skipped and reported.
func ImportAll(ctx context.Context, s Store, d *Dump) error {
	var errs error
	for _, name := range Names {
		records, ok := d.Stores[name]
		if !ok {
			continue
		}
		existing, err := AllJSON[struct {
			Id string `json:"id"`
		}](ctx, s, name)
		if err != nil {
			return err
		}
		for _, r := range existing {
			if err := s.Remove(ctx, name, r.Id); err != nil {
				return err
			}
		}
		for i, r := range records {
			var rec struct {
				Id string `json:"id"`
			}
			if err := json.Unmarshal(r, &rec); err != nil || rec.Id == "" {
				errs = multierr.Append(errs, fmt.Errorf("%s record %d has no id", name, i))
				continue
			}
			if err := s.Put(ctx, name, rec.Id, r); err != nil {
				return err
			}
		}
	}
	return errs
}
