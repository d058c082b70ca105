package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"jobradar/internal/core/extract"
)

// fakeStore mimics the redis list semantics the service relies on:
// ListPush prepends, LRANGE-style negative stops, LTRIM keeps [start, stop].
type fakeStore struct {
	kv    map[string][]byte
	index []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{kv: make(map[string][]byte)}
}

func (f *fakeStore) CacheGet(_ context.Context, key string, dest interface{}) error {
	raw, ok := f.kv[key]
	if !ok {
		return fmt.Errorf("missing key %s", key)
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeStore) CacheSet(_ context.Context, key string, val interface{}, _ int) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	f.kv[key] = raw
	return nil
}

func (f *fakeStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.kv, k)
	}
	return nil
}

func (f *fakeStore) ListPush(_ context.Context, _ string, val string) error {
	f.index = append([]string{val}, f.index...)
	return nil
}

func (f *fakeStore) clampRange(start, stop int64) (int, int) {
	n := int64(len(f.index))
	if stop < 0 {
		stop = n + stop
	}
	if stop >= n {
		stop = n - 1
	}
	if start < 0 {
		start = 0
	}
	return int(start), int(stop)
}

func (f *fakeStore) ListRange(_ context.Context, _ string, start, stop int64) ([]string, error) {
	lo, hi := f.clampRange(start, stop)
	if lo > hi {
		return nil, nil
	}
	return append([]string(nil), f.index[lo:hi+1]...), nil
}

func (f *fakeStore) ListTrim(_ context.Context, _ string, start, stop int64) error {
	lo, hi := f.clampRange(start, stop)
	if lo > hi {
		f.index = nil
		return nil
	}
	f.index = f.index[lo : hi+1]
	return nil
}

func (f *fakeStore) ListRemove(_ context.Context, _ string, val string) error {
	kept := f.index[:0]
	for _, id := range f.index {
		if id != val {
			kept = append(kept, id)
		}
	}
	f.index = kept
	return nil
}

func TestSaveEvictsOldestBeyondCap(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, 3, 0)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		entry, err := svc.Save(ctx, extract.JobRecord{JobTitle: fmt.Sprintf("Role %d", i)})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		ids = append(ids, entry.ID)
	}

	entries, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want cap 3", len(entries))
	}
	// Newest first: the last three saves survive, in reverse save order.
	for i, want := range []string{"Role 4", "Role 3", "Role 2"} {
		if entries[i].Record.JobTitle != want {
			t.Errorf("entries[%d].JobTitle = %q, want %q", i, entries[i].Record.JobTitle, want)
		}
	}

	// The two oldest are gone from both the index and the KV side.
	for _, id := range ids[:2] {
		if _, err := svc.Get(ctx, id); err == nil {
			t.Errorf("evicted entry %s still readable", id)
		}
		if _, ok := store.kv[itemKey(id)]; ok {
			t.Errorf("evicted item key %s not deleted", itemKey(id))
		}
	}
	if len(store.index) != 3 {
		t.Errorf("index length = %d, want trimmed to 3", len(store.index))
	}
}

func TestSaveUnderCapKeepsEverything(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, 10, 0)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := svc.Save(ctx, extract.JobRecord{JobTitle: fmt.Sprintf("Role %d", i)}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	entries, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("len(entries) = %d, want 4", len(entries))
	}
}

func TestDeleteRemovesEntryAndIndex(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, 10, 0)
	ctx := context.Background()

	entry, err := svc.Save(ctx, extract.JobRecord{JobTitle: "Data Engineer"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := svc.Delete(ctx, entry.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, entry.ID); err == nil {
		t.Error("deleted entry still readable")
	}
	if len(store.index) != 0 {
		t.Errorf("index length = %d, want 0", len(store.index))
	}
	if err := svc.Delete(ctx, entry.ID); err == nil {
		t.Error("second delete must report not found")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"under limit", "short", 10, "short"},
		{"at limit", "exact", 5, "exact"},
		{"over limit", "toolongvalue", 6, "toolon"},
		{"zero limit means unlimited", "anything", 0, "anything"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestTruncateRecordCapsDescriptionOnly(t *testing.T) {
	record := extract.JobRecord{
		JobTitle:    "Data Engineer",
		Description: strings.Repeat("x", 500),
		TechStack:   []string{"Python"},
	}
	got := truncateRecord(record, 100)
	if len(got.Description) != 100 {
		t.Errorf("description len = %d, want 100", len(got.Description))
	}
	if got.JobTitle != "Data Engineer" || len(got.TechStack) != 1 {
		t.Error("other fields must be untouched")
	}
	// Input record is passed by value and stays intact.
	if len(record.Description) != 500 {
		t.Error("caller's record mutated")
	}
}
