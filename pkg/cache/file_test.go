package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFileStoreRoundTripPreservesDecimal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	in := newQuote("88500000.25")
	data, _ := json.Marshal(in)
	e := &Entry{Timestamp: time.Now().Unix(), Kind: "quote", Data: data}
	if err := store.Save(ctx, "gold_fetch", e); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx, "gold_fetch")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var out quote
	if err := json.Unmarshal(loaded.Data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Price.String() != "88500000.25" {
		t.Fatalf("decimal altered by round-trip: %s", out.Price)
	}
	var exp decimal.Decimal
	if exp, _ = decimal.NewFromString("88500000.25"); !out.Price.Equal(exp) {
		t.Fatalf("decimal not equal after round-trip")
	}
}

func TestFileStoreMiss(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Load(context.Background(), "absent"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestFileStoreCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := store.Load(context.Background(), "bad"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss for corrupt entry, got %v", err)
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	e := &Entry{Timestamp: time.Now().Unix(), Kind: "quote", Data: json.RawMessage(`{}`)}
	for i := 0; i < 3; i++ {
		if err := store.Save(context.Background(), "k", e); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "k.json" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}
