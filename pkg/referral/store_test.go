package referral

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DeBrosOfficial/indexer-client/pkg/config"
)

// exerciseStore runs the Store contract against s.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, DefaultKey); err != nil || ok {
		t.Fatalf("Expected empty store, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, DefaultKey, "A"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, DefaultKey, "B"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok, err := s.Get(ctx, DefaultKey)
	if err != nil || !ok || v != "B" {
		t.Fatalf("Expected B, got %q ok=%v err=%v", v, ok, err)
	}
	if err := s.Delete(ctx, DefaultKey); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, DefaultKey); ok {
		t.Error("Expected key to be gone after delete")
	}
	if err := s.Delete(ctx, DefaultKey); err != nil {
		t.Errorf("Expected deleting a missing key to succeed, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)
	s := NewFileStore(path)
	exerciseStore(t, s)

	if err := s.Set(context.Background(), DefaultKey, "PERSIST"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected file to exist: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %o", info.Mode().Perm())
	}

	// A fresh store over the same file sees the value.
	v, ok, err := NewFileStore(path).Get(context.Background(), DefaultKey)
	if err != nil || !ok || v != "PERSIST" {
		t.Errorf("Expected persisted value, got %q ok=%v err=%v", v, ok, err)
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := NewFileStore(path).Get(context.Background(), DefaultKey); err == nil {
		t.Error("Expected parse error")
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "referral.db"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStoreEmptyPath(t *testing.T) {
	if _, err := NewSQLiteStore(""); err == nil {
		t.Error("Expected error for empty path")
	}
}

// TestRedisStore requires a running Redis; it is skipped otherwise.
func TestRedisStore(t *testing.T) {
	s := NewRedisStore("localhost:6379", "", 15)
	defer s.Close()
	if err := s.Ping(context.Background()); err != nil {
		t.Skip("Skipping Redis integration test: redis not available")
	}
	exerciseStore(t, s)
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.ReferralConfig
		wantErr bool
	}{
		{"memory", config.ReferralConfig{Store: "memory"}, false},
		{"file", config.ReferralConfig{Store: "file", Path: filepath.Join(dir, "r.json")}, false},
		{"sqlite", config.ReferralConfig{Store: "sqlite", Path: filepath.Join(dir, "r.db")}, false},
		{"unknown", config.ReferralConfig{Store: "etcd"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, closeFn, err := OpenStore(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			defer closeFn()
			exerciseStore(t, s)
		})
	}
}
