package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenFile_NotExist(t *testing.T) {
	kv, err := OpenFile(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if _, ok, _ := kv.Get(context.Background(), "k"); ok {
		t.Error("expected empty store")
	}
}

func TestOpenFile_Exists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	buf, _ := json.Marshal(map[string]any{"values": map[string]string{"k": "v"}})
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		t.Fatal(err)
	}

	kv, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	v, ok, err := kv.Get(context.Background(), "k")
	if err != nil || !ok || v != "v" {
		t.Errorf("Get = %q, %v, %v; want \"v\", true, nil", v, ok, err)
	}
}

func TestOpenFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("not-json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFile(path); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFileKV_SetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	kv, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Set(context.Background(), "k", "v1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := kv.Set(context.Background(), "k", "v2"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	v, ok, _ := reopened.Get(context.Background(), "k")
	if !ok || v != "v2" {
		t.Errorf("after reopen Get = %q, %v; want \"v2\", true", v, ok)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o; want 600", perm)
	}
}

func TestFileKV_SetFailureRollsBack(t *testing.T) {
	dir := t.TempDir()
	kv, err := OpenFile(filepath.Join(dir, "store.json"))
	if err != nil {
		t.Fatal(err)
	}
	// a regular file where the directory should be makes save fail
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	kv.path = filepath.Join(blocker, "store.json")

	if err := kv.Set(context.Background(), "k", "v"); err == nil {
		t.Fatal("expected save error")
	}
	if _, ok, _ := kv.Get(context.Background(), "k"); ok {
		t.Error("failed Set must not leave the value in memory")
	}
}

func TestOpen_Drivers(t *testing.T) {
	dir := t.TempDir()
	for _, driver := range []string{"file", "sqlite"} {
		kv, err := Open(driver, filepath.Join(dir, "store."+driver))
		if err != nil {
			t.Fatalf("Open(%q) failed: %v", driver, err)
		}
		_ = kv.Close()
	}
	if _, err := Open("redis", filepath.Join(dir, "x")); err == nil {
		t.Error("expected error for unknown driver")
	}
}
