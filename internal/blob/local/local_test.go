package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, "http://localhost:8080/assets/")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	var transferred int64
	url, err := s.Upload(ctx, "markers/1700000000000_fort.jpg", strings.NewReader("image-bytes"), 11, "image/jpeg",
		func(n, total int64) { transferred = n })
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "http://localhost:8080/assets/markers/1700000000000_fort.jpg" {
		t.Fatalf("url: %s", url)
	}
	if transferred != 11 {
		t.Fatalf("progress transferred: %d", transferred)
	}

	data, err := os.ReadFile(filepath.Join(dir, "markers", "1700000000000_fort.jpg"))
	if err != nil || string(data) != "image-bytes" {
		t.Fatalf("stored object: %q err=%v", data, err)
	}

	if err := s.HealthPing(ctx); err != nil {
		t.Fatalf("health: %v", err)
	}

	if err := s.Delete(ctx, url); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, url); err == nil {
		t.Fatalf("double delete must fail")
	}
	if err := s.Delete(ctx, "http://elsewhere/obj"); err == nil {
		t.Fatalf("foreign url must be rejected")
	}
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, "http://localhost:8080/assets")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := s.Upload(context.Background(), "../escape.txt", strings.NewReader("x"), 1, "text/plain", nil); err == nil {
		t.Fatalf("traversal key must be rejected")
	}
}
