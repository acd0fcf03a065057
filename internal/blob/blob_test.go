package blob

import (
	"io"
	"strings"
	"testing"
)

func TestKey_FolderAndOriginalName(t *testing.T) {
	key := Key(FolderMarkers, "fort.jpg")
	if !strings.HasPrefix(key, "markers/") || !strings.HasSuffix(key, "_fort.jpg") {
		t.Fatalf("key: %s", key)
	}
}

func TestProgressReader_ReportsBytes(t *testing.T) {
	body := "0123456789"
	var last, total int64
	r := NewProgressReader(strings.NewReader(body), int64(len(body)), func(n, t int64) { last, total = n, t })
	out, err := io.ReadAll(r)
	if err != nil || string(out) != body {
		t.Fatalf("read: %q err=%v", out, err)
	}
	if last != int64(len(body)) || total != int64(len(body)) {
		t.Fatalf("progress: last=%d total=%d", last, total)
	}
}

func TestProgressReader_NilCallback(t *testing.T) {
	r := NewProgressReader(strings.NewReader("abc"), 3, nil)
	if out, err := io.ReadAll(r); err != nil || string(out) != "abc" {
		t.Fatalf("read: %q err=%v", out, err)
	}
}
