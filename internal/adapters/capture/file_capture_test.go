package capture

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func writeSource(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.webm")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestFileCaptureWarmup(t *testing.T) {
	path := writeSource(t, bytes.Repeat([]byte("abcd"), 64))

	fc, err := NewFileCapture(Config{Path: path, WarmupFrames: 3, ChunkSize: 16})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if fc.Ready() {
		t.Fatalf("source must not be ready before warmup")
	}
	for i := 0; i < 3; i++ {
		if _, err := fc.Frame(context.Background()); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if !fc.Ready() {
		t.Fatalf("source must be ready after warmup frames")
	}
}

func TestFileCaptureStreamsChunks(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 256)
	path := writeSource(t, data)

	fc, err := NewFileCapture(Config{
		Path:          path,
		ChunkInterval: 5 * time.Millisecond,
		ChunkSize:     64,
		WarmupFrames:  1,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	var mu sync.Mutex
	var total int
	h, err := fc.StartRecording(context.Background(), fc, func(chunk []byte) {
		mu.Lock()
		total += len(chunk)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("start recording: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := total
		mu.Unlock()
		if n >= 3*64 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected at least three chunks, got %d bytes", n)
		}
		time.Sleep(2 * time.Millisecond)
	}

	if err := h.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}

	// No chunks after stop confirmation.
	mu.Lock()
	after := total
	mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	final := total
	mu.Unlock()
	if final != after {
		t.Fatalf("chunks delivered after stop: %d -> %d", after, final)
	}
}

func TestFileCaptureStopHonorsContext(t *testing.T) {
	path := writeSource(t, []byte("0123456789"))
	fc, err := NewFileCapture(Config{Path: path, ChunkInterval: time.Hour})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	h, err := fc.StartRecording(context.Background(), fc, func([]byte) {})
	if err != nil {
		t.Fatalf("start recording: %v", err)
	}
	if err := h.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestFileCaptureRejectsBadInput(t *testing.T) {
	if _, err := NewFileCapture(Config{Path: filepath.Join(t.TempDir(), "missing.webm")}); err == nil {
		t.Fatalf("expected error for missing file")
	}

	empty := writeSource(t, nil)
	if _, err := NewFileCapture(Config{Path: empty}); err == nil {
		t.Fatalf("expected error for empty file")
	}

	path := writeSource(t, []byte("data"))
	fc, err := NewFileCapture(Config{Path: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := fc.StartRecording(context.Background(), fc, nil); err == nil {
		t.Fatalf("expected error for nil chunk callback")
	}
	if _, err := fc.StartRecording(context.Background(), nil, func([]byte) {}); err == nil {
		t.Fatalf("expected error for nil source")
	}
}
