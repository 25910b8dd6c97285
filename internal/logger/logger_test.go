package logger

import (
	"bytes"
	"io"
	"os"
	"sync"
	"testing"
)

// capture redirects output to a buffer for the duration of the test.
func capture(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestLevels_WhenVerbose(t *testing.T) {
	tests := []struct {
		name string
		log  func()
		want string
	}{
		{"debug", func() { Debug("scored %d documents", 4) }, "[DEBUG] scored 4 documents\n"},
		{"info", func() { Info("listening on %s", ":5000") }, "[INFO] listening on :5000\n"},
		{"warn", func() { Warn("cache value %v out of range", 1.5) }, "[WARN] cache value 1.5 out of range\n"},
		{"error", func() { Error("corpus %s", "unavailable") }, "[ERROR] corpus unavailable\n"},
		{"section", func() { Section("Progressive check") }, "\n=== Progressive check ===\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log()
			if buf.String() != tt.want {
				t.Errorf("unexpected output: %q", buf.String())
			}
		})
	}
}

func TestLevels_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("scored %d documents", 4)
	Info("listening")
	Warn("degraded")
	Section("Progressive check")

	if buf.Len() > 0 {
		t.Errorf("expected no output when verbose is disabled, got %q", buf.String())
	}
}

func TestError_AlwaysPrinted(t *testing.T) {
	buf := capture(t, false)

	Error("corpus %s", "unavailable")

	if buf.String() != "[ERROR] corpus unavailable\n" {
		t.Errorf("unexpected error output: %q", buf.String())
	}
}

func TestWriter_ForwardsLinesToInfo(t *testing.T) {
	buf := capture(t, true)

	n, err := Writer().Write([]byte("GET /a 200\nPOST /b 400\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 23 {
		t.Errorf("expected 23 bytes written, got %d", n)
	}
	if buf.String() != "[INFO] GET /a 200\n[INFO] POST /b 400\n" {
		t.Errorf("unexpected writer output: %q", buf.String())
	}
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, false)
	SetOutput(io.Discard)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(v bool) {
			defer wg.Done()
			SetVerbose(v)
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			Debug("document %d", 1)
			_ = IsVerbose()
		}()
	}
	wg.Wait()
}
