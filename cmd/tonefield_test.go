package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/wav"
)

func noEnv(string) string { return "" }

func TestRunRendersTones(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.wav")
	var stderr bytes.Buffer
	code := run([]string{"-render", out, "-tone", "440:0.5", "-tone", "660:0.25", "-seconds", "0.5", "-rate", "8000"}, noEnv, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	d := wav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.SampleRate != 8000 || len(buf.Data) != 4000 {
		t.Fatalf("rate %d, %d frames", d.SampleRate, len(buf.Data))
	}
	if !strings.Contains(stderr.String(), "Bounced 2 voices") {
		t.Fatalf("log = %q", stderr.String())
	}
}

func TestRunBadFlags(t *testing.T) {
	var stderr bytes.Buffer
	if code := run([]string{"-tone", "nope"}, noEnv, &stderr); code != 2 {
		t.Fatalf("exit %d, want 2", code)
	}
	if code := run([]string{"-render", "x.wav", "-seconds", "1e300"}, noEnv, &stderr); code != 2 {
		t.Fatalf("huge -seconds exit %d, want 2", code)
	}
	if code := run([]string{"-h"}, noEnv, &stderr); code != 0 {
		t.Fatalf("-h exit %d, want 0", code)
	}
}

func TestRunRenderUnwritable(t *testing.T) {
	var stderr bytes.Buffer
	out := filepath.Join(t.TempDir(), "missing", "out.wav")
	if code := run([]string{"-render", out, "-tone", "440"}, noEnv, &stderr); code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
}
