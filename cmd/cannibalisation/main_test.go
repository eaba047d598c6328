package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const gscCSV = `query,page,clicks,impressions
shoes,/shoes,40,80
shoes,/running-shoes,10,20
socks,/socks,5,100
`

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func TestRunMissingInput(t *testing.T) {
	if code := run(nil); code != 2 {
		t.Fatalf("exit code = %d; want 2", code)
	}
}

func TestRunMalformedInput(t *testing.T) {
	in := writeInput(t, "query,page,clicks,impressions\nshoes,/a,many,10\n")
	if code := run([]string{"-input", in, "-out-dir", t.TempDir()}); code != 1 {
		t.Fatalf("exit code = %d; want 1", code)
	}
}

func TestRunInvalidBound(t *testing.T) {
	in := writeInput(t, gscCSV)
	if code := run([]string{"-input", in, "-min-total-impressions", "42", "-out-dir", t.TempDir()}); code != 2 {
		t.Fatalf("exit code = %d; want 2", code)
	}
}

func TestRunWritesBothExports(t *testing.T) {
	in := writeInput(t, gscCSV)
	out := t.TempDir()
	if code := run([]string{"-input", in, "-out-dir", out, "-min-impressions-share", "0.5"}); code != 0 {
		t.Fatalf("exit code = %d; want 0", code)
	}

	full, _ := filepath.Glob(filepath.Join(out, "*", "Full data - unfiltered.csv"))
	filtered, _ := filepath.Glob(filepath.Join(out, "*", "output.csv"))
	if len(full) != 1 || len(filtered) != 1 {
		t.Fatalf("expected one run directory with both files, got %v %v", full, filtered)
	}

	data, err := os.ReadFile(full[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 3 {
		t.Errorf("full export: got %d lines, want header + 2 shoes rows", lines)
	}

	data, err = os.ReadFile(filtered[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "shoes,/shoes,40,80,100,50,0.8,0.8,true,true") || strings.Contains(string(data), "/running-shoes") {
		t.Errorf("filtered export should keep only the dominant shoes row, got:\n%s", data)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	t.Setenv("DETECT_IMPRESSION_TH", "1.5")
	in := writeInput(t, gscCSV)
	if code := run([]string{"-input", in, "-out-dir", t.TempDir()}); code != 1 {
		t.Fatalf("exit code = %d; want 1", code)
	}
}
