package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/baditaflorin/go_document_similarity/pkg/similarity"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("expected %q in output:\n%s", needle, haystack)
	}
}

func TestCheckTable(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", []byte("the cat sat"))
	b := writeFile(t, dir, "b.txt", []byte("The cat sat."))
	c := writeFile(t, dir, "c.txt", []byte("dog ran far"))

	out, _, err := runCLI(t, "check", a, b, c)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "File 1")
	requireContains(t, out, "Similarity Level")
	requireContains(t, out, "100.0%")
	requireContains(t, out, "0.0%")
	requireContains(t, out, "High Similarity")
	requireContains(t, out, "Low Similarity")
	requireContains(t, out, "1 of 3 pairs at or above 75% similarity")
}

func TestCheckJSON(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", []byte("one two three"))
	b := writeFile(t, dir, "b.txt", []byte("one two four"))

	out, _, err := runCLI(t, "check", "--output", "json", "--threshold", "10", a, b)
	if err != nil {
		t.Fatalf("check: %v", err)
	}

	var report similarity.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode %s: %v", out, err)
	}
	if report.Threshold != 10 || len(report.Pairs) != 1 {
		t.Fatalf("report = %+v", report)
	}
	p := report.Pairs[0]
	if p.NameA != "a.txt" || p.NameB != "b.txt" {
		t.Errorf("pair names = %s, %s", p.NameA, p.NameB)
	}
	if p.Similarity <= 10 || p.Similarity >= 100 || p.Label != similarity.LabelHigh {
		t.Errorf("pair = %+v", p)
	}
}

func TestCheckSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", []byte("shared text"))
	bad := writeFile(t, dir, "bad.txt", []byte{0xff, 0xfe})
	missing := filepath.Join(dir, "missing.txt")
	b := writeFile(t, dir, "b.txt", []byte("shared text"))

	out, errOut, err := runCLI(t, "check", a, bad, missing, b)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, errOut, "Error reading missing.txt")
	requireContains(t, errOut, "Error reading bad.txt")
	requireContains(t, out, "1 of 1 pairs")
}

func TestCheckSingleDocument(t *testing.T) {
	a := writeFile(t, t.TempDir(), "a.txt", []byte("alone"))

	out, _, err := runCLI(t, "check", a)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "No pairs to compare")
}

func TestCheckNoReadableContent(t *testing.T) {
	bad := writeFile(t, t.TempDir(), "bad.txt", []byte{0xff})

	_, _, err := runCLI(t, "check", bad)
	if !errors.Is(err, errNoReadableContent) {
		t.Errorf("error = %v, want errNoReadableContent", err)
	}
}

func TestCheckInvalidFlags(t *testing.T) {
	a := writeFile(t, t.TempDir(), "a.txt", []byte("text"))

	if _, _, err := runCLI(t, "check", "--threshold", "101", a); !errors.Is(err, similarity.ErrInvalidThreshold) {
		t.Errorf("threshold 101: error = %v", err)
	}
	if _, _, err := runCLI(t, "check", "--output", "xml", a); err == nil {
		t.Error("expected error for unknown output format")
	}
	if _, _, err := runCLI(t, "check", "--normalizer", "turbo", a); err == nil {
		t.Error("expected error for unknown normalizer")
	}
}

func TestCheckUsesConfigThreshold(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", []byte("similarity:\n  threshold: 5\n"))
	a := writeFile(t, dir, "a.txt", []byte("one two three"))
	b := writeFile(t, dir, "b.txt", []byte("one two four"))

	out, _, err := runCLI(t, "--config", cfgPath, "check", a, b)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "1 of 1 pairs at or above 5% similarity")
}

func TestCheckUsesConfigPrecision(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", []byte("similarity:\n  precision: 0\n"))
	a := writeFile(t, dir, "a.txt", []byte("one two three"))
	b := writeFile(t, dir, "b.txt", []byte("one two four"))

	out, _, err := runCLI(t, "--config", cfgPath, "check", "--output", "json", a, b)
	if err != nil {
		t.Fatalf("check: %v", err)
	}

	var report similarity.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode %s: %v", out, err)
	}
	if len(report.Pairs) != 1 {
		t.Fatalf("pairs = %+v, want one pair", report.Pairs)
	}
	if got := report.Pairs[0].Similarity; got != math.Round(got) || got <= 0 || got >= 100 {
		t.Errorf("similarity = %v, want a whole percentage between 0 and 100", got)
	}
}

func TestCheckTableHeaders(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", []byte("one two three"))
	b := writeFile(t, dir, "b.txt", []byte("one two four"))

	out, _, err := runCLI(t, "check", a, b)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, header := range []string{"File 1", "File 2", "Similarity (%)", "Similarity Level"} {
		requireContains(t, out, header)
	}
	if strings.Contains(out, "FILE 1") {
		t.Errorf("headers should keep their case:\n%s", out)
	}
}
