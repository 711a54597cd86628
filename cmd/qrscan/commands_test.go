package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

func writeQR(t *testing.T, dir, name, content string) string {
	t.Helper()
	matrix, err := qrcode.NewQRCodeWriter().Encode(content, gozxing.BarcodeFormat_QR_CODE, 256, 256, nil)
	if err != nil {
		t.Fatalf("encode qr: %v", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, matrix); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScanHistoryDelete(t *testing.T) {
	for _, key := range []string{"CONFIG_FILE", "DATABASE_PATH", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	db := filepath.Join(dir, "data", "qr.db")
	site := writeQR(t, dir, "site.png", "https://go.dev")
	wifi := writeQR(t, dir, "wifi.png", "WIFI:S:Home;P:hunter2;;")

	out, err := run(t, "--db", db, "scan", site, wifi, site)
	if err != nil {
		t.Fatalf("scan: %v\n%s", err, out)
	}
	if !strings.Contains(out, "SSID: Home\nPassword: hunter2") {
		t.Errorf("missing wifi card:\n%s", out)
	}
	if !strings.Contains(out, "Actions: Open, Copy") {
		t.Errorf("missing website actions:\n%s", out)
	}

	out, err = run(t, "--db", db, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if diff := cmp.Diff(2, len(lines)); diff != "" {
		t.Fatalf("history lines (-want +got):\n%s\n%s", diff, out)
	}
	if !strings.Contains(lines[0], "https://go.dev") || !strings.Contains(lines[1], "Home : hunter2") {
		t.Errorf("unexpected history order:\n%s", out)
	}

	out, err = run(t, "--db", db, "history", "--tag", "wifi")
	if err != nil {
		t.Fatalf("history wifi: %v", err)
	}
	if strings.Contains(out, "go.dev") {
		t.Errorf("tag filter not applied:\n%s", out)
	}

	out, err = run(t, "--db", db, "show", "#2")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "Copy:  hunter2") {
		t.Errorf("missing copy text:\n%s", out)
	}

	if _, err := run(t, "--db", db, "delete", "2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := run(t, "--db", db, "delete", "2"); err == nil {
		t.Error("expected error deleting a missing scan")
	}

	out, err = run(t, "--db", db, "history", "--tag", "wifi")
	if err != nil {
		t.Fatalf("history wifi after delete: %v", err)
	}
	if diff := cmp.Diff("No scans match.\n", out); diff != "" {
		t.Errorf("empty filtered history (-want +got):\n%s", diff)
	}

	if _, err := run(t, "--db", db, "history", "--tag", "phone"); err == nil {
		t.Error("expected error for unknown tag")
	}
}

func TestHistoryEmpty(t *testing.T) {
	for _, key := range []string{"CONFIG_FILE", "DATABASE_PATH", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
	db := filepath.Join(t.TempDir(), "qr.db")

	for _, args := range [][]string{
		{"--db", db, "history"},
		{"--db", db, "history", "--search", "go"},
	} {
		out, err := run(t, args...)
		if err != nil {
			t.Fatalf("history %v: %v", args, err)
		}
		if diff := cmp.Diff("No QR Code history found\n", out); diff != "" {
			t.Errorf("history %v (-want +got):\n%s", args, diff)
		}
	}
}

func TestScanNoCode(t *testing.T) {
	for _, key := range []string{"CONFIG_FILE", "DATABASE_PATH", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("not an image"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := run(t, "--db", filepath.Join(dir, "qr.db"), "scan", path)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(out, "failed to decode QR code") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
