package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunSheetDirect(t *testing.T) {
	t.Setenv("ORS_API_KEY", "")

	path := filepath.Join(t.TempDir(), "Addresses.csv")
	data := "Address,Latitude,Longitude\n" +
		"UCI,33.6405,-117.8443\n" +
		"Woodbridge,33.6780,-117.8034\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write sheet: %v", err)
	}

	var out bytes.Buffer
	if err := run(context.Background(), &out, "", path, "direct", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	for _, want := range []string{" 1. UCI", " 2. Woodbridge", "Total distance (direct): 5.63 km"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunRequiresOneSource(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), &out, "", "", "direct", ""); err == nil {
		t.Fatalf("expected an error without -text or -sheet")
	}
	if err := run(context.Background(), &out, "A -> B", "x.csv", "direct", ""); err == nil {
		t.Fatalf("expected an error with both -text and -sheet")
	}
}

func TestRunRoutedNeedsKey(t *testing.T) {
	t.Setenv("ORS_API_KEY", "")

	path := filepath.Join(t.TempDir(), "Addresses.csv")
	if err := os.WriteFile(path, []byte("Address,Latitude,Longitude\nA,1,1\n"), 0o644); err != nil {
		t.Fatalf("write sheet: %v", err)
	}

	var out bytes.Buffer
	if err := run(context.Background(), &out, "", path, "routed", ""); err == nil {
		t.Fatalf("expected an error for routed mode without ORS_API_KEY")
	}
}
