package store

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"direktmap/internal/duration"
	"direktmap/internal/station"
	"direktmap/internal/upstream"
)

func TestWithDBName(t *testing.T) {
	tests := []struct {
		dsn, db, want string
		wantErr       bool
	}{
		{"postgres://u:p@h:5432/postgres?sslmode=disable", "direktmap", "postgres://u:p@h:5432/direktmap?sslmode=disable", false},
		{"postgresql://h/old", "/new", "postgresql://h/new", false},
		{"h:5432/old", "new", "postgres://h:5432/new", false},
		{"", "x", "", true},
		{"mysql://h/old", "new", "", true},
	}
	for _, tt := range tests {
		got, err := WithDBName(tt.dsn, tt.db)
		if (err != nil) != tt.wantErr {
			t.Errorf("WithDBName(%q) err = %v", tt.dsn, err)
			continue
		}
		if got != tt.want {
			t.Errorf("WithDBName(%q, %q) = %q, want %q", tt.dsn, tt.db, got, tt.want)
		}
	}
}

func TestConnectRejectsBadDatabaseOverride(t *testing.T) {
	_, err := Connect(context.Background(), "mysql://h/old", "direktmap")
	if err == nil || !strings.Contains(err.Error(), "compose DSN") {
		t.Errorf("expected compose DSN error, got %v", err)
	}
}

func TestRedact(t *testing.T) {
	if got := Redact("postgres://app:secret@h/db"); got != "postgres://app:xxxxx@h/db" {
		t.Errorf("Redact = %q", got)
	}
	if got := Redact("postgres://h/db"); got != "postgres://h/db" {
		t.Errorf("Redact without user = %q", got)
	}
}

func TestDecodePayload(t *testing.T) {
	in := []upstream.Connection{
		{ID: "8000250", Name: "Wiesbaden Hbf", Location: &station.Location{Latitude: 50.07, Longitude: 8.24}, Duration: duration.Minutes(30)},
		{ID: "8000261", Name: "München Hbf", Location: &station.Location{Latitude: 48.14, Longitude: 11.56}},
	}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := decodePayload(b)
	if err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	if len(out) != 2 || *out[0].Duration != 30 || out[1].Duration != nil {
		t.Errorf("unexpected payload %+v", out)
	}
	if _, err := decodePayload([]byte("{")); err == nil {
		t.Error("expected error for truncated payload")
	}
}
