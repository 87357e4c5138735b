package helpers

import (
	"errors"
	"testing"
	"time"

	"github.com/Karthik-kushal/finalmini/internal/pkg/apperrors"
)

func TestParseEventDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-14T18:30:00Z", time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)},
		{"2025-03-14T18:30:00+05:30", time.Date(2025, 3, 14, 13, 0, 0, 0, time.UTC)},
		{"2025-03-14T18:30", time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)},
		{"2025-03-14 18:30", time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)},
		{"2025-03-14", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseEventDate(tc.in)
		if err != nil {
			t.Fatalf("ParseEventDate(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseEventDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "   ", "tomorrow", "14/03/2025"} {
		if _, err := ParseEventDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseEventDate(%q) err = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestParseID(t *testing.T) {
	if _, err := ParseID("9b2f7f4e-2b4a-4c44-9a55-2f6f2f1f1f1f"); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}
	_, err := ParseID("not-an-id")
	if !errors.Is(err, apperrors.ErrInvalidID) || !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("err = %v, want ErrInvalidID", err)
	}

	id, err := ParseOptionalID("")
	if err != nil || id != nil {
		t.Fatalf("ParseOptionalID(\"\") = %v, %v", id, err)
	}
	if _, err := ParseOptionalID("xyz"); err == nil {
		t.Fatal("expected error for malformed optional id")
	}
}

func TestParseDurationFallback(t *testing.T) {
	if got := ParseDuration("bogus", 3*time.Second); got != 3*time.Second {
		t.Fatalf("got %v", got)
	}
	if got := ParseDuration("250ms", time.Second); got != 250*time.Millisecond {
		t.Fatalf("got %v", got)
	}
}
