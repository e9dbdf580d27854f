package isbn_test

import (
	"errors"
	"strings"
	"testing"

	"folio/internal/isbn"
)

func TestTo13KnownValues(t *testing.T) {
	cases := map[string]string{
		"0441569579": "9780441569571",
		"0156235501": "9780156235501",
		"080442957X": "9780804429573",
		"080442957x": "9780804429573",
	}
	for in, want := range cases {
		got, err := isbn.To13(in)
		if err != nil {
			t.Fatalf("To13(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Fatalf("To13(%q) = %q, want %q", in, got, want)
		}
		if !strings.HasPrefix(got, "978") {
			t.Fatalf("To13(%q) = %q, want 978 prefix", in, got)
		}
	}
}

func TestTo10KnownValues(t *testing.T) {
	cases := map[string]string{
		"9780441569571": "0441569579",
		"9780804429573": "080442957X",
	}
	for in, want := range cases {
		got, ok, err := isbn.To10(in)
		if err != nil {
			t.Fatalf("To10(%q) returned error: %v", in, err)
		}
		if !ok {
			t.Fatalf("To10(%q) reported no short form", in)
		}
		if got != want {
			t.Fatalf("To10(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRoundTrips(t *testing.T) {
	shorts := []string{"0441569579", "0156235501", "080442957X", "0306406152", "0000000000"}
	for _, short := range shorts {
		long, err := isbn.To13(short)
		if err != nil {
			t.Fatalf("To13(%q): %v", short, err)
		}
		back, ok, err := isbn.To10(long)
		if err != nil || !ok {
			t.Fatalf("To10(%q) = %q, %v, %v", long, back, ok, err)
		}
		if back != short {
			t.Fatalf("round trip %q -> %q -> %q", short, long, back)
		}
		again, err := isbn.To13(back)
		if err != nil {
			t.Fatalf("To13(%q): %v", back, err)
		}
		if again != long {
			t.Fatalf("round trip %q -> %q -> %q", long, back, again)
		}
	}
}

func TestTo10SkipsNon978Prefix(t *testing.T) {
	got, ok, err := isbn.To10("9791032305690")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || got != "" {
		t.Fatalf("expected skip, got %q ok=%v", got, ok)
	}
}

func TestInvalidFormats(t *testing.T) {
	for _, in := range []string{"", "12345", "044156957", "04415695790", "04415X9579", "978044156957X"} {
		if _, _, err := isbn.Alternate(in); !errors.Is(err, isbn.ErrInvalidFormat) {
			t.Fatalf("Alternate(%q) error = %v, want ErrInvalidFormat", in, err)
		}
	}
	if _, err := isbn.To13("9780441569571"); !errors.Is(err, isbn.ErrInvalidFormat) {
		t.Fatalf("To13 on long form should fail, got %v", err)
	}
	if _, _, err := isbn.To10("0441569579"); !errors.Is(err, isbn.ErrInvalidFormat) {
		t.Fatalf("To10 on short form should fail, got %v", err)
	}
}

func TestAlternateDispatchesOnLength(t *testing.T) {
	long, ok, err := isbn.Alternate("0441569579")
	if err != nil || !ok || long != "9780441569571" {
		t.Fatalf("Alternate short = %q, %v, %v", long, ok, err)
	}
	short, ok, err := isbn.Alternate("9780441569571")
	if err != nil || !ok || short != "0441569579" {
		t.Fatalf("Alternate long = %q, %v, %v", short, ok, err)
	}
}
