package utils

import (
	"testing"
	"time"
)

func TestNewULIDFromTimestamp(t *testing.T) {
	u := New()
	a, err := u.NewULIDFromTimestamp(time.Now())
	if err != nil {
		t.Fatalf("NewULIDFromTimestamp: %v", err)
	}
	b, _ := u.NewULIDFromTimestamp(time.Now())
	if len(a) != 26 || a == b {
		t.Fatalf("ids %q and %q", a, b)
	}
}

func TestPhoneDigits(t *testing.T) {
	tests := map[string]string{
		"whatsapp:+905551112233": "905551112233",
		"+90 555 111 22 33":      "905551112233",
		"905551112233":           "905551112233",
		"":                       "",
	}
	for in, want := range tests {
		if got := PhoneDigits(in); got != want {
			t.Fatalf("PhoneDigits(%q) = %q, want %q", in, got, want)
		}
	}
}
