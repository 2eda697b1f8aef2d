package bcrypt

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	b := NewWithCost(bcrypt.MinCost)

	hash, err := b.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := b.ComparePassword(hash, "s3cret"); err != nil {
		t.Fatalf("ComparePassword: %v", err)
	}
	if err := b.ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("wrong password accepted")
	}
}

func TestCostFromEnv(t *testing.T) {
	tests := []struct {
		env  string
		want int
	}{
		{env: "", want: bcrypt.DefaultCost},
		{env: "5", want: 5},
		{env: "99", want: bcrypt.DefaultCost},
		{env: "abc", want: bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Setenv("BCRYPT_COST", tt.env)
		if got := New().(*bcryptService).cost; got != tt.want {
			t.Fatalf("BCRYPT_COST=%q cost = %d, want %d", tt.env, got, tt.want)
		}
	}
}
