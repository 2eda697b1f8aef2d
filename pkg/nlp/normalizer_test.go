package nlp

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"dotted capital i", "İSTANBUL", "istanbul"},
		{"turkish letters", "Kahramanmaraş Niğde Gölge Düğün Çocuk", "kahramanmaras nigde golge dugun cocuk"},
		{"dotless i", "Palyaçı ıspanak", "palyaci ispanak"},
		{"punctuation", "Mehter, 12'li!  lütfen...", "mehter 12 li lutfen"},
		{"whitespace", "  adana \t\n seyhan  ", "adana seyhan"},
		{"hyphen", "2-saat", "2 saat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"İSTANBUL",
		"Sünnet düğünü için bando?",
		"Adana Kozan mehter 12",
		"tüm gün palyaço",
		"  ŞŞŞ ĞĞĞ  ",
	}

	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestNormalizeCaseInsensitive(t *testing.T) {
	if Normalize("İSTANBUL") != Normalize("istanbul") {
		t.Fatalf("expected %q and %q to normalize equally", "İSTANBUL", "istanbul")
	}
	if Normalize("NİĞDE") != Normalize("niğde") {
		t.Fatalf("expected %q and %q to normalize equally", "NİĞDE", "niğde")
	}
}

func TestSlug(t *testing.T) {
	if got := Slug("Kahramanmaraş"); got != "kahramanmaras" {
		t.Fatalf("Slug = %q", got)
	}
	if got := Slug("Tüm Gün"); got != "tum-gun" {
		t.Fatalf("Slug = %q", got)
	}
}
