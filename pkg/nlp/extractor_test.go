package nlp

import (
	"testing"

	"IsraBot/internal/entity"
)

var testCities = []string{"Adana", "Niğde", "Mersin", "Kahramanmaraş", "Hatay", "Gaziantep", "Osmaniye", "Kilis", "Aksaray"}

func newTestExtractor() IExtractor {
	return NewExtractor(testCities, []string{"kozan", "seyhan", "ceyhan", "merkez", "tarsus"})
}

func TestExtractSingleMessage(t *testing.T) {
	e := newTestExtractor()

	got := e.Extract(Normalize("Adana Kozan mehter 12"), entity.Filters{})
	want := entity.Filters{City: "Adana", District: "kozan", ServiceType: entity.ServiceMehter, Detail: "12"}
	if got != want {
		t.Fatalf("Extract = %+v, want %+v", got, want)
	}
}

func TestExtractKeepsPriorValues(t *testing.T) {
	e := newTestExtractor()
	current := entity.Filters{City: "Mersin", District: "tarsus", ServiceType: entity.ServiceBando}

	got := e.Extract(Normalize("merhaba nasılsın"), current)
	if got != current {
		t.Fatalf("Extract changed filters without matches: %+v", got)
	}
}

func TestExtractIdempotent(t *testing.T) {
	e := newTestExtractor()
	texts := []string{
		"Adana Kozan mehter 12",
		"palyaço 2 saat Mersin Tarsus",
		"niğde sünnet düğünü",
		"karagöz hacivat hatay",
	}

	for _, text := range texts {
		n := Normalize(text)
		first := e.Extract(n, entity.Filters{})
		second := e.Extract(n, first)
		if first != second {
			t.Fatalf("second pass changed filters for %q: %+v -> %+v", text, first, second)
		}
	}
}

func TestExtractCityLastMatchWins(t *testing.T) {
	e := newTestExtractor()

	city, ok := e.City(Normalize("Adana ya da Hatay"))
	if !ok || city != "Hatay" {
		t.Fatalf("City = %q, %v", city, ok)
	}
}

func TestExtractCityDiacritics(t *testing.T) {
	e := newTestExtractor()

	city, ok := e.City(Normalize("KAHRAMANMARAŞ için"))
	if !ok || city != "Kahramanmaraş" {
		t.Fatalf("City = %q, %v", city, ok)
	}
}

func TestDetectServicePriority(t *testing.T) {
	tests := []struct {
		text string
		want entity.ServiceType
		ok   bool
	}{
		{"mehter ve palyaço", entity.ServiceMehter, true},
		{"palyaço istiyorum", entity.ServicePalyaco, true},
		{"palyaco", entity.ServicePalyaco, true},
		{"dini düğün", entity.ServiceSunnetDugunu, true},
		{"nikah için bando", entity.ServiceSunnetDugunu, true},
		{"bando takımı", entity.ServiceBando, true},
		{"gölge oyunu", entity.ServiceKaragoz, true},
		{"hacivat", entity.ServiceKaragoz, true},
		{"merhaba nasılsın", "", false},
	}

	for _, tt := range tests {
		got, ok := DetectService(Normalize(tt.text))
		if got != tt.want || ok != tt.ok {
			t.Fatalf("DetectService(%q) = %q, %v, want %q, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDetectDetail(t *testing.T) {
	tests := []struct {
		text    string
		service entity.ServiceType
		want    string
		ok      bool
	}{
		{"mehter 12", entity.ServiceMehter, "12", true},
		{"18 kişilik mehter", entity.ServiceMehter, "18", true},
		{"12'li mehter", entity.ServiceMehter, "12", true},
		{"mehter 10", entity.ServiceMehter, "", false},
		{"palyaço 2 saat", entity.ServicePalyaco, PalyacoTwoHours, true},
		{"palyaço 2-saat", entity.ServicePalyaco, PalyacoTwoHours, true},
		{"palyaço tüm gün", entity.ServicePalyaco, PalyacoAllDay, true},
		{"bando 12", entity.ServiceBando, "", false},
		{"12", "", "", false},
	}

	for _, tt := range tests {
		got, ok := DetectDetail(Normalize(tt.text), tt.service)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("DetectDetail(%q, %q) = %q, %v, want %q, %v", tt.text, tt.service, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractDetailUsesSessionService(t *testing.T) {
	e := newTestExtractor()

	got := e.Extract(Normalize("24 kişi olsun"), entity.Filters{ServiceType: entity.ServiceMehter})
	if got.Detail != "24" {
		t.Fatalf("Detail = %q, want 24", got.Detail)
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		text        string
		city, distr string
		ok          bool
	}{
		{"adana", "adana", DefaultDistrict, true},
		{"adana seyhan", "adana", "seyhan", true},
		{"", "", "", false},
		{"bilmiyorum henuz karar vermedim", "", "", false},
		{"mersin bando", "mersin", DefaultDistrict, true},
		{"palyaco adana seyhan", "adana", "seyhan", true},
		{"bando", "", "", false},
	}

	for _, tt := range tests {
		city, district, ok := ParseLocation(tt.text)
		if city != tt.city || district != tt.distr || ok != tt.ok {
			t.Fatalf("ParseLocation(%q) = %q, %q, %v", tt.text, city, district, ok)
		}
	}
}

func TestValidDetail(t *testing.T) {
	tests := []struct {
		service entity.ServiceType
		detail  string
		want    bool
	}{
		{entity.ServiceMehter, "", true},
		{entity.ServiceMehter, "12", true},
		{entity.ServiceMehter, "13", false},
		{entity.ServiceMehter, PalyacoTwoHours, false},
		{entity.ServicePalyaco, PalyacoAllDay, true},
		{entity.ServicePalyaco, "12", false},
		{entity.ServiceBando, "12", false},
	}

	for _, tt := range tests {
		if got := ValidDetail(tt.service, tt.detail); got != tt.want {
			t.Fatalf("ValidDetail(%s, %q) = %v, want %v", tt.service, tt.detail, got, tt.want)
		}
	}
}

func TestExtractDropsDetailOfPreviousService(t *testing.T) {
	e := newTestExtractor()

	f := e.Extract("mehter 12", entity.Filters{})
	if f.Detail != "12" {
		t.Fatalf("mehter detail = %q", f.Detail)
	}

	f = e.Extract("palyaco adana seyhan istiyorum", f)
	if f.ServiceType != entity.ServicePalyaco || f.Detail != "" {
		t.Fatalf("filters after service switch = %+v", f)
	}
}
