package nlp

import (
	"sort"
	"strings"

	"IsraBot/internal/entity"
)

type cityName struct {
	display    string
	normalized string
}

type Extractor struct {
	cities    []cityName
	districts []string
}

// NewExtractor builds an extractor over the configured cities and the
// district tokens known from the link catalog. Text passed to its methods
// must already be normalized.
func NewExtractor(cities []string, districts []string) IExtractor {
	e := &Extractor{}

	for _, c := range cities {
		n := Normalize(c)
		if n == "" {
			continue
		}
		e.cities = append(e.cities, cityName{display: strings.TrimSpace(c), normalized: n})
	}

	seen := make(map[string]bool, len(districts))
	for _, d := range districts {
		n := Normalize(d)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		e.districts = append(e.districts, n)
	}
	sort.Strings(e.districts)

	return e
}

// Extract returns current with every slot found in text overwritten. Slots
// not found keep their previous value, except a detail the service cannot use.
func (e *Extractor) Extract(text string, current entity.Filters) entity.Filters {
	f := current

	if city, ok := e.City(text); ok {
		f.City = city
	}

	if district, ok := e.District(text); ok {
		f.District = district
	}

	if service, ok := DetectService(text); ok {
		f.ServiceType = service
	}
	if !ValidDetail(f.ServiceType, f.Detail) {
		f.Detail = ""
	}

	if detail, ok := DetectDetail(text, f.ServiceType); ok {
		f.Detail = detail
	}

	return f
}

// City returns the last configured city contained in text.
func (e *Extractor) City(text string) (string, bool) {
	found := ""
	for _, c := range e.cities {
		if strings.Contains(text, c.normalized) {
			found = c.display
		}
	}
	return found, found != ""
}

// District returns the last known district token contained in text.
func (e *Extractor) District(text string) (string, bool) {
	found := ""
	for _, d := range e.districts {
		if strings.Contains(text, d) {
			found = d
		}
	}
	return found, found != ""
}

func (e *Extractor) Cities() []string {
	out := make([]string, 0, len(e.cities))
	for _, c := range e.cities {
		out = append(out, c.display)
	}
	return out
}

func (e *Extractor) Districts() []string {
	return append([]string(nil), e.districts...)
}

// DetectService resolves the service type by keyword group priority.
func DetectService(text string) (entity.ServiceType, bool) {
	for _, group := range serviceGroups {
		for _, keyword := range group.Keywords {
			if strings.Contains(text, keyword) {
				return group.Service, true
			}
		}
	}
	return "", false
}

// DetectDetail finds the service specific detail. Mehter head counts must
// appear as a whole token so "18" is never read as "8".
func DetectDetail(text string, service entity.ServiceType) (string, bool) {
	switch service {
	case entity.ServiceMehter:
		for _, size := range mehterSizes {
			if containsToken(text, size) {
				return size, true
			}
		}
	case entity.ServicePalyaco:
		if strings.Contains(text, "2 saat") || strings.Contains(text, "2-saat") {
			return PalyacoTwoHours, true
		}
		if strings.Contains(text, "tum gun") || strings.Contains(text, "tum-gun") {
			return PalyacoAllDay, true
		}
	}
	return "", false
}

// ValidDetail reports whether detail is one the catalog can filter service
// links on. An empty detail is always valid.
func ValidDetail(service entity.ServiceType, detail string) bool {
	if detail == "" {
		return true
	}
	switch service {
	case entity.ServiceMehter:
		for _, size := range mehterSizes {
			if detail == size {
				return true
			}
		}
	case entity.ServicePalyaco:
		return detail == PalyacoTwoHours || detail == PalyacoAllDay
	}
	return false
}

// ParseLocation reads a bare location reply: one token is a city in its
// central district, two tokens are city and district. Service keywords are
// not location tokens and are skipped.
func ParseLocation(text string) (city string, district string, ok bool) {
	var tokens []string
	for _, token := range strings.Fields(text) {
		if _, isService := DetectService(token); isService {
			continue
		}
		tokens = append(tokens, token)
	}

	switch len(tokens) {
	case 1:
		return tokens[0], DefaultDistrict, true
	case 2:
		return tokens[0], tokens[1], true
	default:
		return "", "", false
	}
}
