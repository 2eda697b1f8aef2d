package catalog

import (
	"bufio"
	"bytes"
	"path"
	"strings"

	"IsraBot/internal/entity"
	"IsraBot/pkg/nlp"
)

// MaxMatches caps every recommendation.
const MaxMatches = 3

type ICatalog interface {
	Match(filters entity.Filters) []string
	Districts() []string
	URLs() []string
	Len() int
}

type link struct {
	url   string
	lower string
	parts []string
}

type Catalog struct {
	base  string
	links []link
}

// New keeps the URLs shaped like <base>/<city>-<district>...; everything
// else is skipped.
func New(base string, urls []string) ICatalog {
	base = strings.TrimRight(strings.ToLower(strings.TrimSpace(base)), "/")
	c := &Catalog{base: base}

	for _, raw := range urls {
		u := strings.TrimSpace(raw)
		lower := strings.ToLower(u)
		if !strings.HasPrefix(lower, base+"/") {
			continue
		}

		rest := strings.TrimPrefix(lower, base+"/")
		segment := strings.SplitN(rest, "/", 2)[0]
		if segment == "" || len(strings.Split(segment, "-")) < 2 {
			continue
		}

		c.links = append(c.links, link{
			url:   u,
			lower: lower,
			parts: strings.Split(rest, "-"),
		})
	}

	return c
}

// Parse reads a newline delimited URL list.
func Parse(base string, data []byte) ICatalog {
	var urls []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return New(base, urls)
}

func (c *Catalog) Len() int {
	return len(c.links)
}

func (c *Catalog) URLs() []string {
	out := make([]string, 0, len(c.links))
	for _, l := range c.links {
		out = append(out, l.url)
	}
	return out
}

// Districts returns the second slug token of every link, without extension.
func (c *Catalog) Districts() []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range c.links {
		d := districtToken(l.parts[1])
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

// Match returns up to MaxMatches URLs in catalog order that satisfy every
// filter that is set.
func (c *Catalog) Match(f entity.Filters) []string {
	var cityPrefix, district string
	if f.City != "" {
		cityPrefix = c.base + "/" + nlp.Slug(f.City)
	}
	if f.District != "" {
		district = nlp.Slug(f.District)
	}

	var matches []string
	for _, l := range c.links {
		if cityPrefix != "" && !strings.HasPrefix(l.lower, cityPrefix) {
			continue
		}
		if district != "" && !districtMatches(l.parts[1], district) {
			continue
		}
		if !serviceMatches(l.lower, f.ServiceType) {
			continue
		}
		if !detailMatches(l.lower, f.ServiceType, f.Detail) {
			continue
		}

		matches = append(matches, l.url)
		if len(matches) == MaxMatches {
			break
		}
	}

	return matches
}

func districtToken(part string) string {
	part = strings.SplitN(part, "/", 2)[0]
	return strings.TrimSuffix(part, path.Ext(part))
}

func districtMatches(segment, district string) bool {
	if segment == "" {
		return false
	}
	return strings.Contains(segment, district) || strings.Contains(district, segment)
}

func serviceMatches(u string, service entity.ServiceType) bool {
	switch service {
	case entity.ServiceMehter:
		return strings.Contains(u, "mehter")
	case entity.ServicePalyaco:
		return strings.Contains(u, "palyaco")
	case entity.ServiceSunnetDugunu:
		return strings.Contains(u, "sunnet") || strings.Contains(u, "dugunu")
	case entity.ServiceBando:
		return strings.Contains(u, "bando")
	case entity.ServiceKaragoz:
		return strings.Contains(u, "karagoz") || strings.Contains(u, "golge")
	default:
		return true
	}
}

// detailMatches ignores details the service cannot be filtered on.
func detailMatches(u string, service entity.ServiceType, detail string) bool {
	if detail == "" || !nlp.ValidDetail(service, detail) {
		return true
	}
	switch service {
	case entity.ServiceMehter:
		return strings.Contains(u, "-"+detail+".")
	case entity.ServicePalyaco:
		return strings.Contains(u, detail)
	default:
		return true
	}
}
