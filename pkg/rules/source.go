package rules

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path"
	"strings"

	"IsraBot/internal/entity"
	"IsraBot/pkg/google"
	"IsraBot/pkg/nlp"
	"IsraBot/pkg/source"
	"gopkg.in/yaml.v3"
)

type Source interface {
	Fetch(ctx context.Context) ([]entity.Rule, error)
	String() string
}

// NewSource picks the source by location: sheets://<id>/<range> for Google
// Sheets, *.yaml / *.yml for YAML and anything else as CSV.
func NewSource(location string, reader source.IReader, sheets google.ItfGoogle) (Source, error) {
	switch {
	case location == "":
		return emptySource{}, nil
	case strings.HasPrefix(location, "sheets://"):
		if sheets == nil {
			return nil, fmt.Errorf("sheet source %s requested but google sheets is not configured", location)
		}
		id, readRange, ok := strings.Cut(strings.TrimPrefix(location, "sheets://"), "/")
		if !ok || id == "" || readRange == "" {
			return nil, fmt.Errorf("invalid sheet location %s", location)
		}
		return &sheetSource{sheets: sheets, spreadsheetID: id, readRange: readRange}, nil
	case isYAML(location):
		return &yamlSource{reader: reader, location: location}, nil
	default:
		return &csvSource{reader: reader, location: location}, nil
	}
}

func isYAML(location string) bool {
	ext := strings.ToLower(path.Ext(location))
	return ext == ".yaml" || ext == ".yml"
}

type emptySource struct{}

func (emptySource) Fetch(context.Context) ([]entity.Rule, error) { return nil, nil }
func (emptySource) String() string                               { return "none" }

type csvSource struct {
	reader   source.IReader
	location string
}

func (s *csvSource) Fetch(ctx context.Context) ([]entity.Rule, error) {
	data, err := s.reader.Read(ctx, s.location)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse rules csv %s: %w", s.location, err)
	}

	return FromRows(rows), nil
}

func (s *csvSource) String() string { return s.location }

type yamlSource struct {
	reader   source.IReader
	location string
}

type yamlDocument struct {
	Rules []entity.Rule `yaml:"rules"`
}

func (s *yamlSource) Fetch(ctx context.Context) ([]entity.Rule, error) {
	data, err := s.reader.Read(ctx, s.location)
	if err != nil {
		return nil, err
	}

	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rules yaml %s: %w", s.location, err)
	}

	out := make([]entity.Rule, 0, len(doc.Rules))
	for _, rule := range doc.Rules {
		rule.Keywords = cleanKeywords(rule.Keywords)
		if len(rule.Keywords) == 0 {
			continue
		}
		out = append(out, rule)
	}
	return out, nil
}

func (s *yamlSource) String() string { return s.location }

type sheetSource struct {
	sheets        google.ItfGoogle
	spreadsheetID string
	readRange     string
}

func (s *sheetSource) Fetch(ctx context.Context) ([]entity.Rule, error) {
	rows, err := s.sheets.ReadRange(ctx, s.spreadsheetID, s.readRange)
	if err != nil {
		return nil, err
	}
	return FromRows(rows), nil
}

func (s *sheetSource) String() string {
	return "sheets://" + s.spreadsheetID + "/" + s.readRange
}

var headerNames = map[string]bool{
	"keyword":        true,
	"keywords":       true,
	"anahtar kelime": true,
}

// FromRows converts keyword,response,link rows. A header row is skipped and
// rows without a keyword are dropped.
func FromRows(rows [][]string) []entity.Rule {
	var out []entity.Rule
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if i == 0 && headerNames[nlp.Normalize(row[0])] {
			continue
		}

		keywords := cleanKeywords(splitKeywords(row[0]))
		if len(keywords) == 0 {
			continue
		}

		rule := entity.Rule{Keywords: keywords}
		if len(row) > 1 {
			rule.Response = strings.TrimSpace(row[1])
		}
		if len(row) > 2 {
			rule.Link = strings.TrimSpace(row[2])
		}
		out = append(out, rule)
	}
	return out
}

func splitKeywords(cell string) []string {
	return strings.FieldsFunc(cell, func(r rune) bool {
		return r == '|' || r == ','
	})
}

func cleanKeywords(keywords []string) []string {
	var out []string
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
