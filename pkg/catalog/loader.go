package catalog

import (
	"context"
	"fmt"

	"IsraBot/pkg/source"
)

// Load reads the link list once. An empty location yields an empty catalog.
func Load(ctx context.Context, reader source.IReader, base, location string) (ICatalog, error) {
	if location == "" {
		return New(base, nil), nil
	}

	data, err := reader.Read(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to load link catalog: %w", err)
	}

	return Parse(base, data), nil
}
