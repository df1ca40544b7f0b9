package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// SourceBuiltin selects the compiled-in rules.
const SourceBuiltin = "builtin"

// Load resolves a catalog source: "builtin", a .json/.yaml file, or a SQL store.
func Load(ctx context.Context, source string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch {
	case source == "" || source == SourceBuiltin:
		c := Builtin()
		logger.Info("using builtin catalog", "version", c.Version(), "rules", c.Len())
		return c, nil

	case IsStoreSource(source):
		store, err := OpenStore(ctx, source, logger)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		c, err := store.Load(ctx)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded catalog from store", "version", c.Version(), "rules", c.Len())
		return c, nil

	default:
		switch strings.ToLower(filepath.Ext(source)) {
		case ".json", ".yaml", ".yml":
		default:
			return nil, fmt.Errorf("unrecognized catalog source %q", source)
		}
		c, err := LoadFile(source)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded catalog file", "path", source, "version", c.Version(), "rules", c.Len())
		return c, nil
	}
}
