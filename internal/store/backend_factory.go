package store

import (
	"context"
	"fmt"
	"net/url"
	"streamwatch/internal/providers"
	"streamwatch/internal/store/interfaces"
	"streamwatch/internal/structures"
	"strings"
)

// NewBackend picks a backend from the storage DSN scheme:
// memory://, file:///abs/path or a bare path, postgres:// and postgresql://.
func NewBackend(conf *structures.Config, fileManager *FileManager, logger providers.Logger, metrics providers.MetricsProviderInterface) (interfaces.BackendInterface, error) {
	dsn := strings.TrimSpace(conf.Storage.DSN)
	if dsn == "" {
		return nil, ErrInvalidInput
	}
	parsed, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse storage dsn: %w", err)
	}

	switch strings.ToLower(parsed.Scheme) {
	case "memory", "mem", "inmem":
		logger.Infof(providers.TypeApp, "Using in-memory state store")
		return NewMemoryBackend(), nil
	case "", "file":
		path := dsnPath(parsed, dsn)
		if path == "" {
			return nil, fmt.Errorf("file storage dsn %q has no path: %w", dsn, ErrInvalidInput)
		}
		logger.Infof(providers.TypeApp, "Using file state store at %s", path)
		return NewFileBackend(path, fileManager, logger, metrics), nil
	case "postgres", "postgresql":
		logger.Infof(providers.TypeApp, "Using postgres state store at %s", parsed.Host)
		return NewPostgresBackend(context.Background(), dsn)
	default:
		return nil, fmt.Errorf("unsupported storage scheme %q: %w", parsed.Scheme, ErrInvalidInput)
	}
}

func dsnPath(parsed *url.URL, raw string) string {
	if parsed.Scheme == "" {
		return raw
	}
	if parsed.Opaque != "" {
		return parsed.Opaque
	}
	if parsed.Host != "" && parsed.Host != "localhost" {
		return parsed.Host + parsed.Path
	}
	return parsed.Path
}
