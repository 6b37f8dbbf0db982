// Package schema resolves and caches table schemas. The live database
// catalog is authoritative when reachable; embedded fallback definitions
// cover the known recruiting tables when it is not.
package schema

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/orza-hq/orza-engine/pkg/apperrors"
	"github.com/orza-hq/orza-engine/pkg/logging"
	"github.com/orza-hq/orza-engine/pkg/models"
)

// CatalogLookup fetches live column metadata for a table.
// An implementation backed by Postgres lives in pkg/store.
type CatalogLookup interface {
	SchemaLookup(ctx context.Context, table string) (*models.TableSchema, error)
}

// Registry caches one schema per table for the life of the process.
// Reads are lock-free after population; concurrent first access for the
// same table collapses onto a single catalog lookup.
type Registry struct {
	catalog CatalogLookup
	logger  *zap.Logger

	mu    sync.RWMutex
	cache map[string]*models.TableSchema

	group singleflight.Group
}

// NewRegistry creates a schema registry backed by the given catalog.
// catalog may be nil, in which case only the embedded fallback schemas
// are available (used in tests and offline tooling).
func NewRegistry(catalog CatalogLookup, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		catalog: catalog,
		logger:  logger,
		cache:   make(map[string]*models.TableSchema),
	}
}

// Resolve returns the schema for a table. Resolution order: cache, live
// catalog, embedded fallback. A table unknown to both the catalog and the
// fallback set fails with apperrors.ErrSchemaNotFound.
func (r *Registry) Resolve(ctx context.Context, table string) (*models.TableSchema, error) {
	r.mu.RLock()
	cached, ok := r.cache[table]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := r.group.Do(table, func() (any, error) {
		// Re-check under the flight: another caller may have populated
		// the cache between the read above and entering the group.
		r.mu.RLock()
		cached, ok := r.cache[table]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		resolved, err := r.load(ctx, table)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[table] = resolved
		r.mu.Unlock()
		return resolved, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.TableSchema), nil
}

func (r *Registry) load(ctx context.Context, table string) (*models.TableSchema, error) {
	fallback := FallbackSchema(table)

	if r.catalog != nil {
		live, err := r.catalog.SchemaLookup(ctx, table)
		switch {
		case err != nil:
			r.logger.Warn("Catalog lookup failed, using fallback schema",
				zap.String("table", table),
				zap.String("error", logging.SanitizeError(err)))
		case live == nil || len(live.Columns) == 0:
			r.logger.Warn("Catalog returned no columns, using fallback schema",
				zap.String("table", table))
		default:
			r.warnOnDrift(table, live, fallback)
			return live, nil
		}
	}

	if fallback == nil {
		return nil, fmt.Errorf("table %s: %w", table, apperrors.ErrSchemaNotFound)
	}
	return fallback, nil
}

// warnOnDrift logs columns present in exactly one of the live and embedded
// definitions. The live schema still wins; the log exists so a divergence
// is never silent.
func (r *Registry) warnOnDrift(table string, live, fallback *models.TableSchema) {
	if fallback == nil {
		return
	}

	var drifted []string
	for name := range live.Columns {
		if !fallback.HasColumn(name) {
			drifted = append(drifted, "+"+name)
		}
	}
	for name := range fallback.Columns {
		if !live.HasColumn(name) {
			drifted = append(drifted, "-"+name)
		}
	}
	if len(drifted) == 0 {
		return
	}
	sort.Strings(drifted)
	r.logger.Warn("Live catalog differs from embedded fallback schema",
		zap.String("table", table),
		zap.Strings("columns", drifted))
}

// Invalidate drops the cached schema for one table. The next Resolve
// re-runs the full lookup.
func (r *Registry) Invalidate(table string) {
	r.mu.Lock()
	delete(r.cache, table)
	r.mu.Unlock()
}

// Reload drops every cached schema.
func (r *Registry) Reload() {
	r.mu.Lock()
	r.cache = make(map[string]*models.TableSchema)
	r.mu.Unlock()
}
