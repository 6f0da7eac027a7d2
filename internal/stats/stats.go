// Package stats reports store contents, weather cache health and process
// runtime figures.
package stats

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/alexivanou/geoweather/internal/config"
	"github.com/jmoiron/sqlx"
	"github.com/patrickmn/go-cache"
)

type Stats struct {
	Timestamp time.Time     `json:"timestamp"`
	Memory    MemoryStats   `json:"memory"`
	Database  DatabaseStats `json:"database"`
	Cache     CacheStats    `json:"weather_cache"`
	Runtime   RuntimeStats  `json:"runtime"`
}

type MemoryStats struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"num_gc"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	HeapInuse  uint64 `json:"heap_inuse"`
}

type DatabaseStats struct {
	Type         string      `json:"type"`
	TotalRecords int64       `json:"total_records"`
	SizeBytes    int64       `json:"size_bytes"`
	TableStats   []TableStat `json:"table_stats"`
}

type TableStat struct {
	Name      string `json:"name"`
	RowCount  int64  `json:"row_count"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

// CacheStats splits cached snapshots by the freshness window
type CacheStats struct {
	Fresh  int64      `json:"fresh"`
	Stale  int64      `json:"stale"`
	Oldest *time.Time `json:"oldest,omitempty"`
	Newest *time.Time `json:"newest,omitempty"`
}

type RuntimeStats struct {
	NumGoroutines int   `json:"num_goroutines"`
	NumCPU        int   `json:"num_cpu"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

var (
	trackedTables         = []string{"favorites", "weather_cache"}
	memStatsCacheDuration = 5 * time.Second
)

const memStatsKey = "mem"

type Collector struct {
	db        *sqlx.DB
	config    config.DBConfig
	freshness time.Duration
	now       func() time.Time
	startTime time.Time
	memCache  *cache.Cache
}

func NewCollector(db *sqlx.DB, cfg config.DBConfig, freshness time.Duration) *Collector {
	return &Collector{
		db:        db,
		config:    cfg,
		freshness: freshness,
		now:       time.Now,
		startTime: time.Now(),
		memCache:  cache.New(memStatsCacheDuration, 0),
	}
}

func (c *Collector) Collect(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		Timestamp: c.now().UTC(),
	}

	stats.Memory = c.collectMemoryStats()

	dbStats, err := c.collectDatabaseStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Database = *dbStats

	cacheStats, err := c.collectCacheStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Cache = *cacheStats
	stats.Runtime = c.collectRuntimeStats()

	return stats, nil
}

func (c *Collector) collectMemoryStats() MemoryStats {
	if v, ok := c.memCache.Get(memStatsKey); ok {
		return v.(MemoryStats)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mem := MemoryStats{
		Alloc:      m.Alloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
		HeapAlloc:  m.HeapAlloc,
		HeapInuse:  m.HeapInuse,
	}
	c.memCache.SetDefault(memStatsKey, mem)

	return mem
}

func (c *Collector) collectDatabaseStats(ctx context.Context) (*DatabaseStats, error) {
	stats := &DatabaseStats{
		Type: string(c.config.Type),
	}

	if totalSize, err := c.getDatabaseSize(ctx); err == nil {
		stats.SizeBytes = totalSize
	}

	for _, table := range trackedTables {
		stat, err := c.getTableStat(ctx, table)
		if err != nil {
			return nil, err
		}
		stats.TableStats = append(stats.TableStats, *stat)
		stats.TotalRecords += stat.RowCount
	}

	return stats, nil
}

func (c *Collector) collectCacheStats(ctx context.Context) (*CacheStats, error) {
	now := c.now()
	cutoff := now.Add(-c.freshness).UnixMilli()
	nowMs := now.UnixMilli()

	// Snapshots stamped after now are stale, matching WeatherSnapshot.IsFresh
	query := `SELECT
			COALESCE(SUM(CASE WHEN cached_at > ? AND cached_at <= ? THEN 1 ELSE 0 END), 0) AS fresh,
			COALESCE(SUM(CASE WHEN cached_at <= ? OR cached_at > ? THEN 1 ELSE 0 END), 0) AS stale,
			MIN(cached_at) AS oldest,
			MAX(cached_at) AS newest
		FROM weather_cache`
	if c.config.Type == config.DBTypePostgreSQL {
		query = sqlx.Rebind(sqlx.DOLLAR, query)
	}

	var row struct {
		Fresh  int64  `db:"fresh"`
		Stale  int64  `db:"stale"`
		Oldest *int64 `db:"oldest"`
		Newest *int64 `db:"newest"`
	}
	if err := c.db.GetContext(ctx, &row, query, cutoff, nowMs, cutoff, nowMs); err != nil {
		return nil, fmt.Errorf("failed to get weather cache stats: %w", err)
	}

	return &CacheStats{
		Fresh:  row.Fresh,
		Stale:  row.Stale,
		Oldest: fromMillis(row.Oldest),
		Newest: fromMillis(row.Newest),
	}, nil
}

func fromMillis(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}

func (c *Collector) getDatabaseSize(ctx context.Context) (int64, error) {
	var size int64
	var err error

	if c.config.Type == config.DBTypePostgreSQL {
		err = c.db.GetContext(ctx, &size, "SELECT pg_database_size(current_database())")
	} else {
		err = c.db.GetContext(ctx, &size, "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
	}

	if err != nil {
		return 0, err
	}
	return size, nil
}

func (c *Collector) getTableStat(ctx context.Context, tableName string) (*TableStat, error) {
	stat := &TableStat{Name: tableName}

	var count int64
	if err := c.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM "+tableName); err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", tableName, err)
	}
	stat.RowCount = count

	if c.config.Type == config.DBTypePostgreSQL {
		var size int64
		if err := c.db.GetContext(ctx, &size, `SELECT COALESCE(pg_total_relation_size($1::regclass), 0)`, tableName); err == nil {
			stat.SizeBytes = size
		}
	} else {
		// dbstat is only present when SQLite is built with it
		var size *int64
		if err := c.db.GetContext(ctx, &size, `SELECT SUM(pgsize) FROM dbstat WHERE name = ?`, tableName); err == nil && size != nil {
			stat.SizeBytes = *size
		}
	}

	return stat, nil
}

func (c *Collector) collectRuntimeStats() RuntimeStats {
	uptime := time.Since(c.startTime).Seconds()
	return RuntimeStats{
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		UptimeSeconds: int64(uptime),
	}
}
