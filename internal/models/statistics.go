package models

import "time"

// CacheStatistics is a derived snapshot over the recipe store. It is never
// persisted or cached itself; the reporter recomputes it on every call.
type CacheStatistics struct {
	TotalRecords       int                  `json:"total_records"`
	TotalSizeBytes     int64                `json:"total_size_bytes"`
	OldestRecordAgeSec int64                `json:"oldest_record_age_seconds"`
	NewestRecordAgeSec int64                `json:"newest_record_age_seconds"`
	CountBySource      map[RecordSource]int `json:"count_by_source"`
	ComputedAt         time.Time            `json:"computed_at"`
}
