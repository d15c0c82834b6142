package schema

import "time"

// StoreStatus represents the status of the relational store.
type StoreStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TableSizes       map[string]int64 `json:"table_sizes"`
	LastReportTime   time.Time        `json:"last_report_time"`
	OldestReportTime time.Time        `json:"oldest_report_time"`
}
