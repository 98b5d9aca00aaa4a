package api

import (
	"github.com/ssargent/tickwire/pkg/dbn"
	"github.com/ssargent/tickwire/pkg/tickstore"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port int
	Bind string
	// APIKey protects the /api/v1 routes; empty disables authentication.
	APIKey string
}

// RecordStore defines the archive operations the API serves. It is
// satisfied by *tickstore.Store.
type RecordStore interface {
	Scan(tickstore.ScanRequest) ([]dbn.Record, error)
	Instruments() ([]uint32, error)
	Jobs() ([]tickstore.Manifest, error)
	Stats() (*tickstore.Stats, error)
}
