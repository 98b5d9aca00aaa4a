package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/ssargent/tickwire/pkg/render"
	"github.com/ssargent/tickwire/pkg/tickstore"
)

// metricsUpdateInterval is how often the archive state gauges refresh.
const metricsUpdateInterval = 15 * time.Second

// Server holds the API server state
type Server struct {
	store   RecordStore
	config  ServerConfig
	metrics *Metrics
	log     zerolog.Logger
}

// NewServer creates a new API server
func NewServer(store RecordStore, config ServerConfig, metrics *Metrics, log zerolog.Logger) *Server {
	return &Server{
		store:   store,
		config:  config,
		metrics: metrics,
		log:     log,
	}
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleRecords godoc
//
//	@Summary		Scan archived records
//	@Description	Replay records of one instrument over an event-time range
//	@Tags			records
//	@Produce		json
//	@Param			instrument_id	query		int	true	"Instrument ID"
//	@Param			start			query		int	false	"Range start, UTC nanoseconds (inclusive)"
//	@Param			end				query		int	false	"Range end, UTC nanoseconds (inclusive)"
//	@Param			limit			query		int	false	"Maximum records returned"
//	@Success		200	{object}	APIResponse
//	@Failure		400	{object}	APIResponse
//	@Failure		500	{object}	APIResponse
//	@Router			/records [get]
//	@Security		ApiKeyAuth
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	instrument, err := strconv.ParseUint(q.Get("instrument_id"), 10, 32)
	if err != nil {
		sendError(w, "instrument_id is required and must be an unsigned integer", http.StatusBadRequest)
		return
	}
	req := tickstore.ScanRequest{InstrumentID: uint32(instrument)}
	if v := q.Get("start"); v != "" {
		if req.Start, err = strconv.ParseUint(v, 10, 64); err != nil {
			sendError(w, "start must be UTC nanoseconds", http.StatusBadRequest)
			return
		}
	}
	if v := q.Get("end"); v != "" {
		if req.End, err = strconv.ParseUint(v, 10, 64); err != nil {
			sendError(w, "end must be UTC nanoseconds", http.StatusBadRequest)
			return
		}
	}
	if v := q.Get("limit"); v != "" {
		if req.Limit, err = strconv.Atoi(v); err != nil || req.Limit < 0 {
			sendError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
	}

	recs, err := s.store.Scan(req)
	if err != nil {
		s.metrics.RecordStoreOperation("scan", false, time.Since(start))
		s.log.Error().Err(err).Uint32("instrument", req.InstrumentID).Msg("scan failed")
		sendError(w, "Failed to scan records", http.StatusInternalServerError)
		return
	}
	s.metrics.RecordStoreOperation("scan", true, time.Since(start))

	views := make([]interface{}, len(recs))
	for i, rec := range recs {
		views[i] = render.View(rec)
	}
	sendSuccess(w, views)
}

// handleInstruments godoc
//
//	@Summary		List instruments
//	@Description	List the distinct instrument ids present in the archive
//	@Tags			records
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Failure		500	{object}	APIResponse
//	@Router			/instruments [get]
//	@Security		ApiKeyAuth
func (s *Server) handleInstruments(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ids, err := s.store.Instruments()
	if err != nil {
		s.metrics.RecordStoreOperation("instruments", false, time.Since(start))
		s.log.Error().Err(err).Msg("instrument listing failed")
		sendError(w, "Failed to list instruments", http.StatusInternalServerError)
		return
	}
	s.metrics.RecordStoreOperation("instruments", true, time.Since(start))
	if ids == nil {
		ids = []uint32{}
	}
	sendSuccess(w, ids)
}

// handleJobs godoc
//
//	@Summary		List ingest jobs
//	@Description	List the manifests of completed ingest jobs, oldest first
//	@Tags			jobs
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Failure		500	{object}	APIResponse
//	@Router			/jobs [get]
//	@Security		ApiKeyAuth
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	jobs, err := s.store.Jobs()
	if err != nil {
		s.metrics.RecordStoreOperation("jobs", false, time.Since(start))
		s.log.Error().Err(err).Msg("job listing failed")
		sendError(w, "Failed to list jobs", http.StatusInternalServerError)
		return
	}
	s.metrics.RecordStoreOperation("jobs", true, time.Since(start))
	if jobs == nil {
		jobs = []tickstore.Manifest{}
	}
	sendSuccess(w, jobs)
}

// handleStats godoc
//
//	@Summary		Archive statistics
//	@Description	Aggregate record counts, instrument count and disk usage
//	@Tags			stats
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Failure		500	{object}	APIResponse
//	@Router			/stats [get]
//	@Security		ApiKeyAuth
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	st, err := s.store.Stats()
	if err != nil {
		s.metrics.RecordStoreOperation("stats", false, time.Since(start))
		s.log.Error().Err(err).Msg("stats failed")
		sendError(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}
	s.metrics.RecordStoreOperation("stats", true, time.Since(start))
	sendSuccess(w, st)
}

// startMetricsUpdater refreshes the archive gauges until ctx is done.
func (s *Server) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()
	for {
		s.updateStoreMetrics()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) updateStoreMetrics() {
	st, err := s.store.Stats()
	if err != nil {
		s.log.Warn().Err(err).Msg("metrics refresh failed")
		return
	}
	s.metrics.UpdateStoreStats(st.Records, st.Skipped, st.Instruments, st.Jobs, st.DiskUsageBytes)
}
