// Package tickstore archives decoded market-data records in a pebble
// database. Records are stored as raw wire bytes under keys ordered by
// instrument and event time, so a range scan replays one instrument's
// records in time order and the archive keeps records of kinds the decoder
// does not know yet.
package tickstore

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/tickwire/pkg/dbn"
)

// Key spaces. Record keys are 'r' | instrument_id u32 | ts_event u64 |
// ordinal u64, all big-endian so lexicographic order is numeric order.
// Manifests live under 'm' | ksuid.
const (
	recordKeyPrefix   = 'r'
	manifestKeyPrefix = 'm'
	recordKeyLen      = 1 + 4 + 8 + 8
)

// DefaultBatchSize is the number of records committed per pebble batch
// during ingestion.
const DefaultBatchSize = 4096

// DefaultScanLimit caps a scan that does not request its own limit.
const DefaultScanLimit = 1000

// ErrClosed reports an operation on a closed store.
var ErrClosed = errors.New("tickstore: store is closed")

// RecordSource is the stream shape Ingest drains. Both dbn.Stream and
// dbn.Decoder satisfy it.
type RecordSource interface {
	Next() bool
	Record() dbn.Record
	Raw() []byte
	Err() error
}

// Options tunes a store. The zero value is usable.
type Options struct {
	// BatchSize is the number of records per ingest batch; zero means
	// DefaultBatchSize.
	BatchSize int
	// Logger receives ingest progress. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// Store is a pebble-backed record archive.
type Store struct {
	db        *pebble.DB
	log       zerolog.Logger
	batchSize int
	closed    bool
}

// Open opens or creates the archive at path.
func Open(path string, opts Options) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("tickstore: open %s: %w", path, err)
	}
	s := &Store{db: db, log: zerolog.Nop(), batchSize: opts.BatchSize}
	if opts.Logger != nil {
		s.log = *opts.Logger
	}
	if s.batchSize <= 0 {
		s.batchSize = DefaultBatchSize
	}
	return s, nil
}

// Close closes the underlying database. The store is unusable afterwards.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Manifest records the outcome of one ingest job.
type Manifest struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	Records  uint64    `json:"records"`
	Skipped  uint64    `json:"skipped"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
}

// Ingest drains src into the archive and writes a job manifest. Each
// record is stored as its raw wire bytes; records of unknown kinds are
// stored too, counted separately. The record's ordinal within the source
// disambiguates records sharing an instrument and timestamp, so ingesting
// the same capture twice overwrites the same keys.
func (s *Store) Ingest(src RecordSource, sourceName string) (*Manifest, error) {
	if s.closed {
		return nil, ErrClosed
	}
	m := &Manifest{ID: ksuid.New().String(), Source: sourceName, Started: time.Now().UTC()}

	batch := s.db.NewBatch()
	inBatch := 0
	var ordinal uint64
	for src.Next() {
		rec := src.Record()
		hd := rec.Header()
		if _, ok := rec.(*dbn.SkippedRecord); ok {
			m.Skipped++
		}
		key := recordKey(hd.InstrumentID, hd.TsEvent, ordinal)
		if err := batch.Set(key, src.Raw(), nil); err != nil {
			batch.Close()
			return nil, fmt.Errorf("tickstore: stage record %d: %w", ordinal, err)
		}
		ordinal++
		m.Records++
		inBatch++
		if inBatch >= s.batchSize {
			if err := batch.Commit(pebble.NoSync); err != nil {
				return nil, fmt.Errorf("tickstore: commit batch: %w", err)
			}
			s.log.Debug().Uint64("records", m.Records).Str("source", sourceName).Msg("ingest progress")
			batch = s.db.NewBatch()
			inBatch = 0
		}
	}
	if err := src.Err(); err != nil {
		batch.Close()
		return nil, fmt.Errorf("tickstore: ingest %s: %w", sourceName, err)
	}
	if err := batch.Commit(pebble.NoSync); err != nil {
		return nil, fmt.Errorf("tickstore: commit final batch: %w", err)
	}

	m.Finished = time.Now().UTC()
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("tickstore: encode manifest: %w", err)
	}
	// The manifest is the durability point of the job: it is synced, and
	// every record batch is sequenced before it.
	if err := s.db.Set(manifestKey(m.ID), data, pebble.Sync); err != nil {
		return nil, fmt.Errorf("tickstore: write manifest: %w", err)
	}
	s.log.Info().
		Str("job", m.ID).
		Str("source", sourceName).
		Uint64("records", m.Records).
		Uint64("skipped", m.Skipped).
		Dur("elapsed", m.Finished.Sub(m.Started)).
		Msg("ingest complete")
	return m, nil
}

// ScanRequest selects records of one instrument over a closed event-time
// range in nanoseconds.
type ScanRequest struct {
	InstrumentID uint32
	// Start and End bound ts_event; zero Start means the beginning of
	// time, zero End means no upper bound.
	Start uint64
	End   uint64
	// Limit caps the number of records returned; zero means
	// DefaultScanLimit.
	Limit int
}

// Scan replays archived records for one instrument in event-time order.
// Records of unknown kinds come back as *dbn.SkippedRecord.
func (s *Store) Scan(req ScanRequest) ([]dbn.Record, error) {
	if s.closed {
		return nil, ErrClosed
	}
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultScanLimit
	}
	end := req.End
	if end == 0 {
		end = math.MaxUint64
	}
	lower := recordKey(req.InstrumentID, req.Start, 0)
	upper := recordKey(req.InstrumentID, end, math.MaxUint64)
	it, err := s.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return nil, fmt.Errorf("tickstore: scan: %w", err)
	}
	defer it.Close()

	var recs []dbn.Record
	for valid := it.First(); valid && len(recs) < limit; valid = it.Next() {
		rec, err := dbn.DecodeRecord(it.Value())
		if err != nil {
			return nil, fmt.Errorf("tickstore: decode archived record %x: %w", it.Key(), err)
		}
		recs = append(recs, rec)
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("tickstore: scan: %w", err)
	}
	return recs, nil
}

// Instruments returns the distinct instrument ids present in the archive,
// ascending. It seeks past each instrument's records instead of walking
// them.
func (s *Store) Instruments() ([]uint32, error) {
	if s.closed {
		return nil, ErrClosed
	}
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: recordKey(0, 0, 0),
		UpperBound: []byte{recordKeyPrefix + 1},
	})
	if err != nil {
		return nil, fmt.Errorf("tickstore: instruments: %w", err)
	}
	defer it.Close()

	var ids []uint32
	for valid := it.First(); valid; {
		id := binary.BigEndian.Uint32(it.Key()[1:5])
		ids = append(ids, id)
		if id == math.MaxUint32 {
			break
		}
		valid = it.SeekGE(recordKey(id+1, 0, 0))
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("tickstore: instruments: %w", err)
	}
	return ids, nil
}

// Jobs returns the manifests of all ingest jobs, oldest first (ksuids are
// time-ordered).
func (s *Store) Jobs() ([]Manifest, error) {
	if s.closed {
		return nil, ErrClosed
	}
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{manifestKeyPrefix},
		UpperBound: []byte{manifestKeyPrefix + 1},
	})
	if err != nil {
		return nil, fmt.Errorf("tickstore: jobs: %w", err)
	}
	defer it.Close()

	var jobs []Manifest
	for valid := it.First(); valid; valid = it.Next() {
		var m Manifest
		if err := json.Unmarshal(it.Value(), &m); err != nil {
			return nil, fmt.Errorf("tickstore: decode manifest %s: %w", it.Key()[1:], err)
		}
		jobs = append(jobs, m)
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("tickstore: jobs: %w", err)
	}
	return jobs, nil
}

// Stats summarizes the archive.
type Stats struct {
	Jobs           int    `json:"jobs"`
	Records        uint64 `json:"records"`
	Skipped        uint64 `json:"skipped"`
	Instruments    int    `json:"instruments"`
	DiskUsageBytes uint64 `json:"disk_usage_bytes"`
}

// Stats aggregates job manifests and storage usage.
func (s *Store) Stats() (*Stats, error) {
	if s.closed {
		return nil, ErrClosed
	}
	jobs, err := s.Jobs()
	if err != nil {
		return nil, err
	}
	ids, err := s.Instruments()
	if err != nil {
		return nil, err
	}
	st := &Stats{
		Jobs:           len(jobs),
		Instruments:    len(ids),
		DiskUsageBytes: s.db.Metrics().DiskSpaceUsage(),
	}
	for _, m := range jobs {
		st.Records += m.Records
		st.Skipped += m.Skipped
	}
	return st, nil
}

func recordKey(instrument uint32, tsEvent, ordinal uint64) []byte {
	key := make([]byte, recordKeyLen)
	key[0] = recordKeyPrefix
	binary.BigEndian.PutUint32(key[1:5], instrument)
	binary.BigEndian.PutUint64(key[5:13], tsEvent)
	binary.BigEndian.PutUint64(key[13:21], ordinal)
	return key
}

func manifestKey(id string) []byte {
	return append([]byte{manifestKeyPrefix}, id...)
}
