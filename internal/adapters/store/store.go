package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"auction-engine/internal/domain/shared"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Record is the contract every persisted entity satisfies
type Record interface {
	RecordID() int
}

// Store is a durable keyed collection of one entity type, persisted as a
// single JSON container holding an ordered sequence of flat records.
//
// One collection-wide mutex serializes every operation's read-then-write
// cycle, so each individual call is atomic with respect to the others. It
// deliberately does NOT make multi-call sequences atomic: a caller doing
// "create bid, then update auction pointer" crosses two stores and can be
// interrupted between the calls. Each operation takes the lock exactly once,
// so nested multi-collection work never re-enters the same lock.
type Store[T Record] struct {
	fs     afero.Fs
	path   string
	mu     sync.Mutex
	lastID int
	logger zerolog.Logger
}

type Params struct {
	Fs     afero.Fs
	Dir    string
	Name   string
	Logger zerolog.Logger
}

// New opens the store container, initializing it to an empty sequence
// if it does not exist yet.
func New[T Record](params Params) (*Store[T], error) {
	s := &Store[T]{
		fs:     params.Fs,
		path:   filepath.Join(params.Dir, params.Name+".json"),
		logger: params.Logger.With().Str("component", "store").Str("collection", params.Name).Logger(),
	}

	if err := s.fs.MkdirAll(params.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", shared.ErrStoreIO, err)
	}

	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: stat container: %v", shared.ErrStoreIO, err)
	}
	if !exists {
		if err := s.writeAll(nil); err != nil {
			return nil, err
		}
		s.logger.Info().Str("path", s.path).Msg("Initialized empty container")
	}

	records, err := s.readAll()
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.RecordID() > s.lastID {
			s.lastID = r.RecordID()
		}
	}

	return s, nil
}

// Create computes the next id, builds the record through the factory and
// persists it. Ids are dense, monotonically increasing and never reused
// while the container lives; gaps after deletion stay gaps.
func (s *Store[T]) Create(build func(id int) T) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return zero, err
	}

	id := s.lastID + 1
	if len(records) > 0 {
		if last := records[len(records)-1].RecordID(); last >= id {
			id = last + 1
		}
	}
	s.lastID = id

	record := build(id)
	records = append(records, record)

	if err := s.writeAll(records); err != nil {
		return zero, err
	}

	return record, nil
}

// Get returns the record with the given id
func (s *Store[T]) Get(id int) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return zero, err
	}

	for _, r := range records {
		if r.RecordID() == id {
			return r, nil
		}
	}

	return zero, shared.ErrRecordNotFound
}

// All returns a snapshot of every record, consistent as of the read instant
func (s *Store[T]) All() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readAll()
}

// Filter returns a snapshot of the records matching the predicate
func (s *Store[T]) Filter(pred func(T) bool) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return nil, err
	}

	var matched []T
	for _, r := range records {
		if pred(r) {
			matched = append(matched, r)
		}
	}

	return matched, nil
}

// Save upserts the record by id: it replaces the stored record if one with
// the same id exists, and appends otherwise.
func (s *Store[T]) Save(record T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return err
	}

	replaced := false
	for i, r := range records {
		if r.RecordID() == record.RecordID() {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
		if record.RecordID() > s.lastID {
			s.lastID = record.RecordID()
		}
	}

	return s.writeAll(records)
}

// Delete removes the record with the given id
func (s *Store[T]) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return err
	}

	for i, r := range records {
		if r.RecordID() == id {
			records = append(records[:i], records[i+1:]...)
			return s.writeAll(records)
		}
	}

	return shared.ErrRecordNotFound
}

// readAll decodes the container. Caller must hold the lock.
func (s *Store[T]) readAll() ([]T, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read container: %v", shared.ErrStoreIO, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode container: %v", shared.ErrStoreIO, err)
	}

	return records, nil
}

// writeAll encodes and persists the container. Caller must hold the lock.
func (s *Store[T]) writeAll(records []T) error {
	if records == nil {
		records = []T{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: encode container: %v", shared.ErrStoreIO, err)
	}

	if err := afero.WriteFile(s.fs, s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write container: %v", shared.ErrStoreIO, err)
	}

	return nil
}
