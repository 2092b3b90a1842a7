package reminder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/notexe/reminders/internal/queue"
)

// SourceSaver persists the chosen data source path, e.g. in user settings.
type SourceSaver interface {
	SetSourcePath(path string) error
}

// Options configures a Store.
type Options struct {
	Logger      zerolog.Logger
	Queue       queue.Config
	SourceSaver SourceSaver
	// FileMode is used for newly written files. Defaults to 0644.
	FileMode os.FileMode
}

// Store owns the ordered list of reminders and the file it is kept in.
//
// Loads and adds run one at a time on a FIFO queue, so disk completions
// happen in call order. Every add rewrites the whole file.
type Store struct {
	mu      sync.RWMutex
	records []Record
	source  string
	state   State
	lastErr error

	saver    SourceSaver
	fileMode os.FileMode
	logger   zerolog.Logger
	queue    *queue.Queue
	subs     subscribers
}

// NewStore returns an empty, unloaded store with no source.
func NewStore(opts Options) *Store {
	if opts.FileMode == 0 {
		opts.FileMode = 0o644
	}
	logger := opts.Logger.With().Str("component", "store").Logger()

	qcfg := opts.Queue
	qcfg.Logger = logger
	if qcfg.ErrorHandler == nil {
		qcfg.ErrorHandler = func(err error) {
			logger.Error().Err(err).Msg("store job failed")
		}
	}

	recordsGauge.Set(0)
	return &Store{
		records:  []Record{},
		saver:    opts.SourceSaver,
		fileMode: opts.FileMode,
		logger:   logger,
		queue:    queue.New(qcfg),
	}
}

// Close finishes queued work and stops the store. Subscriber channels are closed.
func (s *Store) Close() error {
	s.queue.Stop()
	s.subs.close()
	return nil
}

// Records returns a copy of the list.
func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.records)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Source returns the current data source path, empty if unset.
func (s *Store) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// State reports whether a load has been attempted.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LastError returns the error of the most recent load or persist, or nil.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Subscribe returns a channel of list changes and a func that cancels it.
func (s *Store) Subscribe(buffer int) (<-chan ListChanged, func()) {
	return s.subs.subscribe(buffer)
}

// SetSource switches the data source to path, saves it through the
// SourceSaver and loads from it. Failures are logged, not returned.
func (s *Store) SetSource(ctx context.Context, path string) {
	s.setSource(ctx, path, true)
}

// Open is SetSource without saving the path, for a path that was read from
// settings in the first place.
func (s *Store) Open(ctx context.Context, path string) {
	s.setSource(ctx, path, false)
}

func (s *Store) setSource(ctx context.Context, path string, save bool) {
	if save && s.saver != nil {
		if err := s.saver.SetSourcePath(path); err != nil {
			s.logger.Error().Err(err).Str("path", path).Msg("failed to save source path")
		}
	}

	err := s.run(ctx, "set_source", func() {
		s.mu.Lock()
		s.source = path
		s.mu.Unlock()
		s.logger.Info().Str("path", path).Msg("source set")
		s.load()
	})
	if err != nil {
		s.fail(newPathError(ErrReadFailed, path, err), "load failed")
	}
}

// Load replaces the list with the records in the source file. On any failure
// the list is left as it was and the error is logged.
func (s *Store) Load(ctx context.Context) {
	if err := s.run(ctx, "load", s.load); err != nil {
		s.fail(newPathError(ErrReadFailed, s.Source(), err), "load failed")
	}
}

// Add appends r and rewrites the source file with the whole list. The
// append always happens; a failed write is logged and not rolled back.
// It returns a copy of the list after the append.
func (s *Store) Add(ctx context.Context, r Record) []Record {
	r = r.Clone()

	var snapshot []Record
	err := s.run(ctx, "add", func() {
		snapshot = s.add(r)
	})
	if err != nil {
		// The queue would not take the job; still honour the in-memory append.
		snapshot = s.appendRecord(r)
		s.fail(newPathError(ErrWrite, s.Source(), err), "persist failed")
		s.subs.publish(ListChanged{Cause: CauseAdd, Records: snapshot})
	}
	return snapshot
}

// run executes fn on the queue and waits for it to finish. Accepted work is
// never abandoned, so the wait is not bounded by ctx.
func (s *Store) run(ctx context.Context, op string, fn func()) error {
	done := make(chan struct{})
	err := s.queue.Submit(ctx, queue.JobFunc(func(context.Context) error {
		defer close(done)
		fn()
		return nil
	}))
	if err != nil {
		return fmt.Errorf("failed to queue %s: %w", op, err)
	}
	jobsSubmittedTotal.WithLabelValues(op).Inc()
	<-done
	return nil
}

func (s *Store) load() {
	s.mu.Lock()
	s.state = StateLoaded
	path := s.source
	s.mu.Unlock()

	records, err := readRecords(path)
	loadTotal.WithLabelValues(kindLabel(err)).Inc()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.setLastErr(err)
			s.logger.Warn().Err(err).Str("path", path).Msg("no reminders file yet")
			return
		}
		s.fail(err, "load failed")
		return
	}

	s.mu.Lock()
	s.records = records
	s.lastErr = nil
	s.mu.Unlock()
	recordsGauge.Set(float64(len(records)))

	s.logger.Info().Str("path", path).Int("records", len(records)).Msg("reminders loaded")
	s.subs.publish(ListChanged{Cause: CauseLoad, Records: records})
}

func (s *Store) add(r Record) []Record {
	snapshot := s.appendRecord(r)

	err := s.persist(s.Source(), snapshot)
	persistTotal.WithLabelValues(kindLabel(err)).Inc()
	if err != nil {
		s.fail(err, "persist failed")
	} else {
		s.setLastErr(nil)
	}

	s.subs.publish(ListChanged{Cause: CauseAdd, Records: snapshot})
	return snapshot
}

func (s *Store) appendRecord(r Record) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	recordsGauge.Set(float64(len(s.records)))
	return cloneRecords(s.records)
}

// persist overwrites path with the whole list. The data goes to a temp file
// in the same directory first and is renamed into place.
func (s *Store) persist(path string, records []Record) error {
	if path == "" {
		return newPathError(ErrNoDestination, "", errors.New("no source path configured"))
	}

	data, err := Encode(records)
	if err != nil {
		return newPathError(ErrWrite, path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return newPathError(ErrWrite, path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return newPathError(ErrWrite, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return newPathError(ErrWrite, path, err)
	}
	if err := os.Chmod(tmpName, s.fileMode); err != nil {
		os.Remove(tmpName)
		return newPathError(ErrWrite, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return newPathError(ErrWrite, path, err)
	}

	s.logger.Debug().Str("path", path).Int("records", len(records)).Int("bytes", len(data)).Msg("reminders written")
	return nil
}

func (s *Store) fail(err error, msg string) {
	s.setLastErr(err)
	evt := s.logger.Error().Err(err).Str("kind", kindLabel(err))
	var pe *PathError
	if errors.As(err, &pe) && pe.Path != "" {
		evt = evt.Str("path", pe.Path)
	}
	evt.Msg(msg)
}

func (s *Store) setLastErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func readRecords(path string) ([]Record, error) {
	if path == "" {
		return nil, newPathError(ErrReadFailed, "", errors.New("no source path configured"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newPathError(ErrReadFailed, path, err)
	}

	records, err := Decode(data)
	if err != nil {
		return nil, newPathError(ErrParse, path, err)
	}
	return records, nil
}
