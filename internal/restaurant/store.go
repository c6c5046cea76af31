package restaurant

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"menuchat/internal/core"
)

const dayLayout = "2006-01-02"

// Store owns the in-memory record map and commits it to a Repository.
//
// Writes to the same id are serialized; different ids proceed in parallel.
// Persisting is best effort: a failed save is logged and the in-memory
// update stands.
type Store struct {
	repo    Repository
	backups []Backuper
	log     *zap.Logger
	now     func() time.Time

	mu      sync.RWMutex
	records map[string]*Record
	order   []string

	locks  keyedMutex
	saveMu sync.Mutex
}

type StoreOption func(*Store)

func WithBackups(b ...Backuper) StoreOption {
	return func(s *Store) { s.backups = append(s.backups, b...) }
}

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore loads the current snapshot from repo.
func NewStore(ctx context.Context, repo Repository, log *zap.Logger, opts ...StoreOption) (*Store, error) {
	s := &Store{
		repo:    repo,
		log:     log,
		now:     time.Now,
		records: make(map[string]*Record),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := repo.Load(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "load restaurants")
	}
	records, err := DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}

	for id, r := range records {
		s.records[id] = r
		s.order = append(s.order, id)
	}
	sort.Strings(s.order)

	log.Info("restaurants loaded", zap.Int("count", len(s.records)))
	return s, nil
}

// Get returns a copy of the record stored under id.
func (s *Store) Get(id string) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// List returns copies of all records in insertion order.
func (s *Store) List() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id].Clone())
	}
	return out
}

// Upsert applies p to the record stored under id, creating it if needed,
// and persists the result.
func (s *Store) Upsert(ctx context.Context, id string, p Patch) (*Record, error) {
	rec, _, err := s.Apply(id, p)
	if err != nil {
		return nil, err
	}
	_ = s.Save(ctx)
	return rec, nil
}

// Apply updates the in-memory record without persisting. changed reports
// whether the stored JSON differs from before.
func (s *Store) Apply(id string, p Patch) (*Record, bool, error) {
	if strings.TrimSpace(id) == "" {
		return nil, false, core.Validation("restaurant id is required")
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	s.mu.RLock()
	existing, found := s.records[id]
	s.mu.RUnlock()
	if !found {
		existing = NewRecord(id)
	}

	next, err := Apply(existing, p)
	if err != nil {
		return nil, false, eris.Wrapf(err, "update restaurant %s", id)
	}
	changed := !found || !sameJSON(existing, next)

	s.mu.Lock()
	if !found {
		s.order = append(s.order, id)
	}
	s.records[id] = next
	s.mu.Unlock()

	return next.Clone(), changed, nil
}

// Delete removes the record stored under id and persists the result.
func (s *Store) Delete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	s.mu.Lock()
	if _, ok := s.records[id]; !ok {
		s.mu.Unlock()
		return core.NotFound("restaurant " + id)
	}
	delete(s.records, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	_ = s.Save(ctx)
	return nil
}

// Save writes the whole map to the repository, then a dated backup.
// Failures are logged and returned; callers on the write path ignore them.
func (s *Store) Save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	data, err := EncodeSnapshot(s.records)
	count := len(s.records)
	s.mu.RUnlock()
	if err != nil {
		s.log.Error("encode restaurants snapshot", zap.Error(err))
		return eris.Wrap(core.ErrPersistence, err.Error())
	}

	if err := s.repo.Save(ctx, data); err != nil {
		s.log.Error("persist restaurants snapshot",
			zap.Int("count", count),
			zap.Error(err),
		)
		return eris.Wrap(core.ErrPersistence, err.Error())
	}

	day := s.now().Format(dayLayout)
	for _, b := range s.backups {
		if err := b.Backup(ctx, day, data); err != nil {
			s.log.Warn("restaurants backup failed", zap.String("day", day), zap.Error(err))
		}
	}
	return nil
}

// keyedMutex hands out one mutex per key and forgets it when unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
