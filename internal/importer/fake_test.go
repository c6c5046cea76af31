package importer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"menuchat/internal/menu"
	"menuchat/internal/offers"
	"menuchat/internal/restaurant"
)

var testNow = time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC)

// fakeExtractor answers by source URL (or text) and records every call.
type fakeExtractor struct {
	mu       sync.Mutex
	metadata map[string]map[string]json.RawMessage
	menus    map[string][]menu.Category
	offers   map[string][]offers.Offer
	fail     map[string]error
	calls    []Source
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{
		metadata: map[string]map[string]json.RawMessage{},
		menus:    map[string][]menu.Category{},
		offers:   map[string][]offers.Offer{},
		fail:     map[string]error{},
	}
}

func key(src Source) string {
	switch {
	case src.URL != "":
		return src.URL
	case src.Text != "":
		return src.Text
	default:
		return src.ImageURL
	}
}

func (f *fakeExtractor) record(src Source) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, src)
	return f.fail[key(src)]
}

func (f *fakeExtractor) Metadata(ctx context.Context, src Source) (map[string]json.RawMessage, error) {
	if err := f.record(src); err != nil {
		return nil, err
	}
	if m, ok := f.metadata[key(src)]; ok {
		return m, nil
	}
	return nil, errors.New("no metadata configured")
}

func (f *fakeExtractor) Menu(ctx context.Context, src Source) ([]menu.Category, error) {
	if err := f.record(src); err != nil {
		return nil, err
	}
	if m, ok := f.menus[key(src)]; ok {
		return menu.Clone(m), nil
	}
	return nil, errors.New("no menu configured")
}

func (f *fakeExtractor) Offers(ctx context.Context, src Source) ([]offers.Offer, error) {
	if err := f.record(src); err != nil {
		return nil, err
	}
	if o, ok := f.offers[key(src)]; ok {
		return offers.Clone(o), nil
	}
	return nil, errors.New("no offers configured")
}

func newTestService(t *testing.T, ex Extractor) (*Service, *restaurant.Store, *restaurant.MemoryRepository) {
	t.Helper()
	repo := restaurant.NewMemoryRepository()
	store, err := restaurant.NewStore(context.Background(), repo, zap.NewNop(),
		restaurant.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return NewService(store, ex, zap.NewNop()), store, repo
}

func seed(t *testing.T, store *restaurant.Store, id, body string) {
	t.Helper()
	var p restaurant.Patch
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	_, err := store.Upsert(context.Background(), id, p)
	require.NoError(t, err)
}
