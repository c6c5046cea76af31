package importer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menuchat/internal/core"
	"menuchat/internal/menu"
	"menuchat/internal/offers"
)

func TestImportMenuMergesByDefault(t *testing.T) {
	ex := newFakeExtractor()
	svc, store, _ := newTestService(t, ex)

	seed(t, store, "r1", `{"menu":[{"category":"Pizza","items":[{"name":"Margherita","price":"$10"}]}]}`)
	ex.menus["https://a.example/menu"] = []menu.Category{
		{Category: "pizza", Items: []menu.Item{{Name: "Pepperoni", Price: "$12"}}},
	}

	rec, err := svc.Import(context.Background(), "r1", KindMenu, Source{URL: "https://a.example/menu"}, false)
	require.NoError(t, err)

	require.Len(t, rec.Menu, 1)
	assert.Len(t, rec.Menu[0].Items, 2)
	assert.Equal(t, "https://a.example/menu", rec.MenuSourceURL)
}

func TestImportMenuReplace(t *testing.T) {
	ex := newFakeExtractor()
	svc, store, _ := newTestService(t, ex)

	seed(t, store, "r1", `{"menu":[{"category":"Pizza","items":[{"name":"Margherita"}]}]}`)
	ex.menus["Pasta menu"] = []menu.Category{{Category: "Pasta"}}

	rec, err := svc.Import(context.Background(), "r1", KindMenu, Source{Text: "Pasta menu"}, true)
	require.NoError(t, err)

	require.Len(t, rec.Menu, 1)
	assert.Equal(t, "Pasta", rec.Menu[0].Category)
	assert.Empty(t, rec.MenuSourceURL)
}

func TestImportOffersAppendsByDefault(t *testing.T) {
	ex := newFakeExtractor()
	svc, store, _ := newTestService(t, ex)

	seed(t, store, "r1", `{"offers":[{"title":"A"}]}`)
	ex.offers["https://a.example/deals"] = []offers.Offer{{Title: "A"}}

	rec, err := svc.Import(context.Background(), "r1", KindOffers, Source{URL: "https://a.example/deals"}, false)
	require.NoError(t, err)

	assert.Len(t, rec.Offers, 2)
	assert.Equal(t, "https://a.example/deals", rec.OffersSourceURL)
}

func TestImportMetadataCreatesRecord(t *testing.T) {
	ex := newFakeExtractor()
	svc, store, _ := newTestService(t, ex)

	ex.metadata["https://new.example/"] = map[string]json.RawMessage{
		"name":  json.RawMessage(`"New Place"`),
		"phone": json.RawMessage(`"555-1234"`),
	}

	rec, err := svc.Import(context.Background(), "new", KindMetadata, Source{URL: "https://new.example/"}, false)
	require.NoError(t, err)

	assert.Equal(t, "New Place", rec.Name)
	assert.Equal(t, "https://new.example/", rec.MetaSourceURL)

	stored, ok := store.Get("new")
	require.True(t, ok)
	assert.Equal(t, "555-1234", stored.Phone)
}

func TestImportRequiresSource(t *testing.T) {
	svc, _, _ := newTestService(t, newFakeExtractor())

	_, err := svc.Import(context.Background(), "r1", KindMenu, Source{}, false)
	assert.True(t, eris.Is(err, core.ErrValidation))
}

func TestImportExtractionFailureLeavesRecord(t *testing.T) {
	ex := newFakeExtractor()
	svc, store, _ := newTestService(t, ex)

	seed(t, store, "r1", `{"menu":[{"category":"Pizza"}]}`)
	ex.fail["https://a.example/menu"] = core.Upstream(errors.New("bad json"), "extraction")

	_, err := svc.Import(context.Background(), "r1", KindMenu, Source{URL: "https://a.example/menu"}, true)
	require.Error(t, err)
	assert.Equal(t, 502, core.HTTPStatus(err))

	rec, _ := store.Get("r1")
	assert.Equal(t, "Pizza", rec.Menu[0].Category)
	assert.Empty(t, rec.MenuSourceURL)
}
