package priceserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trolley/internal/domain"
	"trolley/internal/log"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	session := &domain.Session{ServerURL: srv.URL, Token: "test-token"}
	return NewClient(session, log.NullLogger()), srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestGetListsFollowsNextLinks(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/shoppinglist/shoppinglist/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		switch r.URL.Query().Get("page") {
		case "":
			next := srvURL + "/shoppinglist/shoppinglist/?page=2"
			writeJSON(w, map[string]any{
				"count": 2,
				"next":  next,
				"results": []map[string]any{
					{"id": 1, "name": "Groceries", "last_updated": "2026-03-01T10:00:00Z"},
				},
			})
		case "2":
			writeJSON(w, map[string]any{
				"count": 2,
				"next":  nil,
				"results": []map[string]any{
					{"id": 2, "name": "Hardware", "last_updated": "2026-02-01T10:00:00Z"},
				},
			})
		default:
			http.NotFound(w, r)
		}
	})

	client, srv := newTestClient(t, mux)
	srvURL = srv.URL

	lists, next, err := client.GetLists(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "1", lists[0].ID)
	assert.Equal(t, "Groceries", lists[0].Name)
	require.NotEmpty(t, next, "first page carries an absolute next link")

	lists, next, err = client.GetLists(context.Background(), next)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Hardware", lists[0].Name)
	assert.Empty(t, next)
}

func TestUnauthorizedMapsToErrAuthFailed(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, _, err := client.GetLists(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestUnreachableServerMapsToErrServerOffline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens anymore

	session := &domain.Session{ServerURL: srv.URL, Token: "test-token"}
	client := NewClient(session, log.NullLogger())

	_, _, err := client.GetLists(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestFindSnapshotFirstResultWins(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/price/price/", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("product"))
		assert.Equal(t, "7", r.URL.Query().Get("store"))
		writeJSON(w, map[string]any{
			"count": 2,
			"next":  nil,
			"results": []map[string]any{
				{"id": 11, "price": "2.50", "product_id": 5, "product_name": "Milk", "product_brand": "nan", "product_amount": "nan", "store_id": 7, "store_name": "Netto", "date_added": "2026-03-01T10:00:00Z"},
				{"id": 12, "price": "9.99", "product_id": 5, "product_name": "Milk", "store_id": 7, "store_name": "Netto", "date_added": "2026-01-01T10:00:00Z"},
			},
		})
	}))

	snap, err := client.FindSnapshot(context.Background(), "5", "7")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "2.50", snap.Price, "first listing wins")
	assert.Equal(t, "", snap.ProductBrand, `"nan" brand is scrubbed at the boundary`)
	assert.Equal(t, "None", snap.ProductAmount, `"nan" amount renders as "None"`)
}

func TestFindSnapshotNilWhenNoListing(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"count": 0, "next": nil, "results": []any{}})
	}))

	snap, err := client.FindSnapshot(context.Background(), "5", "7")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSearchListingsSendsQueryParams(t *testing.T) {
	var got map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{
			"search":   r.URL.Query().Get("search"),
			"region":   r.URL.Query().Get("region"),
			"ordering": r.URL.Query().Get("ordering"),
			"page":     r.URL.Query().Get("page"),
		}
		writeJSON(w, map[string]any{
			"count": 1,
			"next":  "https://example.test/price/price/?page=3",
			"results": []map[string]any{
				{"id": 1, "price": "2.50", "product_id": 5, "product_name": "Milk", "store_id": 7, "date_added": "2026-03-01T10:00:00Z"},
			},
		})
	}))

	listings, hasMore, err := client.SearchListings(context.Background(), domain.SearchQuery{
		Text: "milk", Region: "copenhagen", Ordering: "price", Page: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "milk", got["search"])
	assert.Equal(t, "copenhagen", got["region"])
	assert.Equal(t, "price", got["ordering"])
	assert.Equal(t, "2", got["page"])

	require.Len(t, listings, 1)
	assert.Equal(t, "5", listings[0].ProductID)
	assert.True(t, hasMore)
}

func TestCreateItemSendsNumericIdentifiers(t *testing.T) {
	var got map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, map[string]any{"id": 9, "shopping_list": 1, "product": 5, "store": 7, "is_needed": true})
	}))

	item, err := client.CreateItem(context.Background(), "1", "5", "7", true)
	require.NoError(t, err)

	// JSON numbers decode as float64.
	assert.Equal(t, float64(1), got["shopping_list"])
	assert.Equal(t, float64(5), got["product"])
	assert.Equal(t, float64(7), got["store"])
	assert.Equal(t, true, got["is_needed"])
	assert.Equal(t, "9", item.ID)
}

func TestPatchItemSendsOnlyProvidedFields(t *testing.T) {
	var got map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/shoppinglist/shoppinglistitem/9/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, map[string]any{"id": 9, "shopping_list": 1, "product": 5, "store": 7, "is_needed": false})
	}))

	needed := false
	item, err := client.PatchItem(context.Background(), "9", domain.ItemPatch{IsNeeded: &needed})
	require.NoError(t, err)

	require.Len(t, got, 1, "only the needed flag travels")
	assert.Equal(t, false, got["is_needed"])
	assert.False(t, item.IsNeeded)
}

func TestDeleteListHitsDetailRoute(t *testing.T) {
	var gotPath, gotMethod string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.DeleteList(context.Background(), "3"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/shoppinglist/shoppinglist/3/", gotPath)
}

func TestGetItemsFiltersByList(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "4", r.URL.Query().Get("shopping_list"))
		writeJSON(w, map[string]any{
			"count": 1,
			"next":  nil,
			"results": []map[string]any{
				{"id": 9, "shopping_list": 4, "product": 5, "store": 7, "is_needed": true},
			},
		})
	}))

	items, next, err := client.GetItems(context.Background(), "4", "")
	require.NoError(t, err)
	assert.Empty(t, next)
	require.Len(t, items, 1)
	assert.Equal(t, "9", items[0].ID)
	assert.Equal(t, "4", items[0].ListID)
	assert.True(t, items[0].IsNeeded)
}

func TestGetProfileMapsRegion(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/core/me/", r.URL.Path)
		writeJSON(w, map[string]any{
			"email":            "sam@example.test",
			"first_name":       "Sam",
			"last_name":        "Larsen",
			"preferred_region": map[string]string{"region": "copenhagen"},
			"is_superuser":     false,
		})
	}))

	profile, err := client.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sam@example.test", profile.Email)
	assert.Equal(t, "Sam Larsen", profile.Name)
	assert.Equal(t, "copenhagen", profile.Region)
}

func TestUpdateProfileAlsoUpdatesRegion(t *testing.T) {
	var regionBody map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/core/me/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"email": "sam@example.test", "first_name": "Sam", "last_name": "Larsen"})
	})
	mux.HandleFunc("/core/update-region/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&regionBody))
		writeJSON(w, map[string]string{"region": "aarhus"})
	})

	client, _ := newTestClient(t, mux)
	profile, err := client.UpdateProfile(context.Background(), "Sam Larsen", "aarhus")
	require.NoError(t, err)
	assert.Equal(t, "aarhus", regionBody["region"])
	assert.Equal(t, "aarhus", profile.Region)
}

func TestUnexpectedStatusIsAnError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "tea time", http.StatusTeapot)
	}))

	_, _, err := client.GetLists(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprint(http.StatusTeapot))
}
