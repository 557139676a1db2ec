package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGoodiesFields(t *testing.T) {
	tests := []struct {
		name   string
		fields GoodiesFields
		want   FieldErrors
	}{
		{
			name:   "valid",
			fields: GoodiesFields{Name: "Mug", Price: 50, BuyLimit: 2},
			want:   nil,
		},
		{
			name:   "free goodies allowed",
			fields: GoodiesFields{Name: "Sticker", Price: 0, BuyLimit: 1},
			want:   nil,
		},
		{
			name:   "missing name",
			fields: GoodiesFields{Name: "  ", Price: 10, BuyLimit: 1},
			want:   FieldErrors{"name": "Name is required"},
		},
		{
			name:   "negative price and zero buy limit reported together",
			fields: GoodiesFields{Name: "Mug", Price: -1, BuyLimit: 0},
			want: FieldErrors{
				"price":     "Price must be positive",
				"buy-limit": "Buy limit must be at least 1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateGoodiesFields(tt.fields))
		})
	}
}

func TestGoodiesUpdateValidatesBeforeAuthorizing(t *testing.T) {
	stub, client := newStubDataService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no call should reach the data service")
	})
	svc := NewGoodiesService(client, NewPurchaseService(client))

	// Caller 99 does not own goodies 1, but field errors must win: the
	// creator check never runs for a malformed request.
	_, err := svc.Update(context.Background(), "tok", 99, 1, GoodiesFields{
		Name: "Mug", Price: -5, BuyLimit: 0,
	})

	var fieldErrors FieldErrors
	require.ErrorAs(t, err, &fieldErrors)
	assert.Equal(t, "Price must be positive", fieldErrors["price"])
	assert.Equal(t, "Buy limit must be at least 1", fieldErrors["buy-limit"])
	assert.Empty(t, stub.calls())
}

func TestGoodiesUpdateDeniesNonCreator(t *testing.T) {
	stub, client := newStubDataService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method, "only the ownership read may hit the data service")
		writeEnvelope(w, map[string]any{
			"message": "ok",
			"goodies": map[string]any{"id": 1, "creatorId": 7, "name": "Mug", "price": 50, "buyLimit": 1},
		})
	})
	svc := NewGoodiesService(client, NewPurchaseService(client))

	_, err := svc.Update(context.Background(), "tok", 99, 1, GoodiesFields{
		Name: "Mug", Price: 50, BuyLimit: 1,
	})

	require.ErrorIs(t, err, ErrNotPermitted)
	assert.Zero(t, stub.callsTo(http.MethodPatch, "/goodies/1"))
}

func TestGoodiesUpdateByCreator(t *testing.T) {
	stub, client := newStubDataService(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, map[string]any{
			"message": "ok",
			"goodies": map[string]any{"id": 1, "creatorId": 7, "name": "Mug", "price": 60, "buyLimit": 1},
		})
	})
	svc := NewGoodiesService(client, NewPurchaseService(client))

	goodies, err := svc.Update(context.Background(), "tok", 7, 1, GoodiesFields{
		Name: "Mug", Price: 60, BuyLimit: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, 60, goodies.Price)
	assert.Equal(t, 1, stub.callsTo(http.MethodPatch, "/goodies/1"))
}

func TestGoodiesDeleteDeniesNonCreator(t *testing.T) {
	stub, client := newStubDataService(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, map[string]any{
			"message": "ok",
			"goodies": map[string]any{"id": 1, "creatorId": 7, "name": "Mug", "price": 50, "buyLimit": 1},
		})
	})
	svc := NewGoodiesService(client, NewPurchaseService(client))

	err := svc.Delete(context.Background(), "tok", 99, 1)

	require.ErrorIs(t, err, ErrNotPermitted)
	assert.Zero(t, stub.callsTo(http.MethodDelete, "/goodies/1"))
}

func TestGoodiesCreateStripsMarkup(t *testing.T) {
	_, client := newStubDataService(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, map[string]any{
			"message": "created",
			"goodies": map[string]any{"id": 2, "creatorId": 7, "name": "Mug", "price": 50, "buyLimit": 1},
		})
	})
	svc := NewGoodiesService(client, NewPurchaseService(client))

	_, err := svc.Create(context.Background(), "tok", GoodiesFields{
		Name:        "Mug<script>x</script>",
		Description: "<b>shiny</b>",
		Price:       50,
		BuyLimit:    1,
	})
	require.NoError(t, err)
}

func TestGoodiesDetailAssemblesView(t *testing.T) {
	_, client := newStubDataService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/goodies/1":
			writeEnvelope(w, map[string]any{
				"message": "ok",
				"goodies": map[string]any{"id": 1, "creatorId": 7, "name": "Mug", "price": 50, "buyLimit": 1},
			})
		case r.URL.Path == "/user/7":
			writeEnvelope(w, map[string]any{
				"message": "ok",
				"user":    map[string]any{"id": 7, "pseudo": "carol", "wallet": 10, "privilege": 0},
			})
		case r.URL.Path == "/purchase":
			assert.Equal(t, "1", r.URL.Query().Get("goodiesId"))
			writeEnvelope(w, map[string]any{
				"message": "ok",
				"purchases": []map[string]any{
					{"id": 10, "goodiesId": 1, "userId": 3},
					{"id": 11, "goodiesId": 1, "userId": 4, "deliveredAt": "2026-08-01T10:00:00Z"},
				},
			})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	svc := NewGoodiesService(client, NewPurchaseService(client))

	detail, err := svc.Detail(context.Background(), "tok", 1)
	require.NoError(t, err)

	assert.Equal(t, "Mug", detail.Goodies.Name)
	require.NotNil(t, detail.Creator)
	assert.Equal(t, "carol", detail.Creator.Pseudo)
	require.Len(t, detail.Undelivered, 1)
	assert.Equal(t, int64(10), detail.Undelivered[0].ID)
}

func TestGoodiesDetailMissingItem(t *testing.T) {
	_, client := newStubDataService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeEnvelope(w, map[string]string{"message": "Goodies not found"})
	})
	svc := NewGoodiesService(client, NewPurchaseService(client))

	_, err := svc.Detail(context.Background(), "tok", 42)
	require.Error(t, err)
}
