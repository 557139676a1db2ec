package api

import (
	"net/http"

	"rjboard/internal/auth"
	"rjboard/internal/service"
	"rjboard/internal/upstream"
)

type GoodiesHandler struct {
	goodies   *service.GoodiesService
	purchases *service.PurchaseService
	upstream  *upstream.Client
}

func NewGoodiesHandler(goodies *service.GoodiesService, purchases *service.PurchaseService, client *upstream.Client) *GoodiesHandler {
	return &GoodiesHandler{goodies: goodies, purchases: purchases, upstream: client}
}

// GET /goodies/{goodiesId}
func (h *GoodiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := CallerIdentity(r)
	if !ok {
		internalError(w)
		return
	}

	goodiesID, ok := urlInt64(r, "goodiesId")
	if !ok {
		notFound(w, "Invalid goodies query")
		return
	}

	detail, err := h.goodies.Detail(r.Context(), identity.Token, goodiesID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// POST /goodies
func (h *GoodiesHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := CallerIdentity(r)
	if !ok {
		internalError(w)
		return
	}

	fields, fieldErrors := goodiesFormFields(r)
	if fieldErrors != nil {
		writeFieldErrors(w, fieldErrors)
		return
	}

	created, err := h.goodies.Create(r.Context(), identity.Token, fields)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// PUT /goodies/{goodiesId} — spend wallet currency on the item.
func (h *GoodiesHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	identity, ok := CallerIdentity(r)
	if !ok {
		internalError(w)
		return
	}

	goodiesID, ok := urlInt64(r, "goodiesId")
	if !ok {
		notFound(w, "Invalid goodies query")
		return
	}

	purchase, err := h.purchases.Purchase(r.Context(), identity.Token, goodiesID)
	if err != nil {
		// Insufficient wallet and exhausted buy limits come back from the
		// data service and must reach the user, not be swallowed here.
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, purchase)
}

// PATCH /goodies/{goodiesId}
func (h *GoodiesHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := CallerIdentity(r)
	if !ok {
		internalError(w)
		return
	}

	goodiesID, ok := urlInt64(r, "goodiesId")
	if !ok {
		notFound(w, "Invalid goodies query")
		return
	}

	fields, fieldErrors := goodiesFormFields(r)
	if fieldErrors != nil {
		writeFieldErrors(w, fieldErrors)
		return
	}

	updated, err := h.goodies.Update(r.Context(), identity.Token, identity.UserID, goodiesID, fields)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DELETE /goodies/{goodiesId} — the form field "kind" selects between
// deleting the goodies itself and refunding one of its purchases.
func (h *GoodiesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := CallerIdentity(r)
	if !ok {
		internalError(w)
		return
	}

	goodiesID, ok := urlInt64(r, "goodiesId")
	if !ok {
		notFound(w, "Invalid goodies query")
		return
	}

	if err := parseRequestForm(r); err != nil {
		badRequest(w, "Invalid form body")
		return
	}

	switch r.PostForm.Get("kind") {
	case "goodies":
		if err := h.goodies.Delete(r.Context(), identity.Token, identity.UserID, goodiesID); err != nil {
			writeServiceError(w, err)
			return
		}
		http.Redirect(w, r, "/goodies", http.StatusFound)

	case "purchase":
		h.refund(w, r, identity)

	default:
		notFound(w, "Bad request kind")
	}
}

func (h *GoodiesHandler) refund(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	purchaseID, ok := queryInt64(r, "purchaseId")
	if !ok {
		notFound(w, "Invalid purchase query")
		return
	}

	caller, err := currentUser(r.Context(), h.upstream, identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.purchases.Refund(r.Context(), identity.Token, caller.Privilege, purchaseID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Purchase refunded"})
}

// goodiesFormFields parses the goodies mutation form. Missing or
// non-numeric values are reported per field; range checks live in the
// service's validation phase.
func goodiesFormFields(r *http.Request) (service.GoodiesFields, service.FieldErrors) {
	if err := r.ParseForm(); err != nil {
		return service.GoodiesFields{}, service.FieldErrors{"form": "Invalid form body"}
	}

	fieldErrors := service.FieldErrors{}
	fields := service.GoodiesFields{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}

	price, err := formInt(r, "price")
	if err != nil {
		fieldErrors["price"] = "Price must be a number"
	}
	fields.Price = price

	buyLimit, err := formInt(r, "buy-limit")
	if err != nil {
		fieldErrors["buy-limit"] = "Buy limit must be a number"
	}
	fields.BuyLimit = buyLimit

	if len(fieldErrors) > 0 {
		return fields, fieldErrors
	}
	return fields, nil
}
