package handler

import (
	"net/http"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/utils"
)

func (h *Handler) listPublic(kind catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.catalog.ListPublic(r.Context(), kind)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, catalog.ToWireList(items))
	}
}

func (h *Handler) listBySeller(kind catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.catalog.ListBySeller(r.Context(), kind, r.PathValue("sellerId"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, catalog.ToWireList(items))
	}
}

func (h *Handler) names(kind catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := h.catalog.Names(r.Context(), kind)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if names == nil {
			names = []string{}
		}
		utils.WriteJSON(w, http.StatusOK, names)
	}
}

func (h *Handler) create(kind catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body catalog.Wire
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, r, err)
			return
		}

		it, err := h.catalog.Create(r.Context(), kind, catalog.InputFromWire(kind, body))
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusCreated, catalog.ToWire(*it))
	}
}

func (h *Handler) update(kind catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body catalog.WirePatch
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, r, err)
			return
		}

		it, err := h.catalog.Update(r.Context(), kind, r.PathValue("id"), catalog.PatchFromWire(kind, body))
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, catalog.ToWire(*it))
	}
}

func (h *Handler) delete(kind catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.catalog.Delete(r.Context(), kind, r.PathValue("id")); err != nil {
			writeError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

func (h *Handler) moderate(kind catalog.Kind, target catalog.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var (
			it  *catalog.Item
			err error
		)
		if target == catalog.StatusApproved {
			it, err = h.catalog.Approve(r.Context(), kind, id)
		} else {
			it, err = h.catalog.Reject(r.Context(), kind, id)
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, catalog.ToWire(*it))
	}
}

// allItems serves the admin dashboard. ?status= narrows every kind to one
// approval state.
func (h *Handler) allItems(w http.ResponseWriter, r *http.Request) {
	var status *catalog.Status
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" && raw != "all" {
		st, err := catalog.ParseStatus(raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		status = &st
	}

	all, err := h.catalog.AllItems(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, catalog.AllToWire(all))
}

func (h *Handler) pendingItems(w http.ResponseWriter, r *http.Request) {
	pending := catalog.StatusPending
	all, err := h.catalog.AllItems(r.Context(), &pending)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, catalog.AllToWire(all))
}
