package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"storefront/internal/apperr"
	"storefront/internal/catalog"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/seller"
	"storefront/internal/utils"

	"go.uber.org/zap"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

type Handler struct {
	catalog catalog.Service
	sellers seller.Service
	uploads *Uploader
	metrics *metrics.Registry
}

func New(c catalog.Service, s seller.Service, u *Uploader, m *metrics.Registry) *Handler {
	if m == nil {
		m = metrics.NewRegistry()
	}
	return &Handler{catalog: c, sellers: s, uploads: u, metrics: m}
}

// Routes registers the REST collaborator under /api. Every request passes
// through auth, so handlers see the caller in their context.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	admin := func(f http.HandlerFunc) http.Handler { return middleware.RequireAdmin(f) }
	actor := func(f http.HandlerFunc) http.Handler { return middleware.RequireActor(f) }

	for _, kind := range catalog.Kinds {
		base := "/api/" + kind.Plural()

		mux.HandleFunc("GET "+base, h.listPublic(kind))
		mux.HandleFunc("GET "+base+"/names", h.names(kind))
		mux.Handle("POST "+base, actor(h.create(kind)))
		mux.Handle("PUT "+base+"/{id}", actor(h.update(kind)))
		mux.Handle("DELETE "+base+"/{id}", actor(h.delete(kind)))

		if kind.SellerOwned() {
			mux.HandleFunc("GET "+base+"/seller/{sellerId}", h.listBySeller(kind))
			mux.Handle("PUT /api/admin/"+kind.Plural()+"/{id}/approve", admin(h.moderate(kind, catalog.StatusApproved)))
			mux.Handle("PUT /api/admin/"+kind.Plural()+"/{id}/reject", admin(h.moderate(kind, catalog.StatusRejected)))
		}
	}

	mux.Handle("GET /api/admin/all-items", admin(h.allItems))
	mux.Handle("GET /api/admin/pending-items", admin(h.pendingItems))
	mux.Handle("GET /api/admin-check", admin(h.adminCheck))

	mux.HandleFunc("POST /api/seller/register", h.register)
	mux.HandleFunc("POST /api/seller/login", h.login)
	mux.HandleFunc("GET /api/seller/verify/{id}", h.verify)

	mux.Handle("GET /api/sellers", admin(h.listSellers))
	mux.Handle("PUT /api/sellers/{id}", actor(h.updateSeller))
	mux.Handle("DELETE /api/sellers/{id}", admin(h.deleteSeller))

	if h.uploads != nil {
		mux.Handle("POST /api/upload", actor(h.upload))
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", h.uploads.FileServer()))
	}

	mux.HandleFunc("GET /healthz", h.health)
	return mux
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return apperr.Invalid("", "Invalid JSON payload")
	}
	return nil
}

// writeError maps err onto the {"error": msg} envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	utils.WriteJSONError(w, msg, status)
}

func classify(err error) (int, string) {
	var (
		ve *apperr.ValidationError
		ae *apperr.AuthError
		fe *apperr.ForbiddenError
		ne *apperr.NotFoundError
	)

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.Is(err, apperr.ErrAccountDeleted):
		return http.StatusUnauthorized, apperr.ErrAccountDeleted.Error()
	case errors.As(err, &ae):
		return http.StatusUnauthorized, ae.Message
	case errors.As(err, &fe):
		return http.StatusForbidden, fe.Error()
	case errors.As(err, &ne):
		return http.StatusNotFound, ne.Error()
	case errors.Is(err, seller.ErrSellerNotFound), errors.Is(err, catalog.ErrItemNotFound), errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, seller.ErrEmailExists):
		return http.StatusConflict, "Email already registered"
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, "Item was changed by someone else. Reload and try again."
	case errors.Is(err, catalog.ErrNotOwner), errors.Is(err, catalog.ErrLocked):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, catalog.ErrUnknownKind), errors.Is(err, catalog.ErrUnknownStatus), errors.Is(err, catalog.ErrNoFields):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "Internal server error"
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"uptime_s": int64(h.metrics.Uptime().Seconds()),
		"counters": h.metrics.Snapshot(),
	})
}
