package handler

import (
	"net/http"

	"storefront/internal/apperr"
	"storefront/internal/seller"
	"storefront/internal/utils"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var in seller.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	// A missing confirmation counts as matching.
	if in.ConfirmPassword == "" {
		in.ConfirmPassword = in.Password
	}

	res, err := h.sellers.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, seller.ToAuthResponse(res))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in seller.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.sellers.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, seller.ToAuthResponse(res))
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	exists, err := h.sellers.Verify(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !exists {
		utils.WriteJSON(w, http.StatusNotFound, seller.VerifyResponse{
			Exists: false,
			Error:  apperr.ErrAccountDeleted.Error(),
		})
		return
	}
	utils.WriteJSON(w, http.StatusOK, seller.VerifyResponse{Exists: true})
}

func (h *Handler) adminCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) listSellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.sellers.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, seller.ToWireList(sellers))
}

func (h *Handler) updateSeller(w http.ResponseWriter, r *http.Request) {
	var in seller.UpdateInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.sellers.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, seller.AuthResponse{Success: true, Seller: seller.ToWire(updated)})
}

func (h *Handler) deleteSeller(w http.ResponseWriter, r *http.Request) {
	res, err := h.sellers.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, seller.DeleteResponse{
		Message:         "Seller deleted",
		DeletedServices: res.DeletedServices,
		DeletedProducts: res.DeletedProducts,
	})
}
