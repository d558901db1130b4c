package httpx

import (
	"errors"
	"net/http"

	"github.com/jcmexdev/foodcart/internal/core/domain"
	"github.com/jcmexdev/foodcart/internal/httpx/middlewares"
)

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.GetProfile(r.Context(), middlewares.UserID(r.Context()))
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			err = domain.RemoteError("get profile", err)
		}
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProfile(*p))
}

// PutProfile updates the caller's profile, creating it on first save.
func (h *Handler) PutProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	ctx := r.Context()
	p := domain.Profile{
		UserID:     middlewares.UserID(ctx),
		FullName:   req.FullName,
		Address:    req.Address,
		Phone:      req.Phone,
		Vegetarian: req.Vegetarian,
	}

	release, err := h.profileLocks.Acquire(ctx, p.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer release()

	_, err = h.profiles.GetProfile(ctx, p.UserID)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		err = h.profiles.InsertProfile(ctx, p)
	case err == nil:
		err = h.profiles.UpdateProfile(ctx, p)
	}
	if err != nil {
		h.fail(w, r, domain.RemoteError("save profile", err))
		return
	}
	writeJSON(w, http.StatusOK, mapProfile(p))
}
