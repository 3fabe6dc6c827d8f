package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/adboard/adboard-api/internal/api/middleware"
	"github.com/adboard/adboard-api/internal/api/shared"
	"github.com/adboard/adboard-api/internal/authz"
	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/store"
)

// AdvertisementHandler handles advertisement HTTP requests.
type AdvertisementHandler struct {
	adStore   store.AdvertisementStore
	validator *validator.Validate
	logger    *slog.Logger
}

// NewAdvertisementHandler creates a new AdvertisementHandler with the given
// dependencies.
func NewAdvertisementHandler(adStore store.AdvertisementStore, logger *slog.Logger) *AdvertisementHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdvertisementHandler{
		adStore:   adStore,
		validator: validator.New(),
		logger:    logger.With(slog.String("component", "advertisement_handler")),
	}
}

// Create handles POST /advertisement. Any authenticated user may create; the
// owner is always the caller, regardless of the payload.
func (h *AdvertisementHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(r)

	if !authorize(w, r, principal, authz.ActionCreate, authz.NewAdvertisementRecord()) {
		return
	}

	var req CreateAdvertisementRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	ad, err := domain.NewAdvertisement(req.Title, req.Description, req.Price, principal.UserID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.adStore.Create(ctx, ad); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Debug("advertisement created",
		slog.String("trace_id", shared.GetTraceID(ctx)),
		slog.String("advertisement_id", ad.ID.String()),
		slog.String("owner_id", ad.OwnerID.String()))

	shared.RespondWithJSON(w, r, http.StatusCreated, advertisementToResponse(ad))
}

// Get handles GET /advertisement/{id}.
func (h *AdvertisementHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid advertisement ID")
		return
	}

	if !authorize(w, r, principal, authz.ActionRead, authz.AdvertisementRecord(uuid.Nil)) {
		return
	}

	ad, err := h.adStore.GetByID(ctx, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, advertisementToResponse(ad))
}

// Update handles PATCH /advertisement/{id}. Only the owner or an admin may
// update; the owner never changes.
func (h *AdvertisementHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid advertisement ID")
		return
	}

	var req UpdateAdvertisementRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	ad, err := h.adStore.GetByID(ctx, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if !authorize(w, r, principal, authz.ActionUpdate, authz.AdvertisementRecord(ad.OwnerID)) {
		return
	}

	if req.Title != nil {
		ad.Title = *req.Title
	}
	if req.Description != nil {
		ad.Description = *req.Description
	}
	if req.Price != nil {
		ad.Price = *req.Price
	}

	if err := ad.Validate(); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.adStore.Update(ctx, ad); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Debug("advertisement updated",
		slog.String("trace_id", shared.GetTraceID(ctx)),
		slog.String("advertisement_id", ad.ID.String()),
		slog.String("actor_id", principal.UserID.String()))

	shared.RespondWithJSON(w, r, http.StatusOK, advertisementToResponse(ad))
}

// Delete handles DELETE /advertisement/{id}. Only the owner or an admin may
// delete.
func (h *AdvertisementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid advertisement ID")
		return
	}

	ad, err := h.adStore.GetByID(ctx, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if !authorize(w, r, principal, authz.ActionDelete, authz.AdvertisementRecord(ad.OwnerID)) {
		return
	}

	if err := h.adStore.Delete(ctx, id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Debug("advertisement deleted",
		slog.String("trace_id", shared.GetTraceID(ctx)),
		slog.String("advertisement_id", id.String()),
		slog.String("actor_id", principal.UserID.String()))

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// Search handles GET /advertisement. Filters are passed as query parameters:
// title, description, min_price, max_price, limit and offset.
func (h *AdvertisementHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(r)

	if !authorize(w, r, principal, authz.ActionSearch, authz.AdvertisementRecord(uuid.Nil)) {
		return
	}

	filter, err := parseSearchFilter(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ads, err := h.adStore.Search(ctx, filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	// Always serialize an array, never null.
	results := make([]AdvertisementResponse, 0, len(ads))
	for _, ad := range ads {
		results = append(results, advertisementToResponse(ad))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, results)
}

// parseSearchFilter builds an AdvertisementFilter from query parameters.
func parseSearchFilter(r *http.Request) (store.AdvertisementFilter, error) {
	q := r.URL.Query()
	filter := store.AdvertisementFilter{
		Title:       q.Get("title"),
		Description: q.Get("description"),
	}

	if raw := q.Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return filter, errInvalidQueryParam("min_price")
		}
		filter.MinPrice = &v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return filter, errInvalidQueryParam("max_price")
		}
		filter.MaxPrice = &v
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return filter, errInvalidQueryParam("min_price greater than max_price")
	}

	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return filter, errInvalidQueryParam("limit")
		}
		filter.Limit = v
	}
	if raw := q.Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return filter, errInvalidQueryParam("offset")
		}
		filter.Offset = v
	}

	return filter, nil
}

type queryParamError string

func errInvalidQueryParam(name string) error {
	return queryParamError(name)
}

func (e queryParamError) Error() string {
	return "Invalid query parameter: " + string(e)
}
