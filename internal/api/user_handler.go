package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/adboard/adboard-api/internal/api/middleware"
	"github.com/adboard/adboard-api/internal/api/shared"
	"github.com/adboard/adboard-api/internal/authz"
	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/service/auth"
	"github.com/adboard/adboard-api/internal/store"
)

// UserHandler handles user account HTTP requests.
type UserHandler struct {
	userStore      store.UserStore
	passwordHasher auth.PasswordHasher
	validator      *validator.Validate
	logger         *slog.Logger
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userStore store.UserStore, passwordHasher auth.PasswordHasher, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		userStore:      userStore,
		passwordHasher: passwordHasher,
		validator:      validator.New(),
		logger:         logger.With(slog.String("component", "user_handler")),
	}
}

// Register handles POST /user. Registration is open: no credentials are
// required and the requested role is honored as submitted.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(r)

	if !authorize(w, r, principal, authz.ActionCreate, authz.NewUserRecord()) {
		return
	}

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := domain.NewUser(req.Username, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	hashed, err := h.passwordHasher.Hash(user.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create user", err)
		return
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := h.userStore.Create(ctx, user); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Debug("user registered",
		slog.String("trace_id", shared.GetTraceID(ctx)),
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))

	shared.RespondWithJSON(w, r, http.StatusCreated, userToResponse(user))
}

// Get handles GET /user/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if !authorize(w, r, principal, authz.ActionRead, authz.UserRecord(id)) {
		return
	}

	user, err := h.userStore.GetByID(ctx, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// Update handles PATCH /user/{id}. Only the account owner or an admin may
// update; the role field is never changed through this endpoint.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req UpdateUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByID(ctx, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if !authorize(w, r, principal, authz.ActionUpdate, authz.UserRecord(user.ID)) {
		return
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		hashed, err := h.passwordHasher.Hash(*req.Password)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"Failed to update user", err)
			return
		}
		user.HashedPassword = hashed
	}
	user.Password = ""

	if err := user.Validate(); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.userStore.Update(ctx, user); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Debug("user updated",
		slog.String("trace_id", shared.GetTraceID(ctx)),
		slog.String("user_id", user.ID.String()),
		slog.String("actor_id", principal.UserID.String()))

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// Delete handles DELETE /user/{id}. Only the account owner or an admin may
// delete; advertisements owned by the user are removed with it.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.userStore.GetByID(ctx, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if !authorize(w, r, principal, authz.ActionDelete, authz.UserRecord(user.ID)) {
		return
	}

	if err := h.userStore.Delete(ctx, id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Debug("user deleted",
		slog.String("trace_id", shared.GetTraceID(ctx)),
		slog.String("user_id", id.String()),
		slog.String("actor_id", principal.UserID.String()))

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
