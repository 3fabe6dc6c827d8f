package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adboard/adboard-api/internal/api"
	"github.com/adboard/adboard-api/internal/api/shared"
	"github.com/adboard/adboard-api/internal/authz"
	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/mocks"
)

// withPrincipal attaches a principal to the request the way the auth
// middleware would.
func withPrincipal(r *http.Request, p authz.Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), shared.PrincipalContextKey, p))
}

func userRouter(h *api.UserHandler) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/user", h.Register)
	router.Get("/user/{id}", h.Get)
	router.Patch("/user/{id}", h.Update)
	router.Delete("/user/{id}", h.Delete)
	return router
}

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		setupStore func(*mocks.MockUserStore)
		wantStatus int
		wantRole   string
	}{
		{
			name:       "successful registration",
			body:       `{"username":"alice","email":"alice@example.com","password":"password123"}`,
			wantStatus: http.StatusCreated,
			wantRole:   "user",
		},
		{
			name:       "explicit admin role",
			body:       `{"username":"root","email":"root@example.com","password":"adminpass","role":"admin"}`,
			wantStatus: http.StatusCreated,
			wantRole:   "admin",
		},
		{
			name:       "unknown role",
			body:       `{"username":"bob","email":"bob@example.com","password":"password123","role":"superuser"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "username too short",
			body:       `{"username":"ab","email":"ab@example.com","password":"password123"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid email",
			body:       `{"username":"carol","email":"not-an-email","password":"password123"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "password too short",
			body:       `{"username":"carol","email":"carol@example.com","password":"short"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate username",
			body: `{"username":"alice","email":"other@example.com","password":"password123"}`,
			setupStore: func(s *mocks.MockUserStore) {
				s.Users["alice"] = storedUser(t, "alice", "password123", domain.RoleUser)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "duplicate email",
			body: `{"username":"alice2","email":"alice@example.com","password":"password123"}`,
			setupStore: func(s *mocks.MockUserStore) {
				s.Users["alice"] = storedUser(t, "alice", "password123", domain.RoleUser)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "malformed JSON",
			body:       `{"username"`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field rejected",
			body:       `{"username":"dave","email":"dave@example.com","password":"password123","is_admin":true}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			userStore := mocks.NewMockUserStore()
			if tc.setupStore != nil {
				tc.setupStore(userStore)
			}
			handler := api.NewUserHandler(userStore, &mocks.MockPasswordHasher{}, nil)
			router := userRouter(handler)

			req := httptest.NewRequest(http.MethodPost, "/user", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)

			if tc.wantStatus == http.StatusCreated {
				var resp api.UserResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, tc.wantRole, resp.Role)
				assert.NotEmpty(t, resp.ID)
				// Password material must never appear in responses.
				assert.NotContains(t, rec.Body.String(), "password")
			}
		})
	}
}

func TestRegisterStoresHashedPassword(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	handler := api.NewUserHandler(userStore, &mocks.MockPasswordHasher{}, nil)
	router := userRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/user",
		bytes.NewBufferString(`{"username":"alice","email":"alice@example.com","password":"password123"}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	stored := userStore.Users["alice"]
	require.NotNil(t, stored)
	assert.Equal(t, "hashed:password123", stored.HashedPassword)
	assert.Empty(t, stored.Password)
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	alice := storedUser(t, "alice", "password123", domain.RoleUser)

	tests := []struct {
		name       string
		target     string
		principal  *authz.Principal
		wantStatus int
	}{
		{
			name:       "anonymous read allowed",
			target:     "/user/" + alice.ID.String(),
			wantStatus: http.StatusOK,
		},
		{
			name:   "authenticated read allowed",
			target: "/user/" + alice.ID.String(),
			principal: func() *authz.Principal {
				p := authz.NewPrincipal(alice.ID, domain.RoleUser)
				return &p
			}(),
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing user",
			target:     "/user/00000000-0000-0000-0000-000000000001",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid id",
			target:     "/user/not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			userStore := mocks.NewMockUserStore()
			userStore.Users[alice.Username] = alice
			handler := api.NewUserHandler(userStore, &mocks.MockPasswordHasher{}, nil)
			router := userRouter(handler)

			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.principal != nil {
				req = withPrincipal(req, *tc.principal)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestUpdateUser(t *testing.T) {
	t.Parallel()

	alice := storedUser(t, "alice", "password123", domain.RoleUser)
	bob := storedUser(t, "bob", "password456", domain.RoleUser)
	admin := storedUser(t, "root", "adminpass", domain.RoleAdmin)

	tests := []struct {
		name       string
		principal  authz.Principal
		anonymous  bool
		body       string
		wantStatus int
	}{
		{
			name:       "owner updates own account",
			principal:  authz.NewPrincipal(alice.ID, domain.RoleUser),
			body:       `{"username":"alice2"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "admin updates any account",
			principal:  authz.NewPrincipal(admin.ID, domain.RoleAdmin),
			body:       `{"email":"new@example.com"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "non-owner denied",
			principal:  authz.NewPrincipal(bob.ID, domain.RoleUser),
			body:       `{"username":"hijacked"}`,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "anonymous denied",
			anonymous:  true,
			body:       `{"username":"hijacked"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid new username",
			principal:  authz.NewPrincipal(alice.ID, domain.RoleUser),
			body:       `{"username":"ab"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			target := storedUser(t, "alice", "password123", domain.RoleUser)
			target.ID = alice.ID
			userStore := mocks.NewMockUserStore()
			userStore.Users[target.Username] = target

			handler := api.NewUserHandler(userStore, &mocks.MockPasswordHasher{}, nil)
			router := userRouter(handler)

			req := httptest.NewRequest(http.MethodPatch, "/user/"+alice.ID.String(),
				bytes.NewBufferString(tc.body))
			if !tc.anonymous {
				req = withPrincipal(req, tc.principal)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestUpdateUserChangesPassword(t *testing.T) {
	t.Parallel()

	alice := storedUser(t, "alice", "password123", domain.RoleUser)
	userStore := mocks.NewMockUserStore()
	userStore.Users[alice.Username] = alice

	handler := api.NewUserHandler(userStore, &mocks.MockPasswordHasher{}, nil)
	router := userRouter(handler)

	req := httptest.NewRequest(http.MethodPatch, "/user/"+alice.ID.String(),
		bytes.NewBufferString(`{"password":"newpassword"}`))
	req = withPrincipal(req, authz.NewPrincipal(alice.ID, domain.RoleUser))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hashed:newpassword", userStore.Users["alice"].HashedPassword)
}

func TestUpdateUserRefreshesUpdatedAt(t *testing.T) {
	t.Parallel()

	alice := storedUser(t, "alice", "password123", domain.RoleUser)
	alice.CreatedAt = time.Now().UTC().Add(-time.Hour)
	alice.UpdatedAt = alice.CreatedAt
	userStore := mocks.NewMockUserStore()
	userStore.Users[alice.Username] = alice

	handler := api.NewUserHandler(userStore, &mocks.MockPasswordHasher{}, nil)
	router := userRouter(handler)

	req := httptest.NewRequest(http.MethodPatch, "/user/"+alice.ID.String(),
		bytes.NewBufferString(`{"email":"fresh@example.com"}`))
	req = withPrincipal(req, authz.NewPrincipal(alice.ID, domain.RoleUser))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, userStore.Users["alice"].UpdatedAt.After(userStore.Users["alice"].CreatedAt))
}

func TestUpdateUserNotFound(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	handler := api.NewUserHandler(userStore, &mocks.MockPasswordHasher{}, nil)
	router := userRouter(handler)

	missing := "00000000-0000-0000-0000-000000000001"
	req := httptest.NewRequest(http.MethodPatch, "/user/"+missing,
		bytes.NewBufferString(`{"username":"ghost"}`))
	req = withPrincipal(req, authz.NewPrincipal(uuid.MustParse(missing), domain.RoleUser))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	alice := storedUser(t, "alice", "password123", domain.RoleUser)
	bob := storedUser(t, "bob", "password456", domain.RoleUser)
	admin := storedUser(t, "root", "adminpass", domain.RoleAdmin)

	tests := []struct {
		name       string
		principal  authz.Principal
		anonymous  bool
		wantStatus int
		wantGone   bool
	}{
		{
			name:       "owner deletes own account",
			principal:  authz.NewPrincipal(alice.ID, domain.RoleUser),
			wantStatus: http.StatusNoContent,
			wantGone:   true,
		},
		{
			name:       "admin deletes any account",
			principal:  authz.NewPrincipal(admin.ID, domain.RoleAdmin),
			wantStatus: http.StatusNoContent,
			wantGone:   true,
		},
		{
			name:       "non-owner denied",
			principal:  authz.NewPrincipal(bob.ID, domain.RoleUser),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "anonymous denied",
			anonymous:  true,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			target := storedUser(t, "alice", "password123", domain.RoleUser)
			target.ID = alice.ID
			userStore := mocks.NewMockUserStore()
			userStore.Users[target.Username] = target

			handler := api.NewUserHandler(userStore, &mocks.MockPasswordHasher{}, nil)
			router := userRouter(handler)

			req := httptest.NewRequest(http.MethodDelete, "/user/"+alice.ID.String(), nil)
			if !tc.anonymous {
				req = withPrincipal(req, tc.principal)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			_, exists := userStore.Users["alice"]
			assert.Equal(t, tc.wantGone, !exists)
		})
	}
}
