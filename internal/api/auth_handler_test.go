package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adboard/adboard-api/internal/api"
	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/mocks"
	"github.com/adboard/adboard-api/internal/store"
)

func storedUser(t *testing.T, username, password string, role domain.Role) *domain.User {
	t.Helper()

	user, err := domain.NewUser(username, username+"@example.com", password, role)
	require.NoError(t, err)
	user.HashedPassword = "hashed:" + password
	user.Password = ""
	return user
}

func TestLogin(t *testing.T) {
	t.Parallel()

	alice := storedUser(t, "alice", "password123", domain.RoleUser)

	tests := []struct {
		name           string
		body           string
		setupStore     func(*mocks.MockUserStore)
		setupJWT       func(*mocks.MockJWTService)
		wantStatus     int
		wantToken      string
		wantErrMessage string
	}{
		{
			name: "successful login",
			body: `{"username":"alice","password":"password123"}`,
			setupStore: func(s *mocks.MockUserStore) {
				s.Users[alice.Username] = alice
			},
			setupJWT: func(j *mocks.MockJWTService) {
				j.Token = "signed-token"
			},
			wantStatus: http.StatusOK,
			wantToken:  "signed-token",
		},
		{
			name:           "unknown username",
			body:           `{"username":"nobody","password":"password123"}`,
			wantStatus:     http.StatusUnauthorized,
			wantErrMessage: "Incorrect username or password",
		},
		{
			name: "wrong password",
			body: `{"username":"alice","password":"wrong-password"}`,
			setupStore: func(s *mocks.MockUserStore) {
				s.Users[alice.Username] = alice
			},
			wantStatus:     http.StatusUnauthorized,
			wantErrMessage: "Incorrect username or password",
		},
		{
			name:       "malformed JSON",
			body:       `{"username":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing password",
			body:       `{"username":"alice"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "store failure",
			setupStore: func(s *mocks.MockUserStore) {
				s.GetByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
					return nil, errors.New("connection refused")
				}
			},
			body:       `{"username":"alice","password":"password123"}`,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "token generation failure",
			body: `{"username":"alice","password":"password123"}`,
			setupStore: func(s *mocks.MockUserStore) {
				s.Users[alice.Username] = alice
			},
			setupJWT: func(j *mocks.MockJWTService) {
				j.Err = errors.New("signing failed")
			},
			wantStatus: http.StatusInternalServerError,
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
			jwtService := &mocks.MockJWTService{}
			if tc.setupJWT != nil {
				tc.setupJWT(jwtService)
			}

			handler := api.NewAuthHandler(userStore, jwtService, &mocks.MockPasswordHasher{}, 48*time.Hour, nil)

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)

			if tc.wantToken != "" {
				var resp api.TokenResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, tc.wantToken, resp.AccessToken)
				assert.Equal(t, "bearer", resp.TokenType)

				expiresAt, err := time.Parse(time.RFC3339, resp.ExpiresAt)
				require.NoError(t, err)
				assert.WithinDuration(t, time.Now().UTC().Add(48*time.Hour), expiresAt, time.Minute)
			}
			if tc.wantErrMessage != "" {
				var resp map[string]interface{}
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, tc.wantErrMessage, resp["error"])
			}
		})
	}
}

func TestLoginPassesRoleToTokenGeneration(t *testing.T) {
	t.Parallel()

	admin := storedUser(t, "root", "adminpass", domain.RoleAdmin)
	userStore := mocks.NewMockUserStore()
	userStore.Users[admin.Username] = admin

	var gotUserID uuid.UUID
	var gotRole domain.Role
	jwtService := &mocks.MockJWTService{
		GenerateTokenFn: func(ctx context.Context, userID uuid.UUID, role domain.Role) (string, error) {
			gotUserID = userID
			gotRole = role
			return "tok", nil
		},
	}

	handler := api.NewAuthHandler(userStore, jwtService, &mocks.MockPasswordHasher{}, 48*time.Hour, nil)

	req := httptest.NewRequest(http.MethodPost, "/login",
		bytes.NewBufferString(`{"username":"root","password":"adminpass"}`))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, admin.ID, gotUserID)
	assert.Equal(t, domain.RoleAdmin, gotRole)
}

func TestLoginUniformFailureMessage(t *testing.T) {
	t.Parallel()

	// Unknown username and wrong password must be indistinguishable.
	alice := storedUser(t, "alice", "password123", domain.RoleUser)
	userStore := mocks.NewMockUserStore()
	userStore.Users[alice.Username] = alice

	handler := api.NewAuthHandler(userStore, &mocks.MockJWTService{}, &mocks.MockPasswordHasher{}, 48*time.Hour, nil)

	bodies := []string{
		`{"username":"nobody","password":"password123"}`,
		`{"username":"alice","password":"wrong"}`,
	}

	var responses []string
	for _, body := range bodies {
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		handler.Login(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		var resp map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		responses = append(responses, resp["error"].(string))
	}

	assert.Equal(t, responses[0], responses[1])
}

func TestLoginDoesNotLeakStoreErrors(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	userStore.GetByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
		return nil, store.ErrTransactionFailed
	}

	handler := api.NewAuthHandler(userStore, &mocks.MockJWTService{}, &mocks.MockPasswordHasher{}, 48*time.Hour, nil)

	req := httptest.NewRequest(http.MethodPost, "/login",
		bytes.NewBufferString(`{"username":"alice","password":"password123"}`))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "transaction")
}
