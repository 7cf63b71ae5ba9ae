package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/momosplit/pkg/middleware"
	"github.com/fkhayef/momosplit/pkg/response"
)

func newTestRouter(store *MockStore) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.TestUserMiddleware)
	r.Mount("/users", NewHandler(NewService(store)).Routes())
	return r
}

func serve(t *testing.T, h http.Handler, method, target, body string, headers ...string) (*httptest.ResponseRecorder, response.APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out response.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestHandler_Me(t *testing.T) {
	store := new(MockStore)
	store.On("GetByID", mock.Anything, int64(3)).Return(&User{
		ID:          3,
		Name:        "Esi Mensah",
		Email:       "esi@example.com",
		PhoneNumber: "+233201112233",
		CreatedAt:   time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}, nil)

	rec, body := serve(t, newTestRouter(store), http.MethodGet, "/users/me", "", "X-Test-User-ID", "3")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := body.Data.(map[string]interface{})
	assert.Equal(t, "Esi", data["first_name"])
	assert.Equal(t, true, data["has_wallet"])
}

func TestHandler_CreateConflict(t *testing.T) {
	store := new(MockStore)
	store.On("GetByEmail", mock.Anything, "ama@example.com").Return(&User{ID: 1}, nil)

	rec, body := serve(t, newTestRouter(store), http.MethodPost, "/users",
		`{"name":"Ama","email":"ama@example.com"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "CONFLICT", body.Error.Code)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandler_CreateInvalidPhone(t *testing.T) {
	rec, _ := serve(t, newTestRouter(new(MockStore)), http.MethodPost, "/users",
		`{"name":"Ama","email":"ama@example.com","phone_number":"12"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_GetByIDRejectsBadID(t *testing.T) {
	rec, body := serve(t, newTestRouter(new(MockStore)), http.MethodGet, "/users/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid user ID", body.Error.Message)
}

func TestHandler_DeleteNotFound(t *testing.T) {
	store := new(MockStore)
	store.On("Delete", mock.Anything, int64(9)).Return(ErrUserNotFound)

	rec, _ := serve(t, newTestRouter(store), http.MethodDelete, "/users/9", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Kofi", (&User{Name: "  Kofi Boateng "}).FirstName())
	assert.Equal(t, "", (&User{}).FirstName())
	assert.False(t, (&User{}).HasWallet())
}
