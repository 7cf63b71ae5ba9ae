package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
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
	r.Mount("/notifications", NewHandler(NewService(store)).Routes())
	return r
}

func do(t *testing.T, h http.Handler, method, target, userID string) (*httptest.ResponseRecorder, response.APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("X-Test-User-ID", userID)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out response.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestHandler_List(t *testing.T) {
	n := about(2, `Ama added "Dinner"`, EntityExpense, 4)
	n.CreatedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	store := new(MockStore)
	store.On("ListByRecipientID", mock.Anything, int64(2), 10, 10, true).Return([]*Notification{n}, 11, nil)

	rec, body := do(t, newTestRouter(store), http.MethodGet, "/notifications?page=2&per_page=10&unread_only=true", "2")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 2, body.Meta.TotalPages)
	items := body.Data.([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "EXPENSE", items[0].(map[string]interface{})["related_entity_type"])
}

func TestHandler_MarkAsReadForbidden(t *testing.T) {
	store := new(MockStore)
	store.On("MarkAsRead", mock.Anything, int64(8), int64(2)).Return(false, nil)
	store.On("GetByID", mock.Anything, int64(8)).Return(&Notification{ID: 8, RecipientID: 5}, nil)

	rec, body := do(t, newTestRouter(store), http.MethodPost, "/notifications/8/read", "2")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
}

func TestHandler_MarkAllAsRead(t *testing.T) {
	store := new(MockStore)
	store.On("MarkAllAsRead", mock.Anything, int64(3)).Return(int64(4), nil)

	rec, body := do(t, newTestRouter(store), http.MethodPost, "/notifications/read-all", "3")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(4), body.Data.(map[string]interface{})["updated"])
}

func TestHandler_UnreadCount(t *testing.T) {
	store := new(MockStore)
	store.On("GetUnreadCount", mock.Anything, int64(1)).Return(6, nil)

	rec, body := do(t, newTestRouter(store), http.MethodGet, "/notifications/unread-count", "1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(6), body.Data.(map[string]interface{})["unread_count"])
}
