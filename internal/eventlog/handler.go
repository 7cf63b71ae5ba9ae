package eventlog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/momosplit/pkg/response"
)

// Handler exposes the activity log read-only
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Routes returns the router for event endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	return r
}

// List handles GET /events?type=expense.created
// @Summary      List activity events
// @Tags         events
// @Produce      json
// @Param        type query string true "Event type, e.g. expense.created"
// @Param        limit query int false "Maximum events" default(50)
// @Success      200 {object} response.APIResponse{data=[]Event}
// @Failure      400 {object} response.APIResponse
// @Router       /events [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	eventType := r.URL.Query().Get("type")
	if eventType == "" {
		response.BadRequest(w, "type is required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 500 {
		limit = 50
	}

	events, err := h.store.ListByType(r.Context(), eventType, limit)
	if err != nil {
		response.InternalError(w, "Failed to list events")
		return
	}

	response.JSON(w, http.StatusOK, events)
}
