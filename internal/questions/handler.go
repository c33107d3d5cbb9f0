package questions

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/crackube/qna-backend/internal/domain"
	"github.com/crackube/qna-backend/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the questions module.
type Handler struct {
	service   *Service
	validator *validator.Validate
	ownerOnly bool // non-admin callers of List only see their own records
}

// NewHandler creates a new question handler. ownerOnly selects the
// owner-scoped listing variant.
func NewHandler(service *Service, ownerOnly bool) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
		ownerOnly: ownerOnly,
	}
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/my", h.ListOwn)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// TitleRequest is the create/update request body.
type TitleRequest struct {
	Title string `json:"title" validate:"required"`
}

// Pagination echoes the applied paging parameters back to the caller.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// ListResponse is the paginated listing payload.
type ListResponse struct {
	Value      []domain.Question `json:"value"`
	Pagination Pagination        `json:"pagination"`
}

// Create handles POST /questions.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := httputil.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req TitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	question, err := h.service.Create(r.Context(), identity, req.Title)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "question added successfully", question)
}

// List handles GET /questions. Depending on deployment configuration the
// route is public, admin-only, or owner-scoped; in the owner-scoped variant
// non-admin callers receive only their own records.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.ownerOnly {
		identity, ok := httputil.GetIdentity(r.Context())
		if !ok {
			httputil.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !identity.Role.IsAdmin() {
			h.listOwn(w, r, identity)
			return
		}
	}

	page := queryInt(r, "page", DefaultPage)
	limit := queryInt(r, "limit", DefaultLimit)

	items, total, err := h.service.List(r.Context(), page, limit)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	if items == nil {
		items = []domain.Question{}
	}

	message := "data fetched successfully"
	if total == 0 {
		message = "no data found"
	}

	httputil.Success(w, http.StatusOK, message, ListResponse{
		Value: items,
		Pagination: Pagination{
			Page:  normalizePage(page),
			Limit: normalizeLimit(limit),
			Total: total,
		},
	})
}

// ListOwn handles GET /questions/my.
func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	identity, ok := httputil.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.listOwn(w, r, identity)
}

func (h *Handler) listOwn(w http.ResponseWriter, r *http.Request, identity domain.Identity) {
	items, err := h.service.ListOwn(r.Context(), identity)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	if len(items) == 0 {
		httputil.Success(w, http.StatusOK, "no data found", []domain.Question{})
		return
	}

	httputil.Success(w, http.StatusOK, "data fetched successfully", items)
}

// Update handles PUT /questions/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := httputil.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req TitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	question, err := h.service.Update(r.Context(), identity, chi.URLParam(r, "id"), req.Title)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "question updated successfully", question)
}

// Delete handles DELETE /questions/{id}. Answers referencing the question
// are removed with it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := httputil.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.service.Delete(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "question deleted successfully", nil)
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrQuestionNotFound, Status: http.StatusNotFound},
		{Error: ErrEmptyTitle, Status: http.StatusBadRequest},
		{Error: ErrNotOwner, Status: http.StatusForbidden},
	})
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent or not numeric.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func normalizePage(page int) int {
	if page < 1 {
		return DefaultPage
	}
	return page
}

func normalizeLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
