package answers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/crackube/qna-backend/internal/domain"
	"github.com/crackube/qna-backend/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the answers module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new answer handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/my", h.ListOwn)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// CreateAnswerRequest is the create request body.
type CreateAnswerRequest struct {
	Title      string `json:"title" validate:"required"`
	QuestionID string `json:"question_id" validate:"required"`
}

// TitleRequest is the update request body.
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
	Value      []domain.Answer `json:"value"`
	Pagination Pagination      `json:"pagination"`
}

// Create handles POST /answers.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := httputil.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	answer, err := h.service.Create(r.Context(), identity, req.QuestionID, req.Title)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "answer added successfully", answer)
}

// List handles GET /answers. The route is public.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", DefaultPage)
	limit := queryInt(r, "limit", DefaultLimit)

	items, total, err := h.service.List(r.Context(), page, limit)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	if items == nil {
		items = []domain.Answer{}
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

// ByQuestion handles GET /answers/question/{id}. Public, like List.
func (h *Handler) ByQuestion(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListByQuestion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	if len(items) == 0 {
		httputil.Success(w, http.StatusOK, "no data found", []domain.Answer{})
		return
	}

	httputil.Success(w, http.StatusOK, "data fetched successfully", items)
}

// ListOwn handles GET /answers/my.
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
		httputil.Success(w, http.StatusOK, "no data found", []domain.Answer{})
		return
	}

	httputil.Success(w, http.StatusOK, "data fetched successfully", items)
}

// Update handles PUT /answers/{id}.
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

	answer, err := h.service.Update(r.Context(), identity, chi.URLParam(r, "id"), req.Title)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "answer updated successfully", answer)
}

// Delete handles DELETE /answers/{id}.
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

	httputil.Success(w, http.StatusOK, "answer deleted successfully", nil)
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrAnswerNotFound, Status: http.StatusNotFound},
		{Error: ErrQuestionNotFound, Status: http.StatusNotFound},
		{Error: ErrEmptyTitle, Status: http.StatusBadRequest},
		{Error: ErrNotOwner, Status: http.StatusForbidden},
	})
}

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
