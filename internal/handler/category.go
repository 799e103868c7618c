// Package handler contains the terminal business handlers that run after a
// request clears its guard chain. Handlers are deliberately thin: they read
// bound values off the pipeline context, call one service method, and
// return the payload to serialize. Everything that can reject a request
// has already run.
package handler

import (
	"net/http"

	"github.com/sakif/catalog-service/internal/pipeline"
	"github.com/sakif/catalog-service/internal/service"
)

// CategoryHandler serves the /categories endpoints.
type CategoryHandler struct {
	categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List handles GET /categories. Chain: ValidateInput(Pagination).
func (h *CategoryHandler) List(r *http.Request, rc *pipeline.Context) (any, error) {
	page, err := h.categories.List(r.Context(), rc.Input.Int("page"), rc.Input.Int("per_page"))
	if err != nil {
		return nil, err
	}

	return pageResponse{
		Page:    page.Page,
		PerPage: page.PerPage,
		Total:   page.Total,
		Items:   page.Items,
	}, nil
}

// Create handles POST /categories. Chain: Authenticate,
// ValidateInput(Category).
func (h *CategoryHandler) Create(r *http.Request, rc *pipeline.Context) (any, error) {
	if _, err := h.categories.Create(r.Context(), rc.Input.String("name"), rc.UserID); err != nil {
		return nil, err
	}
	return emptyResponse{}, nil
}

// Get handles GET /categories/{category_id}. Chain: ResolveCategory.
func (h *CategoryHandler) Get(_ *http.Request, rc *pipeline.Context) (any, error) {
	return rc.Category, nil
}

// Delete handles DELETE /categories/{category_id}. Chain: Authenticate,
// ResolveCategory, CheckOwnership. The delete cascades over the
// category's items.
func (h *CategoryHandler) Delete(r *http.Request, rc *pipeline.Context) (any, error) {
	if err := h.categories.Delete(r.Context(), rc.Category.ID); err != nil {
		return nil, err
	}
	return emptyResponse{}, nil
}
