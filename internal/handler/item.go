package handler

import (
	"net/http"

	"github.com/sakif/catalog-service/internal/pipeline"
	"github.com/sakif/catalog-service/internal/service"
)

// ItemHandler serves the /categories/{category_id}/items endpoints.
type ItemHandler struct {
	items *service.ItemService
}

func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// List handles GET /categories/{category_id}/items. Chain:
// ResolveCategory, ValidateInput(Pagination).
func (h *ItemHandler) List(r *http.Request, rc *pipeline.Context) (any, error) {
	page, err := h.items.ListByCategory(r.Context(), rc.Category.ID, rc.Input.Int("page"), rc.Input.Int("per_page"))
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

// Create handles POST /categories/{category_id}/items. Chain: Authenticate,
// ResolveCategory, ValidateInput(Item), CheckOwnership.
func (h *ItemHandler) Create(r *http.Request, rc *pipeline.Context) (any, error) {
	_, err := h.items.Create(r.Context(), rc.Category.ID, rc.Input.String("name"), rc.Input.String("description"))
	if err != nil {
		return nil, err
	}
	return emptyResponse{}, nil
}

// Get handles GET /categories/{category_id}/items/{item_id}. Chain:
// ResolveCategory, ResolveItem.
func (h *ItemHandler) Get(_ *http.Request, rc *pipeline.Context) (any, error) {
	return rc.Item, nil
}

// Update handles PUT on an item. Chain: Authenticate, ResolveCategory,
// ValidateInput(ItemUpdate), ResolveItem, CheckOwnership. Only the fields
// present in the validated input are touched.
func (h *ItemHandler) Update(r *http.Request, rc *pipeline.Context) (any, error) {
	var update service.ItemUpdate
	if rc.Input.Has("name") {
		name := rc.Input.String("name")
		update.Name = &name
	}
	if rc.Input.Has("description") {
		description := rc.Input.String("description")
		update.Description = &description
	}

	if err := h.items.Update(r.Context(), rc.Item, update); err != nil {
		return nil, err
	}
	return emptyResponse{}, nil
}

// Delete handles DELETE on an item. Chain: Authenticate, ResolveCategory,
// ResolveItem, CheckOwnership.
func (h *ItemHandler) Delete(r *http.Request, rc *pipeline.Context) (any, error) {
	if err := h.items.Delete(r.Context(), rc.Item.ID); err != nil {
		return nil, err
	}
	return emptyResponse{}, nil
}
