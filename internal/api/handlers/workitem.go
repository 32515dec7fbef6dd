package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cloo-solutions/backlogai/internal/api"
	"github.com/cloo-solutions/backlogai/internal/domain"
	"github.com/cloo-solutions/backlogai/internal/service"
	"github.com/go-chi/chi/v5"
)

type WorkItemService interface {
	Create(ctx context.Context, input service.CreateWorkItemInput) (int64, error)
	Update(ctx context.Context, id int64, input service.UpdateWorkItemInput) error
	GetWorkItems(ctx context.Context, filter service.WorkItemFilter) []*domain.WorkItemNode
}

type WorkItemHandler struct {
	svc WorkItemService
}

func NewWorkItemHandler(svc WorkItemService) *WorkItemHandler {
	return &WorkItemHandler{svc: svc}
}

type CreateWorkItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	ParentID    int64  `json:"parentId"`
}

type UpdateWorkItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	ParentID    *int64  `json:"parentId"`
}

type CreateWorkItemResponse struct {
	ID int64 `json:"id"`
}

func (h *WorkItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" {
		api.Error(w, http.StatusBadRequest, "title is required")
		return
	}
	itemType := domain.WorkItemType(req.Type)
	if !domain.IsValidWorkItemType(itemType) {
		api.Error(w, http.StatusBadRequest, "invalid work item type")
		return
	}

	id, err := h.svc.Create(r.Context(), service.CreateWorkItemInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        itemType,
		ParentID:    req.ParentID,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, CreateWorkItemResponse{ID: id})
}

func (h *WorkItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid work item id")
		return
	}

	var req UpdateWorkItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.UpdateWorkItemInput{
		Title:       req.Title,
		Description: req.Description,
		ParentID:    req.ParentID,
	}
	if req.Type != nil {
		itemType := domain.WorkItemType(*req.Type)
		if !domain.IsValidWorkItemType(itemType) {
			api.Error(w, http.StatusBadRequest, "invalid work item type")
			return
		}
		input.Type = &itemType
	}

	if err := h.svc.Update(r.Context(), id, input); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, CreateWorkItemResponse{ID: id})
}

func (h *WorkItemHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := service.WorkItemFilter{
		Type:          domain.WorkItemType(r.URL.Query().Get("type")),
		TitleContains: r.URL.Query().Get("title"),
	}
	if filter.Type != "" && !domain.IsValidWorkItemType(filter.Type) {
		api.Error(w, http.StatusBadRequest, "invalid work item type")
		return
	}

	roots := h.svc.GetWorkItems(r.Context(), filter)
	api.Success(w, http.StatusOK, roots)
}
