package domain

import (
	"strings"
	"time"
)

// WorkItemType represents the hierarchy level of a backlog item.
// The hierarchy is advisory: parent links are plain integers, not
// foreign keys, and are resolved at read time.
type WorkItemType string

const (
	WorkItemTypeEpic      WorkItemType = "Epic"
	WorkItemTypeFeature   WorkItemType = "Feature"
	WorkItemTypeUserStory WorkItemType = "User Story"
)

// IsValidWorkItemType reports whether t is a known work item type.
func IsValidWorkItemType(t WorkItemType) bool {
	switch t {
	case WorkItemTypeEpic, WorkItemTypeFeature, WorkItemTypeUserStory:
		return true
	}
	return false
}

// WorkItem represents a backlog item in the system. The embedding is
// derived from title and description and must be regenerated whenever
// either changes; it is never stored apart from its owning row.
type WorkItem struct {
	ID          int64
	Title       string
	Description string
	Type        WorkItemType
	ParentID    int64
	Embedding   []float32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WorkItemUpdate carries a partial update. Nil fields are left
// untouched. Embedding must be set by the caller when Title or
// Description is present.
type WorkItemUpdate struct {
	Title       *string
	Description *string
	Type        *WorkItemType
	ParentID    *int64
	Embedding   []float32
}

// TouchesText reports whether the update changes the text the
// embedding is derived from.
func (u WorkItemUpdate) TouchesText() bool {
	return u.Title != nil || u.Description != nil
}

// WorkItemNode is a work item with its resolved children, as consumed
// by the backlog tree view. Embeddings are not carried on nodes.
type WorkItemNode struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        WorkItemType    `json:"type"`
	Children    []*WorkItemNode `json:"children"`
}

// EmbeddingText builds the canonical text a work item embedding is
// computed from.
func EmbeddingText(title, description string) string {
	var parts []string
	if title != "" {
		parts = append(parts, title)
	}
	if description != "" {
		parts = append(parts, description)
	}
	return strings.Join(parts, "\n\n")
}

// BuildTree reassembles flat rows into the parent/children hierarchy.
// Items with ParentID 0 are roots. An item whose parent does not
// resolve is kept as a root rather than dropped.
func BuildTree(items []*WorkItem) []*WorkItemNode {
	index := make(map[int64]*WorkItemNode, len(items))
	for _, item := range items {
		index[item.ID] = &WorkItemNode{
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
			Type:        item.Type,
			Children:    []*WorkItemNode{},
		}
	}

	roots := make([]*WorkItemNode, 0, len(items))
	for _, item := range items {
		node := index[item.ID]
		if item.ParentID == 0 {
			roots = append(roots, node)
			continue
		}
		parent, ok := index[item.ParentID]
		if !ok || item.ParentID == item.ID {
			// Orphans surface at the top level.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}
