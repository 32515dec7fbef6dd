package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidWorkItemType(t *testing.T) {
	assert.True(t, IsValidWorkItemType(WorkItemTypeEpic))
	assert.True(t, IsValidWorkItemType(WorkItemTypeFeature))
	assert.True(t, IsValidWorkItemType(WorkItemTypeUserStory))
	assert.False(t, IsValidWorkItemType(WorkItemType("Task")))
	assert.False(t, IsValidWorkItemType(WorkItemType("")))
}

func TestEmbeddingText(t *testing.T) {
	assert.Equal(t, "Login\n\nUsers can sign in", EmbeddingText("Login", "Users can sign in"))
	assert.Equal(t, "Login", EmbeddingText("Login", ""))
	assert.Equal(t, "Users can sign in", EmbeddingText("", "Users can sign in"))
	assert.Equal(t, "", EmbeddingText("", ""))
}

func TestWorkItemUpdate_TouchesText(t *testing.T) {
	title := "New title"
	desc := "New description"
	itemType := WorkItemTypeFeature

	assert.True(t, WorkItemUpdate{Title: &title}.TouchesText())
	assert.True(t, WorkItemUpdate{Description: &desc}.TouchesText())
	assert.False(t, WorkItemUpdate{Type: &itemType}.TouchesText())
	assert.False(t, WorkItemUpdate{}.TouchesText())
}

func TestBuildTree_Nesting(t *testing.T) {
	items := []*WorkItem{
		{ID: 1, Title: "Epic", Type: WorkItemTypeEpic, ParentID: 0},
		{ID: 2, Title: "Feature", Type: WorkItemTypeFeature, ParentID: 1},
		{ID: 3, Title: "Story", Type: WorkItemTypeUserStory, ParentID: 2},
		{ID: 4, Title: "Second Epic", Type: WorkItemTypeEpic, ParentID: 0},
	}

	roots := BuildTree(items)
	require.Len(t, roots, 2)

	assert.Equal(t, int64(1), roots[0].ID)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, int64(2), roots[0].Children[0].ID)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, int64(3), roots[0].Children[0].Children[0].ID)

	assert.Equal(t, int64(4), roots[1].ID)
	assert.Empty(t, roots[1].Children)
}

func TestBuildTree_OrphanBecomesRoot(t *testing.T) {
	items := []*WorkItem{
		{ID: 1, Title: "Epic", Type: WorkItemTypeEpic, ParentID: 0},
		{ID: 2, Title: "Orphan", Type: WorkItemTypeUserStory, ParentID: 999},
	}

	roots := BuildTree(items)
	require.Len(t, roots, 2)
	assert.Equal(t, int64(1), roots[0].ID)
	assert.Equal(t, int64(2), roots[1].ID)
	assert.Empty(t, roots[1].Children)
}

func TestBuildTree_SelfParentBecomesRoot(t *testing.T) {
	items := []*WorkItem{
		{ID: 7, Title: "Loop", Type: WorkItemTypeEpic, ParentID: 7},
	}

	roots := BuildTree(items)
	require.Len(t, roots, 1)
	assert.Equal(t, int64(7), roots[0].ID)
}

func TestBuildTree_Deterministic(t *testing.T) {
	items := []*WorkItem{
		{ID: 1, ParentID: 0, Type: WorkItemTypeEpic},
		{ID: 2, ParentID: 1, Type: WorkItemTypeFeature},
		{ID: 3, ParentID: 1, Type: WorkItemTypeFeature},
	}

	first := BuildTree(items)
	second := BuildTree(items)
	require.Equal(t, first, second)
}

func TestBuildTree_Empty(t *testing.T) {
	roots := BuildTree(nil)
	assert.Empty(t, roots)
}
