package store

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePlan_SequentialIDs(t *testing.T) {
	s := newTestStore(t)

	for i := 1; i <= 12; i++ {
		id, err := s.CreatePlan(fmt.Sprintf("plan body %d", i), "")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("plan_%03d", i), id)
	}

	plans, err := s.ReadAllPlans()
	require.NoError(t, err)
	require.Len(t, plans, 12)

	seen := map[string]bool{}
	for _, p := range plans {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestCreatePlan_DefaultTitle(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreatePlan("Ship v1", "Launch")
	require.NoError(t, err)
	assert.Equal(t, "plan_001", id)

	plan, ok, err := s.ReadPlan(id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Launch", plan.Title)
	assert.Equal(t, "Ship v1", plan.Content)
	assert.NotEmpty(t, plan.CreatedAt)
	assert.NotEmpty(t, plan.UpdatedAt)

	id2, err := s.CreatePlan("second", "")
	require.NoError(t, err)

	plan2, ok, err := s.ReadPlan(id2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Plan 2", plan2.Title)
}

func TestReadPlan_Absent(t *testing.T) {
	s := newTestStore(t)

	plan, ok, err := s.ReadPlan("plan_999")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, plan)
}

func TestUpdatePlan(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreatePlan("original", "Keep Me")
	require.NoError(t, err)

	// Empty title leaves the existing one alone
	ok, err := s.UpdatePlan(id, "revised", "")
	require.NoError(t, err)
	require.True(t, ok)

	plan, _, err := s.ReadPlan(id)
	require.NoError(t, err)
	assert.Equal(t, "revised", plan.Content)
	assert.Equal(t, "Keep Me", plan.Title)

	ok, err = s.UpdatePlan(id, "revised again", "New Title")
	require.NoError(t, err)
	require.True(t, ok)

	plan, _, err = s.ReadPlan(id)
	require.NoError(t, err)
	assert.Equal(t, "New Title", plan.Title)

	ok, err = s.UpdatePlan("plan_404", "whatever", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeletePlan(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreatePlan("to delete", "")
	require.NoError(t, err)

	ok, err := s.DeletePlan(id)
	require.NoError(t, err)
	assert.True(t, ok)

	_, found, err := s.ReadPlan(id)
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting again is a plain not-found, no error
	ok, err = s.DeletePlan(id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeletePlan_BlockedByTodos(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreatePlan("guarded", "")
	require.NoError(t, err)

	_, err = s.CreateTodo("first", id, PositionEnd)
	require.NoError(t, err)
	_, err = s.CreateTodo("second", id, PositionEnd)
	require.NoError(t, err)

	before, err := os.ReadFile(s.MetaPath())
	require.NoError(t, err)

	ok, err := s.DeletePlan(id)
	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPlanHasTodos))

	var todosErr *PlanTodosError
	require.True(t, errors.As(err, &todosErr))
	assert.Equal(t, 2, todosErr.TodoCount)
	assert.Equal(t, id, todosErr.PlanID)

	// Refused delete leaves the document byte-for-byte unchanged
	after, err := os.ReadFile(s.MetaPath())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCreatePlan_CountNotMax(t *testing.T) {
	// The id generator counts records, it does not track a high-water mark.
	// After delete-then-create the sequence can reissue an id; this pins the
	// documented behavior for delete-free sequences only.
	s := newTestStore(t)

	first, err := s.CreatePlan("a", "")
	require.NoError(t, err)
	_, err = s.CreatePlan("b", "")
	require.NoError(t, err)

	ok, err := s.DeletePlan(first)
	require.NoError(t, err)
	require.True(t, ok)

	reissued, err := s.CreatePlan("c", "")
	require.NoError(t, err)
	assert.Equal(t, "plan_002", reissued)
}
