package store

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTodo_RequiresExistingPlan(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateTodo("orphan", "plan_001", PositionEnd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPlanNotFound))

	todos, err := s.ReadTodos("")
	require.NoError(t, err)
	assert.Empty(t, todos, "failed create must not persist anything")
}

func TestCreateTodo_Positions(t *testing.T) {
	s := newTestStore(t)

	planID, err := s.CreatePlan("Ship v1", "Launch")
	require.NoError(t, err)
	require.Equal(t, "plan_001", planID)

	first, err := s.CreateTodo("write changelog", planID, PositionEnd)
	require.NoError(t, err)
	assert.Equal(t, "todo_001", first)

	second, err := s.CreateTodo("cut release branch", planID, PositionStart)
	require.NoError(t, err)
	assert.Equal(t, "todo_002", second)

	pending, err := s.ReadTodos("pending")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, second, pending[0].ID, "start-positioned todo comes first")
	assert.Equal(t, first, pending[1].ID)
}

func TestCreateTodo_AgainstLegacyPlan(t *testing.T) {
	s := newTestStore(t)

	legacy := `{
		"plans": {"src/api": "migrate"},
		"docs": {},
		"todos": [],
		"recent_changes": {"current": [], "archived": []},
		"file_status": {},
		"list_variables": {}
	}`
	require.NoError(t, os.WriteFile(s.MetaPath(), []byte(legacy), 0644))

	id, err := s.CreateTodo("port the handlers", "legacy_src/api", PositionEnd)
	require.NoError(t, err)
	assert.Equal(t, "todo_001", id)
}

func TestReadTodos_StatusFilter(t *testing.T) {
	s := newTestStore(t)

	planID, err := s.CreatePlan("p", "")
	require.NoError(t, err)

	a, err := s.CreateTodo("a", planID, PositionEnd)
	require.NoError(t, err)
	b, err := s.CreateTodo("b", planID, PositionEnd)
	require.NoError(t, err)

	ok, err := s.UpdateTodoStatus(a, StatusCompleted, "")
	require.NoError(t, err)
	require.True(t, ok)

	// Empty status defaults to pending
	pending, err := s.ReadTodos("")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b, pending[0].ID)

	completed, err := s.ReadTodos(StatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, a, completed[0].ID)
}

func TestUpdateTodoStatus_Completion(t *testing.T) {
	s := newTestStore(t)

	planID, err := s.CreatePlan("p", "")
	require.NoError(t, err)
	id, err := s.CreateTodo("finish me", planID, PositionEnd)
	require.NoError(t, err)

	ok, err := s.UpdateTodoStatus(id, StatusCompleted, "abc123 fix the codec")
	require.NoError(t, err)
	require.True(t, ok)

	completed, err := s.ReadTodos(StatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.NotEmpty(t, completed[0].CompletedAt)
	assert.Equal(t, "abc123 fix the codec", completed[0].GitLog)

	// Flipping back to pending does not stamp anything new
	ok, err = s.UpdateTodoStatus(id, StatusPending, "ignored")
	require.NoError(t, err)
	require.True(t, ok)

	pending, err := s.ReadTodos(StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "abc123 fix the codec", pending[0].GitLog, "git log survives the transition back")

	ok, err = s.UpdateTodoStatus("todo_404", StatusCompleted, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteTodo(t *testing.T) {
	s := newTestStore(t)

	planID, err := s.CreatePlan("p", "")
	require.NoError(t, err)
	id, err := s.CreateTodo("x", planID, PositionEnd)
	require.NoError(t, err)

	ok, err := s.DeleteTodo(id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DeleteTodo(id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMoveTodo(t *testing.T) {
	s := newTestStore(t)

	planID, err := s.CreatePlan("p", "")
	require.NoError(t, err)

	var ids []string
	for _, content := range []string{"a", "b", "c", "d"} {
		id, err := s.CreateTodo(content, planID, PositionEnd)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	// Move c to the front
	ok, err := s.MoveTodo(ids[2], PositionStart)
	require.NoError(t, err)
	require.True(t, ok)

	pending, err := s.ReadTodos("")
	require.NoError(t, err)
	gotOrder := []string{}
	for _, td := range pending {
		gotOrder = append(gotOrder, td.ID)
	}
	assert.Equal(t, []string{ids[2], ids[0], ids[1], ids[3]}, gotOrder)

	// Move a to the back; relative order of the rest is untouched
	ok, err = s.MoveTodo(ids[0], PositionEnd)
	require.NoError(t, err)
	require.True(t, ok)

	pending, err = s.ReadTodos("")
	require.NoError(t, err)
	gotOrder = gotOrder[:0]
	for _, td := range pending {
		gotOrder = append(gotOrder, td.ID)
	}
	assert.Equal(t, []string{ids[2], ids[1], ids[3], ids[0]}, gotOrder)

	ok, err = s.MoveTodo("todo_404", PositionStart)
	require.NoError(t, err)
	assert.False(t, ok)
}
