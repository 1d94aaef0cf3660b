package store

import (
	"errors"
	"fmt"
)

// ErrPlanNotFound reports that a todo was created against a plan id that
// does not resolve.
var ErrPlanNotFound = errors.New("plan not found")

// ErrPlanHasTodos reports a refused plan deletion. Match with errors.Is;
// the concrete *PlanTodosError carries the blocking count.
var ErrPlanHasTodos = errors.New("plan has linked todos")

// PlanTodosError is returned when a plan cannot be deleted because todos
// still reference it.
type PlanTodosError struct {
	PlanID    string
	TodoCount int
}

func (e *PlanTodosError) Error() string {
	return fmt.Sprintf("cannot delete plan %s: %d todos are linked to it", e.PlanID, e.TodoCount)
}

func (e *PlanTodosError) Is(target error) bool {
	return target == ErrPlanHasTodos
}
