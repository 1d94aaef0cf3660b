package store

import "fmt"

// CreateTodo adds a todo linked to an existing plan and returns its id.
// Position chooses head or tail insertion; anything other than "start"
// appends. The plan must resolve (modern plan_NNN ids and migrated
// legacy_<directory> ids both count) or ErrPlanNotFound is returned.
//
// Ids follow the same count-plus-one scheme as plans.
func (s *Store) CreateTodo(content, relatedPlan, position string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return "", err
	}

	planExists := false
	for _, p := range doc.Plans {
		if p.ID == relatedPlan {
			planExists = true
			break
		}
	}
	if !planExists {
		return "", fmt.Errorf("plan ID not found: %s: %w", relatedPlan, ErrPlanNotFound)
	}

	todoID := fmt.Sprintf("todo_%03d", len(doc.Todos)+1)
	todo := &Todo{
		ID:          todoID,
		Content:     content,
		RelatedPlan: relatedPlan,
		Status:      StatusPending,
		CreatedAt:   s.timestamp(),
	}

	if position == PositionStart {
		doc.Todos = append([]*Todo{todo}, doc.Todos...)
	} else {
		doc.Todos = append(doc.Todos, todo)
	}

	if err := s.save(doc); err != nil {
		return "", err
	}
	return todoID, nil
}

// ReadTodos returns todos with the given status in document order. An empty
// status defaults to pending.
func (s *Store) ReadTodos(status string) ([]*Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	if status == "" {
		status = StatusPending
	}

	var todos []*Todo
	for _, t := range doc.Todos {
		if t.Status == status {
			todos = append(todos, t)
		}
	}
	return todos, nil
}

// UpdateTodoStatus sets a todo's status. Completing a todo also stamps
// completed_at and records the git log when one is supplied; neither field
// is touched for any other transition. Returns false when the todo does not
// exist.
func (s *Store) UpdateTodoStatus(todoID, status, gitLog string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}

	for _, t := range doc.Todos {
		if t.ID != todoID {
			continue
		}
		t.Status = status
		if status == StatusCompleted {
			t.CompletedAt = s.timestamp()
			if gitLog != "" {
				t.GitLog = gitLog
			}
		}

		if err := s.save(doc); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// DeleteTodo removes a todo. Returns false when it does not exist.
func (s *Store) DeleteTodo(todoID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}

	for i, t := range doc.Todos {
		if t.ID == todoID {
			doc.Todos = append(doc.Todos[:i], doc.Todos[i+1:]...)
			if err := s.save(doc); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// MoveTodo pops a todo and reinserts it at the head or tail of the list,
// preserving the relative order of everything else. Returns false when the
// todo does not exist.
func (s *Store) MoveTodo(todoID, position string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}

	index := -1
	for i, t := range doc.Todos {
		if t.ID == todoID {
			index = i
			break
		}
	}
	if index < 0 {
		return false, nil
	}

	todo := doc.Todos[index]
	doc.Todos = append(doc.Todos[:index], doc.Todos[index+1:]...)

	if position == PositionStart {
		doc.Todos = append([]*Todo{todo}, doc.Todos...)
	} else {
		doc.Todos = append(doc.Todos, todo)
	}

	if err := s.save(doc); err != nil {
		return false, err
	}
	return true, nil
}
