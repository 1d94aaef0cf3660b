package store

import "fmt"

// CreatePlan adds a plan and returns its id. An empty title defaults to
// "Plan N".
//
// Ids are generated as plan_NNN where NNN is the count of id-bearing records
// plus one. This mirrors the original scheme: deleting a plan and creating a
// new one can reissue an id. Sequences without deletes are strictly
// increasing.
func (s *Store) CreatePlan(content, title string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return "", err
	}

	count := 0
	for _, p := range doc.Plans {
		if p.ID != "" {
			count++
		}
	}
	planID := fmt.Sprintf("plan_%03d", count+1)

	if title == "" {
		title = fmt.Sprintf("Plan %d", count+1)
	}

	now := s.timestamp()
	doc.Plans = append(doc.Plans, &Plan{
		ID:        planID,
		Content:   content,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	})

	if err := s.save(doc); err != nil {
		return "", err
	}
	return planID, nil
}

// ReadPlan returns the plan with the given id, or ok=false when absent.
func (s *Store) ReadPlan(planID string) (*Plan, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, false, err
	}

	for _, p := range doc.Plans {
		if p.ID == planID {
			return p, true, nil
		}
	}
	return nil, false, nil
}

// ReadAllPlans returns every plan in document order.
func (s *Store) ReadAllPlans() ([]*Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Plans, nil
}

// UpdatePlan replaces a plan's content and, when title is non-empty, its
// title. Returns false when the plan does not exist.
func (s *Store) UpdatePlan(planID, content, title string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}

	for _, p := range doc.Plans {
		if p.ID != planID {
			continue
		}
		p.Content = content
		if title != "" {
			p.Title = title
		}
		p.UpdatedAt = s.timestamp()

		if err := s.save(doc); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// DeletePlan removes a plan. Returns false when the plan does not exist and
// a *PlanTodosError (matching ErrPlanHasTodos) when todos still reference
// it; in the refused case the document is left untouched.
func (s *Store) DeletePlan(planID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}

	for i, p := range doc.Plans {
		if p.ID != planID {
			continue
		}

		linked := 0
		for _, t := range doc.Todos {
			if t.RelatedPlan == planID {
				linked++
			}
		}
		if linked > 0 {
			return false, &PlanTodosError{PlanID: planID, TodoCount: linked}
		}

		doc.Plans = append(doc.Plans[:i], doc.Plans[i+1:]...)
		if err := s.save(doc); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}
