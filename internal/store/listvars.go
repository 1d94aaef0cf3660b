package store

// CreateListVariable stores a named, ordered string collection, overwriting
// any variable with the same name.
func (s *Store) CreateListVariable(name string, items []string, needConfirmation bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	if items == nil {
		items = []string{}
	}
	now := s.timestamp()
	doc.ListVariables[name] = &ListVariable{
		Items:                items,
		NeedUserConfirmation: needConfirmation,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	return s.save(doc)
}

// ReadListVariable returns the named variable, or ok=false when absent.
func (s *Store) ReadListVariable(name string) (*ListVariable, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, false, err
	}

	v, ok := doc.ListVariables[name]
	return v, ok, nil
}

// ReadAllListVariables returns every list variable keyed by name.
func (s *Store) ReadAllListVariables() (map[string]*ListVariable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.ListVariables, nil
}

// UpdateListVariable replaces a variable's items and/or confirmation flag.
// Nil arguments leave the corresponding field as it was. Returns false when
// the variable does not exist.
func (s *Store) UpdateListVariable(name string, items []string, needConfirmation *bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}

	v, ok := doc.ListVariables[name]
	if !ok {
		return false, nil
	}

	if items != nil {
		v.Items = items
	}
	if needConfirmation != nil {
		v.NeedUserConfirmation = *needConfirmation
	}
	v.UpdatedAt = s.timestamp()

	if err := s.save(doc); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteListVariable removes a variable. Returns false when it does not
// exist.
func (s *Store) DeleteListVariable(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}

	if _, ok := doc.ListVariables[name]; !ok {
		return false, nil
	}
	delete(doc.ListVariables, name)

	if err := s.save(doc); err != nil {
		return false, err
	}
	return true, nil
}

// AppendToListVariable appends an item to an existing variable. Returns
// false, without creating anything, when the variable does not exist.
func (s *Store) AppendToListVariable(name, item string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}

	v, ok := doc.ListVariables[name]
	if !ok {
		return false, nil
	}

	v.Items = append(v.Items, item)
	v.UpdatedAt = s.timestamp()

	if err := s.save(doc); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveFromListVariable removes the first occurrence of an item from an
// existing variable. Returns false when the variable or the item is absent.
func (s *Store) RemoveFromListVariable(name, item string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}

	v, ok := doc.ListVariables[name]
	if !ok {
		return false, nil
	}

	for i, existing := range v.Items {
		if existing == item {
			v.Items = append(v.Items[:i], v.Items[i+1:]...)
			v.UpdatedAt = s.timestamp()

			if err := s.save(doc); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}
