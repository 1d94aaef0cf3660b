package store

// CreateDoc stores documentation for a directory, overwriting any existing
// content for the same key.
func (s *Store) CreateDoc(directory, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	doc.Docs[directory] = content
	return s.save(doc)
}

// ReadDoc returns the documentation for a directory, or ok=false when none
// exists.
func (s *Store) ReadDoc(directory string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return "", false, err
	}

	content, ok := doc.Docs[directory]
	return content, ok, nil
}

// ReadAllDocs returns documentation for every directory.
func (s *Store) ReadAllDocs() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Docs, nil
}

// UpdateDoc replaces documentation for a directory that already has some.
// Returns false when the directory has no documentation yet; use CreateDoc
// for that.
func (s *Store) UpdateDoc(directory, content string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}

	if _, ok := doc.Docs[directory]; !ok {
		return false, nil
	}
	doc.Docs[directory] = content

	if err := s.save(doc); err != nil {
		return false, err
	}
	return true, nil
}
