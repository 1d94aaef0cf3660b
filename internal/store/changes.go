package store

// UpdateRecentChanges wholesale-replaces both change lists. The caller (an
// AI agent driven by the merge_recent_changes prompt) supplies the full
// merged state.
func (s *Store) UpdateRecentChanges(current, archived []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	if current == nil {
		current = []string{}
	}
	if archived == nil {
		archived = []string{}
	}
	doc.RecentChanges.Current = current
	doc.RecentChanges.Archived = archived

	return s.save(doc)
}

// GetRecentChanges returns the current and archived change lists.
func (s *Store) GetRecentChanges() (RecentChanges, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return RecentChanges{}, err
	}
	return doc.RecentChanges, nil
}
