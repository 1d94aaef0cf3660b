// Package gitlog reads recent commit history from the project repository.
//
// It backs the finish_todo tool: when the caller asks scrivener to collect
// the git log itself, the most recent commit subjects are recorded on the
// completed todo.
package gitlog

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/plumbing/storer"
)

// DefaultCount is how many commit subjects RecentSubjects collects when the
// caller does not say otherwise.
const DefaultCount = 5

// RecentSubjects returns up to count one-line summaries of the newest
// commits in the repository at repoPath, newest first, formatted as
// "<short-hash> <subject>". A directory that is not a git repository is an
// error; an empty repository returns an empty slice.
func RecentSubjects(repoPath string, count int) ([]string, error) {
	if count <= 0 {
		count = DefaultCount
	}

	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", repoPath, err)
	}

	head, err := repo.Head()
	if err != nil {
		// Repository without commits yet
		return nil, nil
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("failed to read git log: %w", err)
	}
	defer iter.Close()

	var subjects []string
	err = iter.ForEach(func(c *object.Commit) error {
		if len(subjects) >= count {
			return storer.ErrStop
		}
		subject := strings.SplitN(strings.TrimSpace(c.Message), "\n", 2)[0]
		subjects = append(subjects, fmt.Sprintf("%s %s", c.Hash.String()[:7], subject))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate git log: %w", err)
	}

	return subjects, nil
}

// Collect formats the recent history as a single newline-joined log string
// suitable for storing on a todo.
func Collect(repoPath string, count int) (string, error) {
	subjects, err := RecentSubjects(repoPath, count)
	if err != nil {
		return "", err
	}
	return strings.Join(subjects, "\n"), nil
}
