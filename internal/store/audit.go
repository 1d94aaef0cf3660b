package store

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SkipMarker exempts a file from auditing when it appears in a comment on
// the file's first line, regardless of stored hash state.
const SkipMarker = "AUDIT_SKIP"

// Audit table status labels.
const (
	statusAudited        = "✓ Audited"
	statusNotAudited     = "✗ Not Audited"
	statusModified       = "🔄 Modified"
	statusNotFound       = "❌ Not Found"
	statusNoHash         = "⚠️ Audited (no hash)"
	statusManualCleared  = "✓ Manually cleared"
	errDirectoryNotFound = "Directory not found: %s"
)

// FileStatusResult is the answer to a status query. It is a copy: hash
// drift detected at read time is reported here without mutating the stored
// record.
type FileStatusResult struct {
	Audited            bool   `json:"audited"`
	AuditedAt          string `json:"audited_at"`
	FileHash           string `json:"file_hash,omitempty"`
	ModifiedAfterAudit bool   `json:"modified_after_audit,omitempty"`
	CurrentHash        string `json:"current_hash,omitempty"`
}

// normalizePath maps any path onto the stored key: absolute, then relative
// to the project root with forward slashes. Paths outside the root keep
// their absolute form as the key. The same mapping runs on write and read;
// a mismatch between the two would make lookups silently miss.
func (s *Store) normalizePath(path string) (key string, abs string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, path
	}

	rel, err := filepath.Rel(s.projectRoot, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return abs, abs
	}
	return filepath.ToSlash(rel), abs
}

// hashFile computes the SHA-256 digest of a file's bytes in 4 KiB blocks.
// A missing or unreadable file yields the empty string.
func hashFile(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, 4096)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return ""
	}
	return hex.EncodeToString(h.Sum(nil))
}

// MarkAudited hashes the file and records it as audited now, overwriting
// any prior entry. Returns false (without error) when the file does not
// exist or cannot be hashed.
func (s *Store) MarkAudited(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}

	key, abs := s.normalizePath(path)

	fileHash := hashFile(abs)
	if fileHash == "" {
		s.logger.Debug("Cannot mark missing file audited", "path", abs)
		return false, nil
	}

	doc.FileStatus[key] = &AuditRecord{
		Audited:   true,
		AuditedAt: s.timestamp(),
		FileHash:  fileHash,
	}

	if err := s.save(doc); err != nil {
		return false, err
	}
	return true, nil
}

// ClearAudit removes the audit record for a path. Clearing a path that has
// no record still succeeds.
func (s *Store) ClearAudit(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}

	key, _ := s.normalizePath(path)
	delete(doc.FileStatus, key)

	if err := s.save(doc); err != nil {
		return false, err
	}
	return true, nil
}

// GetStatus looks up the audit record for a path and verifies it against
// the file's current hash. Absent records and records for files that no
// longer exist both come back as ok=false. A hash mismatch flips Audited to
// false in the result and sets ModifiedAfterAudit plus the fresh hash; the
// stored record itself is never changed by a status read.
func (s *Store) GetStatus(path string) (*FileStatusResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, false, err
	}

	key, abs := s.normalizePath(path)

	record, ok := doc.FileStatus[key]
	if !ok {
		return nil, false, nil
	}

	currentHash := hashFile(abs)
	if currentHash == "" {
		// Stale entry for a deleted file reads as absent, not as an error.
		return nil, false, nil
	}

	result := &FileStatusResult{
		Audited:   record.Audited,
		AuditedAt: record.AuditedAt,
		FileHash:  record.FileHash,
	}
	if record.FileHash != "" && currentHash != record.FileHash {
		result.Audited = false
		result.ModifiedAfterAudit = true
		result.CurrentHash = currentHash
	}
	return result, true, nil
}

// ListStatus renders a path-sorted markdown table of audit states.
//
// With a directory (relative to the project root) it walks the tree for Go
// source files; without one it reports every tracked key with the same
// suffix filter. Freshness is recomputed per file, and a first-line
// AUDIT_SKIP comment overrides whatever the hash says.
func (s *Store) ListStatus(directory string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return "", err
	}

	var files []string
	if directory != "" {
		searchPath := filepath.Join(s.projectRoot, directory)
		if _, err := os.Stat(searchPath); err != nil {
			return fmt.Sprintf(errDirectoryNotFound, directory), nil
		}

		err := filepath.WalkDir(searchPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // skip unreadable entries
			}
			if d.IsDir() || !isTrackedSource(path) {
				return nil
			}
			rel, relErr := filepath.Rel(s.projectRoot, path)
			if relErr != nil || strings.HasPrefix(rel, "..") {
				return nil
			}
			files = append(files, filepath.ToSlash(rel))
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to scan directory: %w", err)
		}
	} else {
		for key := range doc.FileStatus {
			if isTrackedSource(key) {
				files = append(files, key)
			}
		}
	}

	if len(files) == 0 {
		return "No source files found", nil
	}
	sort.Strings(files)

	var b strings.Builder
	b.WriteString("| File | Status |\n")
	b.WriteString("|------|--------|\n")

	for _, file := range files {
		// Keys for files outside the root are stored absolute already.
		abs := filepath.FromSlash(file)
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(s.projectRoot, abs)
		}
		status := auditStatusLabel(doc.FileStatus[file], abs)
		fmt.Fprintf(&b, "| %s | %s |\n", file, status)
	}
	return b.String(), nil
}

// auditStatusLabel classifies one file row for the status table.
func auditStatusLabel(record *AuditRecord, abs string) string {
	skip := hasSkipMarker(abs)

	if record == nil {
		if skip {
			return statusManualCleared
		}
		return statusNotAudited
	}

	currentHash := hashFile(abs)
	if currentHash == "" {
		return statusNotFound
	}

	var status string
	switch {
	case record.FileHash == "":
		// Entry predates hash tracking.
		status = statusNoHash
	case currentHash != record.FileHash:
		status = statusModified
	default:
		status = statusAudited
	}

	if skip {
		status = statusManualCleared
	}
	return status
}

// isTrackedSource reports whether a path is a source file the audit table
// covers: Go files excluding tests.
func isTrackedSource(path string) bool {
	return strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go")
}

// hasSkipMarker reports whether the file's first line is a comment carrying
// the skip token.
func hasSkipMarker(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return false
	}

	line := strings.TrimSpace(scanner.Text())
	isComment := strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#")
	return isComment && strings.Contains(line, SkipMarker)
}
