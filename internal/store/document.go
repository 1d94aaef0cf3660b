package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Todo status values.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Insertion positions for todos.
const (
	PositionStart = "start"
	PositionEnd   = "end"
)

// Plan is a single plan record. Legacy records migrated from the old
// directory-keyed shape carry a Directory and an id of the form
// "legacy_<directory>".
type Plan struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Title     string `json:"title,omitempty"`
	Directory string `json:"directory,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Todo is a single todo record, always linked to a plan.
type Todo struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	RelatedPlan string `json:"related_plan"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
	GitLog      string `json:"git_log,omitempty"`
}

// RecentChanges holds the current and archived change lists. Both are
// wholesale-replaced on update; the merge intelligence lives with the caller.
type RecentChanges struct {
	Current  []string `json:"current"`
	Archived []string `json:"archived"`
}

// AuditRecord is the stored audit state for one normalized file path.
type AuditRecord struct {
	Audited   bool   `json:"audited"`
	AuditedAt string `json:"audited_at"`
	FileHash  string `json:"file_hash,omitempty"`
}

// ListVariable is a named, ordered string collection.
type ListVariable struct {
	Items                []string `json:"items"`
	NeedUserConfirmation bool     `json:"need_user_confirmation,omitempty"`
	CreatedAt            string   `json:"created_at"`
	UpdatedAt            string   `json:"updated_at"`
}

// PlanList is the plans collection. On disk it is either the canonical JSON
// array or the legacy object shape (directory -> content); the legacy shape
// is resolved into the array at decode time and never re-emitted.
type PlanList []*Plan

// UnmarshalJSON accepts both the canonical array shape and the legacy
// directory-keyed object shape. Legacy entries become synthetic records with
// ids of the form "legacy_<directory>".
func (pl *PlanList) UnmarshalJSON(data []byte) error {
	var plans []*Plan
	if err := json.Unmarshal(data, &plans); err == nil {
		*pl = plans
		return nil
	}

	var legacy map[string]string
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("plans is neither a list nor a legacy mapping: %w", err)
	}

	directories := make([]string, 0, len(legacy))
	for directory := range legacy {
		directories = append(directories, directory)
	}
	sort.Strings(directories)

	now := time.Now().Format(time.RFC3339)
	converted := make([]*Plan, 0, len(legacy))
	for _, directory := range directories {
		converted = append(converted, &Plan{
			ID:        "legacy_" + directory,
			Content:   legacy[directory],
			Title:     "Legacy: " + directory,
			Directory: directory,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	*pl = converted
	return nil
}

// Document is the whole metadata aggregate persisted as one JSON file.
type Document struct {
	Plans         PlanList                 `json:"plans"`
	Docs          map[string]string        `json:"docs"`
	Todos         []*Todo                  `json:"todos"`
	RecentChanges RecentChanges            `json:"recent_changes"`
	FileStatus    map[string]*AuditRecord  `json:"file_status"`
	ListVariables map[string]*ListVariable `json:"list_variables"`
}

// NewDocument returns the default empty schema with all collections present.
func NewDocument() *Document {
	return &Document{
		Plans: PlanList{},
		Docs:  map[string]string{},
		Todos: []*Todo{},
		RecentChanges: RecentChanges{
			Current:  []string{},
			Archived: []string{},
		},
		FileStatus:    map[string]*AuditRecord{},
		ListVariables: map[string]*ListVariable{},
	}
}

// normalize fills collections that decoded to nil so ledger code never has
// to nil-check maps and slices.
func (d *Document) normalize() {
	if d.Plans == nil {
		d.Plans = PlanList{}
	}
	if d.Docs == nil {
		d.Docs = map[string]string{}
	}
	if d.Todos == nil {
		d.Todos = []*Todo{}
	}
	if d.RecentChanges.Current == nil {
		d.RecentChanges.Current = []string{}
	}
	if d.RecentChanges.Archived == nil {
		d.RecentChanges.Archived = []string{}
	}
	if d.FileStatus == nil {
		d.FileStatus = map[string]*AuditRecord{}
	}
	if d.ListVariables == nil {
		d.ListVariables = map[string]*ListVariable{}
	}
}
