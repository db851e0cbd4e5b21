package patch

import (
	"sort"
	"strings"
)

// ActionType defines the type of patch action
type ActionType string

const (
	// ActionAdd represents adding a new file
	ActionAdd ActionType = "add"
	// ActionDelete represents deleting an existing file
	ActionDelete ActionType = "delete"
	// ActionUpdate represents updating an existing file
	ActionUpdate ActionType = "update"
)

// Letter returns the one-letter code used in summaries (A, D, M).
func (t ActionType) Letter() string {
	switch t {
	case ActionAdd:
		return "A"
	case ActionDelete:
		return "D"
	case ActionUpdate:
		return "M"
	default:
		return "?"
	}
}

// Chunk represents a single contiguous replacement in a file
type Chunk struct {
	OrigIndex int      // Line index in the original file
	DelLines  []string // Lines to be deleted
	InsLines  []string // Lines to be inserted
}

// PatchAction represents an action to be performed on a file
type PatchAction struct {
	Type     ActionType
	FilePath string
	NewFile  string  // Content for new files (only used for ActionAdd)
	Chunks   []Chunk // Chunks for updates, ascending and non-overlapping
	MovePath string  // Path to move the file to (optional)
}

// Patch is the parsed, unapplied set of per-path actions
type Patch struct {
	Actions map[string]PatchAction // Map of filepath to action
	Order   []string               // Paths in the order their headers appear
}

// Paths returns the patch paths in header order. A patch built without
// Order falls back to sorted paths.
func (p Patch) Paths() []string {
	return orderedKeys(p.Order, p.Actions)
}

// add records an action and its position in the patch.
func (p *Patch) add(action PatchAction) {
	p.Actions[action.FilePath] = action
	p.Order = append(p.Order, action.FilePath)
}

// FileChange represents the change to be made to a file
type FileChange struct {
	Type       ActionType
	OldContent string
	NewContent string
	MovePath   string
}

// Commit represents a set of materialized changes ready to be applied
type Commit struct {
	Changes map[string]FileChange // Map of filepath to change
	Order   []string               // Application order, taken from the patch
}

// Paths returns the commit paths in application order. A commit built
// without Order falls back to sorted paths.
func (c Commit) Paths() []string {
	return orderedKeys(c.Order, c.Changes)
}

// LineStats counts the lines touched by one file change
type LineStats struct {
	Original int
	New      int
	Added    int
	Deleted  int
}

// Stats returns per-path line statistics for the commit.
func (c Commit) Stats() map[string]LineStats {
	stats := make(map[string]LineStats, len(c.Changes))
	for path, change := range c.Changes {
		var s LineStats
		switch change.Type {
		case ActionAdd:
			s.New = countLines(change.NewContent)
			s.Added = s.New
		case ActionDelete:
			s.Original = countLines(change.OldContent)
			s.Deleted = s.Original
		case ActionUpdate:
			s.Original = countLines(change.OldContent)
			s.New = countLines(change.NewContent)
			s.Added, s.Deleted = lineDelta(change.OldContent, change.NewContent)
		}
		stats[path] = s
	}
	return stats
}

// GetLinesAddedDeleted sums the added and deleted lines over a commit
func GetLinesAddedDeleted(commit Commit) (int, int) {
	added := 0
	deleted := 0
	for _, s := range commit.Stats() {
		added += s.Added
		deleted += s.Deleted
	}
	return added, deleted
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	return len(strings.Split(text, "\n"))
}

// lineDelta counts lines present in only one side, treating both as multisets.
func lineDelta(oldText, newText string) (int, int) {
	counts := make(map[string]int)
	if oldText != "" {
		for _, l := range strings.Split(oldText, "\n") {
			counts[l]--
		}
	}
	if newText != "" {
		for _, l := range strings.Split(newText, "\n") {
			counts[l]++
		}
	}
	added, deleted := 0, 0
	for _, n := range counts {
		if n > 0 {
			added += n
		} else {
			deleted -= n
		}
	}
	return added, deleted
}

// orderedKeys returns order when it names exactly the keys of m, and the
// sorted keys otherwise.
func orderedKeys[V any](order []string, m map[string]V) []string {
	if len(order) == len(m) {
		complete := true
		for _, k := range order {
			if _, ok := m[k]; !ok {
				complete = false
				break
			}
		}
		if complete {
			return append([]string(nil), order...)
		}
	}
	return sortedKeys(m)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
