package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/epuerta/apply-patch-go/internal/patch"
)

// Styles for patch previews
var (
	diffHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("4"))

	diffHunkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6"))

	diffAddedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2"))

	diffRemovedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("1"))

	diffContextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("8"))
)

// FormatPatchForDisplay renders a parsed patch with +/- markers and colour,
// one block per file in patch order. Line numbers in hunk headers are 1-based
// positions in the original file.
func FormatPatchForDisplay(p patch.Patch, commit patch.Commit) string {
	var formatted strings.Builder
	stats := commit.Stats()

	for _, path := range p.Paths() {
		action := p.Actions[path]
		s := stats[path]

		switch action.Type {
		case patch.ActionAdd:
			formatted.WriteString(diffHeaderStyle.Render(fmt.Sprintf("A %s (+%d)", path, s.Added)) + "\n")
			for _, line := range strings.Split(action.NewFile, "\n") {
				formatted.WriteString(diffAddedStyle.Render("+ "+line) + "\n")
			}

		case patch.ActionDelete:
			formatted.WriteString(diffHeaderStyle.Render(fmt.Sprintf("D %s (-%d)", path, s.Deleted)) + "\n")

		case patch.ActionUpdate:
			header := fmt.Sprintf("M %s (+%d -%d)", path, s.Added, s.Deleted)
			if action.MovePath != "" && action.MovePath != path {
				header = fmt.Sprintf("M %s -> %s (+%d -%d)", path, action.MovePath, s.Added, s.Deleted)
			}
			formatted.WriteString(diffHeaderStyle.Render(header) + "\n")
			if len(action.Chunks) == 0 {
				formatted.WriteString(diffContextStyle.Render("  (no content changes)") + "\n")
			}
			for _, chunk := range action.Chunks {
				formatted.WriteString(diffHunkStyle.Render(fmt.Sprintf("@@ line %d", chunk.OrigIndex+1)) + "\n")
				for _, line := range chunk.DelLines {
					formatted.WriteString(diffRemovedStyle.Render("- "+line) + "\n")
				}
				for _, line := range chunk.InsLines {
					formatted.WriteString(diffAddedStyle.Render("+ "+line) + "\n")
				}
			}
		}
	}

	return formatted.String()
}

// FormatStats renders a one-line summary such as "3 files changed, 4 insertions(+), 1 deletion(-)".
func FormatStats(commit patch.Commit) string {
	added, deleted := patch.GetLinesAddedDeleted(commit)
	return fmt.Sprintf("%d %s changed, %d %s(+), %d %s(-)",
		len(commit.Changes), plural(len(commit.Changes), "file", "files"),
		added, plural(added, "insertion", "insertions"),
		deleted, plural(deleted, "deletion", "deletions"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
