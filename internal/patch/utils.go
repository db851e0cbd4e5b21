package patch

import (
	"strings"
)

// FormatSummary describes an applied commit, one "<letter> <path>" line per
// change. Moved files are listed under their destination.
func FormatSummary(commit Commit) string {
	var sb strings.Builder
	sb.WriteString("Done! Updated the following files:")

	for _, path := range commit.Paths() {
		change := commit.Changes[path]
		target := path
		if change.Type == ActionUpdate && change.MovePath != "" {
			target = change.MovePath
		}
		sb.WriteString("\n" + change.Type.Letter() + " " + target)
	}

	return sb.String()
}
