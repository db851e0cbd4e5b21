package patch

import (
	"strings"
)

// UpdateFileWithChunks applies the chunks of an update action to the
// pre-image text and returns the new content
func UpdateFileWithChunks(text string, action PatchAction, path string) (string, error) {
	lines := strings.Split(text, "\n")
	destLines := make([]string, 0, len(lines))
	origIndex := 0

	for _, chunk := range action.Chunks {
		if chunk.OrigIndex > len(lines) {
			return "", newDiffError(InvalidChunk, "%s: chunk.OrigIndex %d > len(lines) %d",
				path, chunk.OrigIndex, len(lines))
		}
		if origIndex > chunk.OrigIndex {
			return "", newDiffError(InvalidChunk, "%s: origIndex %d > chunk.OrigIndex %d",
				path, origIndex, chunk.OrigIndex)
		}
		if chunk.OrigIndex+len(chunk.DelLines) > len(lines) {
			return "", newDiffError(InvalidChunk, "%s: chunk at %d deletes %d lines past end of file (%d lines)",
				path, chunk.OrigIndex, len(chunk.DelLines), len(lines))
		}

		// Copy unchanged lines up to the chunk
		destLines = append(destLines, lines[origIndex:chunk.OrigIndex]...)

		destLines = append(destLines, chunk.InsLines...)

		// Skip the deleted lines
		origIndex = chunk.OrigIndex + len(chunk.DelLines)
	}

	destLines = append(destLines, lines[origIndex:]...)

	return strings.Join(destLines, "\n"), nil
}

// PatchToCommit converts a Patch to a Commit
func PatchToCommit(patch Patch, orig map[string]string) (Commit, error) {
	commit := Commit{
		Changes: make(map[string]FileChange, len(patch.Actions)),
		Order:   patch.Paths(),
	}

	for _, path := range commit.Order {
		action := patch.Actions[path]
		switch action.Type {
		case ActionDelete:
			commit.Changes[path] = FileChange{
				Type:       ActionDelete,
				OldContent: orig[path],
			}
		case ActionAdd:
			commit.Changes[path] = FileChange{
				Type:       ActionAdd,
				NewContent: action.NewFile,
			}
		case ActionUpdate:
			newContent, err := UpdateFileWithChunks(orig[path], action, path)
			if err != nil {
				return Commit{}, err
			}
			commit.Changes[path] = FileChange{
				Type:       ActionUpdate,
				OldContent: orig[path],
				NewContent: newContent,
				MovePath:   action.MovePath,
			}
		default:
			return Commit{}, newDiffError(InvalidChunk, "%s: unknown action type %q", path, action.Type)
		}
	}

	return commit, nil
}
