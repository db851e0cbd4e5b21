package patch

import "strings"

type lineMode int

const (
	modeKeep lineMode = iota
	modeAdd
	modeDelete
)

// sectionTerminators end a hunk section without being consumed by it.
var sectionTerminators = []string{
	SectionHeaderMarker,
	PatchEndMarker,
	UpdateFilePrefix,
	DeleteFilePrefix,
	AddFilePrefix,
	EndOfFileMarker,
}

// peekNextSection consumes one run of context/delete/insert lines starting at
// initialIndex. It returns the literal old context, the section-relative
// chunks, the index after the section and whether the section was closed by
// an End of File marker.
func peekNextSection(lines []string, initialIndex int) ([]string, []Chunk, int, bool, error) {
	index := initialIndex
	var oldContext []string
	var delLines []string
	var insLines []string
	var chunks []Chunk
	mode := modeKeep

	flush := func() {
		if len(insLines) > 0 || len(delLines) > 0 {
			chunks = append(chunks, Chunk{
				OrigIndex: len(oldContext) - len(delLines),
				DelLines:  delLines,
				InsLines:  insLines,
			})
		}
		delLines = nil
		insLines = nil
	}

	for index < len(lines) {
		s := lines[index]

		if hasAnyPrefix(s, sectionTerminators) || s == "***" {
			break
		}
		if strings.HasPrefix(s, "***") {
			return nil, nil, 0, false, newDiffError(MalformedHunkLine, "Invalid Line: %s", s)
		}

		lastMode := mode
		line := s
		switch {
		case s == "":
			mode = modeKeep
		case s[0] == '+':
			mode = modeAdd
			line = s[1:]
		case s[0] == '-':
			mode = modeDelete
			line = s[1:]
		case s[0] == ' ':
			mode = modeKeep
			line = s[1:]
		default:
			return nil, nil, 0, false, newDiffError(MalformedHunkLine, "Invalid Line: %s", s)
		}
		index++

		if mode == modeKeep && lastMode != mode {
			flush()
		}

		switch mode {
		case modeDelete:
			delLines = append(delLines, line)
			oldContext = append(oldContext, line)
		case modeAdd:
			insLines = append(insLines, line)
		default:
			oldContext = append(oldContext, line)
		}
	}
	flush()

	if index < len(lines) && lines[index] == EndOfFileMarker {
		return oldContext, chunks, index + 1, true, nil
	}

	if index == initialIndex {
		line := ""
		if index < len(lines) {
			line = lines[index]
		}
		return nil, nil, 0, false, newDiffError(EmptySection, "Nothing in this section: %q", line)
	}

	return oldContext, chunks, index, false, nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
