package patch

import (
	"sort"
	"strings"
)

// Constants for patch parsing
const (
	PatchBeginMarker    = "*** Begin Patch"
	PatchEndMarker      = "*** End Patch"
	UpdateFilePrefix    = "*** Update File: "
	AddFilePrefix       = "*** Add File: "
	DeleteFilePrefix    = "*** Delete File: "
	MoveToPrefix        = "*** Move to: "
	EndOfFileMarker     = "*** End of File"
	SectionHeaderMarker = "@@"
)

var (
	fileOpPrefixes = []string{
		PatchEndMarker,
		UpdateFilePrefix,
		DeleteFilePrefix,
		AddFilePrefix,
	}
	updateTerminators = append(append([]string{}, fileOpPrefixes...), EndOfFileMarker)
)

// Parser is a struct that handles parsing patch text into a Patch.
// CurrentFiles holds the pre-image of every file the patch updates or deletes.
type Parser struct {
	CurrentFiles map[string]string
	Lines        []string
	Index        int
	Patch        Patch
	Fuzz         int
}

// NewParser creates a new parser instance
func NewParser(currentFiles map[string]string, lines []string) *Parser {
	return &Parser{
		CurrentFiles: currentFiles,
		Lines:        lines,
		Index:        0,
		Patch: Patch{
			Actions: make(map[string]PatchAction),
		},
		Fuzz: 0,
	}
}

// isDone checks if parsing is complete
func (p *Parser) isDone(prefixes []string) bool {
	if p.Index >= len(p.Lines) {
		return true
	}
	return hasAnyPrefix(p.Lines[p.Index], prefixes)
}

// startsWith checks if the current line starts with a prefix
func (p *Parser) startsWith(prefix string) bool {
	return p.Index < len(p.Lines) && strings.HasPrefix(p.Lines[p.Index], prefix)
}

// readString consumes the current line if it has the prefix and returns the rest
func (p *Parser) readString(prefix string) (string, bool) {
	if !p.startsWith(prefix) {
		return "", false
	}
	text := strings.TrimPrefix(p.Lines[p.Index], prefix)
	p.Index++
	return text, true
}

func (p *Parser) addFuzz(fuzz int) {
	if fuzz > 0 {
		p.Fuzz += fuzz
	}
}

// Parse parses the patch text into patch actions
func (p *Parser) Parse() error {
	for !p.isDone([]string{PatchEndMarker}) {
		if strings.TrimSpace(p.Lines[p.Index]) == "" {
			p.Index++
			continue
		}

		if path, ok := p.readString(UpdateFilePrefix); ok {
			if _, exists := p.Patch.Actions[path]; exists {
				return newDiffError(DuplicatePath, "Update File Error: Duplicate Path: %s", path)
			}

			moveTo, _ := p.readString(MoveToPrefix)

			text, exists := p.CurrentFiles[path]
			if !exists {
				return newDiffError(MissingFile, "Update File Error: Missing File: %s", path)
			}

			action, err := p.parseUpdateFile(text)
			if err != nil {
				return err
			}
			action.FilePath = path
			action.MovePath = moveTo

			p.Patch.add(action)
			continue
		}

		if path, ok := p.readString(DeleteFilePrefix); ok {
			if _, exists := p.Patch.Actions[path]; exists {
				return newDiffError(DuplicatePath, "Delete File Error: Duplicate Path: %s", path)
			}

			if _, exists := p.CurrentFiles[path]; !exists {
				return newDiffError(MissingFile, "Delete File Error: Missing File: %s", path)
			}

			p.Patch.add(PatchAction{
				Type:     ActionDelete,
				FilePath: path,
			})
			continue
		}

		if path, ok := p.readString(AddFilePrefix); ok {
			if _, exists := p.Patch.Actions[path]; exists {
				return newDiffError(DuplicatePath, "Add File Error: Duplicate Path: %s", path)
			}

			if _, exists := p.CurrentFiles[path]; exists {
				return newDiffError(DuplicatePath, "Add File Error: File already exists: %s", path)
			}

			action, err := p.parseAddFile()
			if err != nil {
				return err
			}
			action.FilePath = path

			p.Patch.add(action)
			continue
		}

		return newDiffError(UnknownLine, "Unknown Line: %s", p.Lines[p.Index])
	}

	if !p.startsWith(PatchEndMarker) {
		return newDiffError(MissingEndPatch, "Missing End Patch")
	}

	p.Index++
	return nil
}

// parseUpdateFile parses the hunks of one update section against the
// pre-image text. index is the cursor into the pre-image lines.
func (p *Parser) parseUpdateFile(text string) (PatchAction, error) {
	action := PatchAction{
		Type: ActionUpdate,
	}

	fileLines := strings.Split(text, "\n")
	index := 0
	sections := 0

	for !p.isDone(updateTerminators) {
		// Chained @@ anchors narrow down where the next hunk starts
		anchored := false
		for p.startsWith(SectionHeaderMarker) {
			header := strings.TrimPrefix(p.Lines[p.Index], SectionHeaderMarker)
			header = strings.TrimPrefix(header, " ")
			p.Index++
			anchored = true

			if strings.TrimSpace(header) == "" {
				continue
			}
			newIndex, fuzz := findAnchor(fileLines, header, index)
			if fuzz >= 0 {
				index = newIndex
				p.addFuzz(fuzz)
			}
		}

		if !anchored && sections > 0 {
			return action, newDiffError(UnknownLine, "Invalid line in update section:\n%s", p.Lines[p.Index])
		}

		oldContext, chunks, endIndex, eof, err := peekNextSection(p.Lines, p.Index)
		if err != nil {
			return action, err
		}

		newIndex, fuzz := findContext(fileLines, oldContext, index, eof)
		if newIndex == -1 {
			return action, contextNotFound(index, oldContext, eof)
		}
		p.addFuzz(fuzz)

		for i := range chunks {
			chunks[i].OrigIndex += newIndex
		}
		action.Chunks = append(action.Chunks, chunks...)

		index = newIndex + len(oldContext)
		p.Index = endIndex
		sections++
	}

	return action, nil
}

func contextNotFound(index int, context []string, eof bool) *DiffError {
	text := strings.Join(context, "\n")
	label := "Invalid Context"
	if eof {
		label = "Invalid EOF Context"
	}
	err := newDiffError(ContextNotFound, "%s %d:\n%s", label, index, text)
	err.Index = index
	err.Context = text
	err.EOF = eof
	return err
}

// parseAddFile parses an add file section
func (p *Parser) parseAddFile() (PatchAction, error) {
	var lines []string

	for !p.isDone(fileOpPrefixes) {
		line := p.Lines[p.Index]
		p.Index++

		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.HasPrefix(line, "+") {
			return PatchAction{}, newDiffError(InvalidAddLine, "Invalid Add File Line: %s", line)
		}

		lines = append(lines, line[1:])
	}

	return PatchAction{
		Type:    ActionAdd,
		NewFile: strings.Join(lines, "\n"),
	}, nil
}

// ValidateEnvelope checks the Begin/End markers and returns the patch lines.
func ValidateEnvelope(text string) ([]string, error) {
	lines := splitPatchLines(text)

	if len(lines) < 2 || !strings.HasPrefix(lines[0], PatchBeginMarker) {
		return nil, newDiffError(InvalidEnvelope, "Invalid patch text: must begin with '%s'", PatchBeginMarker)
	}
	if lines[len(lines)-1] != PatchEndMarker {
		return nil, newDiffError(MissingEndPatch, "Invalid patch text: must end with '%s'", PatchEndMarker)
	}

	return lines, nil
}

// TextToPatch converts patch text to a Patch object and its fuzz score
func TextToPatch(text string, orig map[string]string) (Patch, int, error) {
	lines, err := ValidateEnvelope(text)
	if err != nil {
		return Patch{}, 0, err
	}

	parser := NewParser(orig, lines)
	parser.Index = 1 // Skip the Begin Patch line

	if err := parser.Parse(); err != nil {
		return Patch{}, 0, err
	}

	return parser.Patch, parser.Fuzz, nil
}

// IdentifyFilesNeeded returns the files a patch updates or deletes, which must
// be loaded before parsing.
func IdentifyFilesNeeded(text string) []string {
	return collectPaths(text, UpdateFilePrefix, DeleteFilePrefix)
}

// IdentifyFilesAdded returns the files a patch creates.
func IdentifyFilesAdded(text string) []string {
	return collectPaths(text, AddFilePrefix)
}

func collectPaths(text string, prefixes ...string) []string {
	seen := make(map[string]bool)
	for _, line := range splitPatchLines(text) {
		for _, prefix := range prefixes {
			if strings.HasPrefix(line, prefix) {
				seen[strings.TrimPrefix(line, prefix)] = true
			}
		}
	}

	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// splitPatchLines trims the patch text and splits it into lines. CRLF line
// endings are treated as LF.
func splitPatchLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.TrimSpace(text), "\n")
}
