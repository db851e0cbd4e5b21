package patch

import (
	"fmt"

	"github.com/epuerta/apply-patch-go/internal/logging"
	"github.com/google/uuid"
)

// OpenFunc reads the current content of a file.
type OpenFunc func(path string) (string, error)

// WriteFunc writes content to a file, creating it if needed.
type WriteFunc func(path, content string) error

// RemoveFunc deletes a file.
type RemoveFunc func(path string) error

// Result is what a processed patch produced
type Result struct {
	Message string
	Patch   Patch
	Commit  Commit
	Fuzz    int
}

// Processor parses patches against files read through Open and applies the
// resulting commit through Write and Remove. Nothing is written or removed
// unless the whole patch parses and its commit builds.
type Processor struct {
	Open   OpenFunc
	Write  WriteFunc
	Remove RemoveFunc

	// MaxFuzz rejects patches whose accumulated fuzz is above it. Zero means
	// no limit.
	MaxFuzz int

	Logger logging.Logger
}

// ProcessPatch parses, builds and applies a patch with the given collaborators.
func ProcessPatch(text string, openFn OpenFunc, writeFn WriteFunc, removeFn RemoveFunc) (*Result, error) {
	p := &Processor{Open: openFn, Write: writeFn, Remove: removeFn}
	return p.Process(text)
}

// Process runs Prepare and then applies the commit.
func (p *Processor) Process(text string) (*Result, error) {
	result, err := p.Prepare(text)
	if err != nil {
		return nil, err
	}

	if err := p.ApplyCommit(result.Commit); err != nil {
		return result, err
	}

	result.Message = FormatSummary(result.Commit)
	return result, nil
}

// Prepare validates and parses the patch and builds its commit without
// touching the filesystem.
func (p *Processor) Prepare(text string) (*Result, error) {
	log := p.logger()
	runID := uuid.New().String()[:8]

	lines, err := ValidateEnvelope(text)
	if err != nil {
		log.Log("[%s] invalid patch envelope: %v", runID, err)
		return nil, err
	}

	paths := IdentifyFilesNeeded(text)
	log.Log("[%s] patch has %d lines, loading %d files, creating %d", runID, len(lines), len(paths), len(IdentifyFilesAdded(text)))

	orig, err := LoadFiles(paths, p.Open)
	if err != nil {
		log.Log("[%s] %v", runID, err)
		return nil, err
	}

	parser := NewParser(orig, lines)
	parser.Index = 1
	if err := parser.Parse(); err != nil {
		log.Log("[%s] parse failed: %v", runID, err)
		return nil, err
	}

	if p.MaxFuzz > 0 && parser.Fuzz > p.MaxFuzz {
		log.Log("[%s] fuzz %d exceeds limit %d", runID, parser.Fuzz, p.MaxFuzz)
		return nil, newDiffError(FuzzLimitExceeded, "Patch fuzz %d exceeds the allowed maximum of %d", parser.Fuzz, p.MaxFuzz)
	}

	commit, err := PatchToCommit(parser.Patch, orig)
	if err != nil {
		log.Log("[%s] building commit failed: %v", runID, err)
		return nil, err
	}

	log.Log("[%s] parsed %d actions with fuzz %d", runID, len(parser.Patch.Actions), parser.Fuzz)
	return &Result{
		Patch:  parser.Patch,
		Commit: commit,
		Fuzz:   parser.Fuzz,
	}, nil
}

// ApplyCommit writes and removes files for every change, in the order the
// patch lists them.
// An update with a move writes the destination before removing the source.
func (p *Processor) ApplyCommit(commit Commit) error {
	log := p.logger()

	for _, path := range commit.Paths() {
		change := commit.Changes[path]
		switch change.Type {
		case ActionDelete:
			if err := p.Remove(path); err != nil {
				return fmt.Errorf("failed to delete %s: %w", path, err)
			}
			log.Log("deleted %s", path)
		case ActionAdd:
			if err := p.Write(path, change.NewContent); err != nil {
				return fmt.Errorf("failed to add %s: %w", path, err)
			}
			log.Log("added %s", path)
		case ActionUpdate:
			if change.MovePath == "" || change.MovePath == path {
				if err := p.Write(path, change.NewContent); err != nil {
					return fmt.Errorf("failed to update %s: %w", path, err)
				}
				log.Log("updated %s", path)
				continue
			}
			if err := p.Write(change.MovePath, change.NewContent); err != nil {
				return fmt.Errorf("failed to write %s: %w", change.MovePath, err)
			}
			if err := p.Remove(path); err != nil {
				return fmt.Errorf("wrote %s but failed to remove %s: %w", change.MovePath, path, err)
			}
			log.Log("updated %s and moved it to %s", path, change.MovePath)
		default:
			return fmt.Errorf("unknown change type %q for %s", change.Type, path)
		}
	}

	return nil
}

func (p *Processor) logger() logging.Logger {
	if p.Logger == nil {
		return logging.Discard
	}
	return p.Logger
}

// LoadFiles loads the content of multiple files through open
func LoadFiles(paths []string, open OpenFunc) (map[string]string, error) {
	orig := make(map[string]string, len(paths))

	for _, path := range paths {
		content, err := open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		orig[path] = content
	}

	return orig, nil
}
