package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/epuerta/apply-patch-go/internal/config"
	"github.com/epuerta/apply-patch-go/internal/fileops"
	"github.com/epuerta/apply-patch-go/internal/logging"
	"github.com/epuerta/apply-patch-go/internal/patch"
	"github.com/epuerta/apply-patch-go/internal/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// approveFunc asks the user whether a prepared patch should be applied.
// patchOnStdin is true when stdin already held the patch text.
type approveFunc func(result *patch.Result, patchOnStdin bool) (bool, error)

// app holds what the commands share: the filesystem, standard streams, the
// loaded config and the logger.
type app struct {
	fs     afero.Fs
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg     *config.Config
	ws      *fileops.Workspace
	logger  logging.Logger
	approve approveFunc
}

func newApp(fs afero.Fs, stdin io.Reader, stdout, stderr io.Writer) *app {
	a := &app{
		fs:     fs,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: logging.Discard,
	}
	a.approve = a.approveInteractive
	return a
}

// setup loads the config, applies flag overrides and initializes the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("cwd") {
		cfg.CWD, _ = flags.GetString("cwd")
	}
	if flags.Changed("max-fuzz") {
		cfg.MaxFuzz, _ = flags.GetInt("max-fuzz")
		if cfg.MaxFuzz < 0 {
			return fmt.Errorf("--max-fuzz must not be negative, got %d", cfg.MaxFuzz)
		}
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("log-file") {
		cfg.LogFile, _ = flags.GetString("log-file")
	}
	if flags.Lookup("confirm") != nil && flags.Changed("confirm") {
		cfg.Confirm, _ = flags.GetBool("confirm")
	}
	a.cfg = cfg
	a.ws = fileops.NewWorkspace(a.fs, cfg.CWD)

	switch {
	case cfg.Debug:
		logPath := cfg.LogFile
		if logPath == "" {
			logPath = logging.DefaultLogPath(time.Now())
		}
		fileLogger, err := logging.NewFileLogger(logPath)
		if err != nil {
			return fmt.Errorf("error creating file logger: %w", err)
		}
		a.logger = fileLogger
		createLatestLogSymlink(a, logPath)
		a.logger.Log("--- apply-patch start --- Version: %s, Commit: %s, Built: %s", Version, GitCommit, BuildDate)
		a.logger.Log("Debug logging enabled. Log file: %s", logPath)
	case cfg.Verbose:
		a.logger = logging.NewWriterLogger(a.stderr)
	default:
		a.logger = logging.Discard
	}

	a.logger.Log("Config loaded from %s: MaxFuzz=%d, Confirm=%t", config.ConfigFile(), cfg.MaxFuzz, cfg.Confirm)
	a.logger.Log("Workspace root: %s", a.ws.Root())
	return nil
}

// droppingLogger is a logger that can lose messages, such as
// logging.FileLogger.
type droppingLogger interface {
	Dropped() int64
	Path() string
}

// teardown closes the logger and reports messages the file logger had to
// drop. It is safe to call more than once.
func (a *app) teardown() {
	if a.logger == nil {
		return
	}
	if err := a.logger.Close(); err != nil {
		fmt.Fprintf(a.stderr, "Error closing logger: %v\n", err)
	}
	if dl, ok := a.logger.(droppingLogger); ok && dl.Dropped() > 0 {
		fmt.Fprintf(a.stderr, "Warning: %d log messages were dropped from %s\n", dl.Dropped(), dl.Path())
	}
	a.logger = logging.Discard
}

// readPatch returns the patch text from the named file, or from stdin when
// no file or "-" is given.
func (a *app) readPatch(args []string) (string, bool, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", true, fmt.Errorf("failed to read patch from stdin: %w", err)
		}
		return string(data), true, nil
	}

	data, err := afero.ReadFile(a.fs, args[0])
	if err != nil {
		return "", false, fmt.Errorf("failed to read patch file: %w", err)
	}
	return string(data), false, nil
}

func (a *app) processor() *patch.Processor {
	return &patch.Processor{
		Open:    a.ws.ReadFile,
		Write:   a.ws.WriteFile,
		Remove:  a.ws.RemoveFile,
		MaxFuzz: a.cfg.MaxFuzz,
		Logger:  a.logger,
	}
}

func (a *app) runApply(cmd *cobra.Command, args []string) error {
	text, fromStdin, err := a.readPatch(args)
	if err != nil {
		return err
	}

	proc := a.processor()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if !dryRun && !a.cfg.Confirm {
		result, err := proc.Process(text)
		if err != nil {
			return err
		}
		a.printResult(result)
		return nil
	}

	result, err := proc.Prepare(text)
	if err != nil {
		return err
	}

	if dryRun {
		a.printPreview(result)
		return nil
	}

	approved, err := a.approve(result, fromStdin)
	if err != nil {
		return err
	}
	if !approved {
		a.logger.Log("patch rejected by user")
		fmt.Fprintln(a.stdout, "Patch not applied.")
		return nil
	}

	if err := proc.ApplyCommit(result.Commit); err != nil {
		return err
	}
	result.Message = patch.FormatSummary(result.Commit)
	a.printResult(result)
	return nil
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	text, _, err := a.readPatch(args)
	if err != nil {
		return err
	}

	result, err := a.processor().Prepare(text)
	if err != nil {
		return err
	}

	a.printPreview(result)
	return nil
}

func (a *app) runFiles(cmd *cobra.Command, args []string) error {
	text, _, err := a.readPatch(args)
	if err != nil {
		return err
	}

	if _, err := patch.ValidateEnvelope(text); err != nil {
		return err
	}

	for _, f := range listFiles(text) {
		line := string(f.op) + " " + f.path
		switch {
		case f.op == 'A' && a.ws.Exists(f.path):
			line += " (exists)"
		case f.op != 'A' && !a.ws.IsFile(f.path):
			line += " (missing)"
		}
		fmt.Fprintln(a.stdout, line)
	}
	return nil
}

// fileOp is one file operation header: U for updates, D for deletes and A
// for adds.
type fileOp struct {
	op   byte
	path string
}

// listFiles returns the file operation headers of a patch in order, without
// repeats.
func listFiles(text string) []fileOp {
	var out []fileOp
	seen := make(map[fileOp]bool)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		var f fileOp
		if path, ok := strings.CutPrefix(line, patch.UpdateFilePrefix); ok {
			f = fileOp{'U', path}
		} else if path, ok := strings.CutPrefix(line, patch.DeleteFilePrefix); ok {
			f = fileOp{'D', path}
		} else if path, ok := strings.CutPrefix(line, patch.AddFilePrefix); ok {
			f = fileOp{'A', path}
		} else {
			continue
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}

	return out
}

func (a *app) approveInteractive(result *patch.Result, patchOnStdin bool) (bool, error) {
	var input io.Reader
	if !patchOnStdin {
		input = a.stdin
	}
	return ui.GetApproval(ui.NewPatchApprovalModel(result), input, a.stderr)
}

func (a *app) printPreview(result *patch.Result) {
	fmt.Fprintln(a.stdout, ui.FormatPatchForDisplay(result.Patch, result.Commit))
	fmt.Fprintln(a.stdout, ui.FormatStats(result.Commit))
	fmt.Fprintf(a.stdout, "fuzz: %d\n", result.Fuzz)
}

func (a *app) printResult(result *patch.Result) {
	fmt.Fprintln(a.stdout, result.Message)
	fmt.Fprintf(a.stdout, "fuzz: %d\n", result.Fuzz)
}
