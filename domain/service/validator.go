package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajkula/cppwatch/domain/model"
	"github.com/ajkula/cppwatch/domain/port/outbound"
)

// FileValidator checks that candidate paths are existing, non-empty
// source files with an accepted extension. It runs before every watcher
// start and before any add operation.
type FileValidator struct {
	extensions map[string]struct{}
	journal    outbound.Journal
	logger     outbound.Logger
}

func NewFileValidator(extensions []string, journal outbound.Journal, logger outbound.Logger) *FileValidator {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return &FileValidator{
		extensions: set,
		journal:    journal,
		logger:     logger,
	}
}

// Validate succeeds only if every path passes. On failure it returns a
// *model.ValidationError naming exactly the offending paths, and records
// the outcome in the journal either way.
func (v *FileValidator) Validate(paths []string) error {
	var issues []model.FileIssue
	for _, path := range paths {
		if issue := v.check(path); issue != nil {
			issues = append(issues, *issue)
		}
	}

	if len(issues) > 0 {
		err := &model.ValidationError{Issues: issues}
		v.journal.Recordf("validation failed: %s", err.Error())
		v.logger.Warn("file validation failed", "issues", len(issues))
		return err
	}

	v.journal.Recordf("validated %d file(s)", len(paths))
	return nil
}

// ValidateOne checks a single path, journaling the outcome.
func (v *FileValidator) ValidateOne(path string) error {
	return v.Validate([]string{path})
}

func (v *FileValidator) check(path string) *model.FileIssue {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := v.extensions[ext]; !ok {
		return &model.FileIssue{Path: path, Reason: fmt.Sprintf("unexpected extension %q", ext)}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.FileIssue{Path: path, Reason: "missing"}
		}
		return &model.FileIssue{Path: path, Reason: err.Error()}
	}
	if !info.Mode().IsRegular() {
		return &model.FileIssue{Path: path, Reason: "not a regular file"}
	}
	if info.Size() == 0 {
		return &model.FileIssue{Path: path, Reason: "empty"}
	}
	return nil
}
