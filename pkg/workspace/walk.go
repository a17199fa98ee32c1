package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/src-d/enry/v2"
)

// Eligibility decides which files of a tree are annotated.
type Eligibility struct {
	extensions map[string]struct{}
	ignoreDirs map[string]struct{}

	// SkipVendored also excludes paths enry recognizes as vendored code.
	SkipVendored bool
}

// NewEligibility builds rules from an extension allow-list (".ts") and a list
// of directory names ignored anywhere in a path.
func NewEligibility(extensions, ignoreDirs []string) Eligibility {
	return Eligibility{
		extensions: toSet(extensions),
		ignoreDirs: toSet(ignoreDirs),
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}

	return set
}

// IgnoresDir reports whether a directory with the given base name is skipped.
func (e Eligibility) IgnoresDir(name string) bool {
	_, ok := e.ignoreDirs[name]

	return ok
}

// Eligible reports whether the slash-separated path, relative to the root,
// should be annotated.
func (e Eligibility) Eligible(name string) bool {
	if _, ok := e.extensions[path.Ext(name)]; !ok {
		return false
	}

	for part := range strings.SplitSeq(name, "/") {
		if e.IgnoresDir(part) {
			return false
		}
	}

	if e.SkipVendored && enry.IsVendor(name) {
		return false
	}

	return true
}

// Walker enumerates eligible files in lexical order.
type Walker struct {
	Eligibility Eligibility

	// OnError receives directories that could not be listed. The walk
	// continues past them. Nil drops the errors.
	OnError func(err *FileAccessError)
}

// Walk calls fn for every eligible regular file of fsys. Ignored directories
// are pruned without being listed. A failure to list the root itself is
// returned as ErrRootInaccessible; errors returned by fn stop the walk.
func (w Walker) Walk(ctx context.Context, fsys fs.FS, fn func(name string) error) error {
	walkErr := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, err error) error {
		ctxErr := ctx.Err()
		if ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if name == "." {
				return fmt.Errorf("%w: %w", ErrRootInaccessible, err)
			}

			w.report(&FileAccessError{Op: OpWalk, Path: name, Err: err})

			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if entry.IsDir() {
			if name != "." && w.Eligibility.IgnoresDir(entry.Name()) {
				return fs.SkipDir
			}

			return nil
		}

		if !entry.Type().IsRegular() || !w.Eligibility.Eligible(name) {
			return nil
		}

		return fn(name)
	})

	if errors.Is(walkErr, fs.SkipAll) {
		return nil
	}

	return walkErr
}

func (w Walker) report(err *FileAccessError) {
	if w.OnError != nil {
		w.OnError(err)
	}
}
