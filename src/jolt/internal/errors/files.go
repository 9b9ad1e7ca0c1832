package errors

import (
	"fmt"
)

// FileSystemInconsistencyError indicates that a file or directory is missing right after it should have been created.
type FileSystemInconsistencyError struct {
	Path  string
	IsDir bool
}

// Error is an implementation of the error interface.
func (f *FileSystemInconsistencyError) Error() string {
	if f.IsDir {
		return fmt.Sprintf("Can't find dir %s when applying code", f.Path)
	}
	return fmt.Sprintf("Can't find file %s when applying code", f.Path)
}

// PathOutsideWorkspaceError indicates that a path requested by the UI resolves outside the workspace root.
type PathOutsideWorkspaceError struct {
	Path string
	Root string
}

// Error is an implementation of the error interface.
func (p *PathOutsideWorkspaceError) Error() string {
	return fmt.Sprintf("Path %s is outside of project %s", p.Path, p.Root)
}
