package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"financial-assistant-be/internal/pkg/logger"
)

const moduleName = "WORKSPACE"

// Ops bundles the recursive directory helpers behind the shared logger so
// every best-effort deletion failure lands in the same log stream.
type Ops struct {
	log logger.ILogger
}

func NewOps(log logger.ILogger) *Ops {
	return &Ops{log: log}
}

// ListDirectory returns one level of directory contents partitioned into
// subdirectory names and file names. Entries come back sorted by name.
func ListDirectory(dir string) (subdirectories []string, files []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	subdirectories = make([]string, 0, len(entries))
	files = make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			subdirectories = append(subdirectories, entry.Name())
		} else {
			files = append(files, entry.Name())
		}
	}
	return subdirectories, files, nil
}

// ListFiles returns the names of the regular files directly under dir.
func ListFiles(dir string) ([]string, error) {
	_, files, err := ListDirectory(dir)
	return files, err
}

// PathIsContained reports whether candidate resolves to a path equal to or
// nested under ancestor. Browsing and destructive operations use it to stay
// inside the session cache root.
func PathIsContained(candidate, ancestor string) bool {
	absCandidate, err := filepath.Abs(candidate)
	if err != nil {
		return false
	}
	absAncestor, err := filepath.Abs(ancestor)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(absAncestor, absCandidate)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ClearDirectory deletes every regular file directly or transitively under
// dir. When removeSubdirs is true the emptied subdirectories are removed as
// well, otherwise they stay behind as empty shells. Each deletion failure is
// logged on its own so one stubborn entry cannot abort its siblings.
func (o *Ops) ClearDirectory(dir string, removeSubdirs bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			o.log.Warn(moduleName, "Directory does not exist", map[string]interface{}{"dir": dir})
		} else {
			o.log.Warn(moduleName, "Error processing directory", map[string]interface{}{"dir": dir, "error": err.Error()})
		}
		return
	}

	for _, entry := range entries {
		itemPath := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			o.ClearDirectory(itemPath, removeSubdirs)
			if removeSubdirs {
				if err := os.RemoveAll(itemPath); err != nil {
					o.log.Warn(moduleName, "Error deleting directory", map[string]interface{}{"path": itemPath, "error": err.Error()})
				}
			}
			continue
		}
		if err := os.Remove(itemPath); err != nil {
			o.log.Warn(moduleName, "Error deleting file", map[string]interface{}{"path": itemPath, "error": err.Error()})
		}
	}
}

// ClearCache empties the session cache root; deleteRoot removes the root
// itself afterwards. A missing root is a quiet no-op, so the operation is
// idempotent. Filesystem errors are logged and swallowed.
func (o *Ops) ClearCache(root string, deleteRoot, verbose bool) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		if verbose {
			o.log.Warn(moduleName, "Cache directory does not exist", map[string]interface{}{"dir": filepath.Base(root)})
		}
		return
	}

	o.ClearDirectory(root, deleteRoot)

	if !deleteRoot {
		return
	}
	if err := os.RemoveAll(root); err != nil {
		o.log.Warn(moduleName, "Error deleting cache directory", map[string]interface{}{"dir": filepath.Base(root), "error": err.Error()})
		return
	}
	if verbose {
		o.log.Info(moduleName, "Successfully deleted cache directory", map[string]interface{}{"dir": filepath.Base(root)})
	}
}

// DeleteAllSubdirectories removes every directory under root that is not on
// the exclusion list. An excluded path survives no matter how deep it sits:
// its ancestors are kept as shells while their other children are pruned.
func (o *Ops) DeleteAllSubdirectories(root string, exclude []string, verbose bool) {
	excluded := make(map[string]struct{}, len(exclude))
	for _, p := range exclude {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		excluded[abs] = struct{}{}
	}
	o.pruneSubdirs(root, excluded, verbose)
}

func (o *Ops) pruneSubdirs(dir string, excluded map[string]struct{}, verbose bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if verbose && !os.IsNotExist(err) {
			o.log.Warn(moduleName, "Error processing directory", map[string]interface{}{"dir": dir, "error": err.Error()})
		}
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dirPath := filepath.Join(dir, entry.Name())
		absPath, err := filepath.Abs(dirPath)
		if err != nil {
			continue
		}
		if _, ok := excluded[absPath]; ok {
			continue
		}
		if hasExcludedDescendant(absPath, excluded) {
			// Removing the tree wholesale would take the excluded path with it.
			o.pruneSubdirs(dirPath, excluded, verbose)
			continue
		}
		if err := os.RemoveAll(dirPath); err != nil {
			if verbose {
				o.log.Warn(moduleName, "Could not delete directory", map[string]interface{}{"dir": entry.Name(), "error": err.Error()})
			}
			continue
		}
		if verbose {
			o.log.Info(moduleName, "Successfully deleted directory", map[string]interface{}{"dir": entry.Name()})
		}
	}
}

func hasExcludedDescendant(dir string, excluded map[string]struct{}) bool {
	for p := range excluded {
		if p != dir && PathIsContained(p, dir) {
			return true
		}
	}
	return false
}

// CreateDirWithSubdirs creates dir plus each of the listed subdirectories.
func CreateDirWithSubdirs(dir string, subdirs []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, subdir := range subdirs {
		if err := os.MkdirAll(subdir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// DeleteTempDir removes the directory tree if it exists. Failures never
// surface to the caller; they are logged when verbose.
func (o *Ops) DeleteTempDir(dir string, verbose bool) {
	if _, err := os.Stat(dir); err != nil {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		if verbose {
			o.log.Warn(moduleName, "Could not delete temporary directory", map[string]interface{}{"dir": dir, "error": err.Error()})
		}
		return
	}
	if verbose {
		o.log.Info(moduleName, "Temporary directory deleted", map[string]interface{}{"dir": dir})
	}
}
