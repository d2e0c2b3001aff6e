package activity

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Record is a snapshot of the most recent write across a source's watch roots.
type Record struct {
	Timestamp   time.Time
	SourcePath  string // file that carried the latest mtime
	ProjectPath string // latest file under the projects tree, "" if none
}

// Source polls an AI system's activity files for modification times.
// A source never fails a poll because one path is unreadable; candidates
// that cannot be statted are simply skipped.
type Source struct {
	HistoryFile string // single append-only file, e.g. ~/.claude/history.jsonl
	ProjectsDir string // directory tree scanned recursively for *.jsonl
}

// NewSource builds a source for a monitor base path laid out like
// ~/.claude: history.jsonl at the root plus a projects/ tree.
func NewSource(basePath string) Source {
	return Source{
		HistoryFile: filepath.Join(basePath, "history.jsonl"),
		ProjectsDir: filepath.Join(basePath, "projects"),
	}
}

// Poll returns the record with the maximum modification time across the
// history file and every *.jsonl under the projects tree, or nil if no
// candidate files exist.
func (s Source) Poll() *Record {
	var rec *Record

	if info, err := os.Stat(s.HistoryFile); err == nil && !info.IsDir() {
		rec = &Record{Timestamp: info.ModTime(), SourcePath: s.HistoryFile}
	}

	var latestProject time.Time
	var latestProjectPath string

	_ = filepath.WalkDir(s.ProjectsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, keep going
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".jsonl") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		mtime := info.ModTime()
		if rec == nil || mtime.After(rec.Timestamp) {
			rec = &Record{Timestamp: mtime, SourcePath: path}
		}
		if latestProjectPath == "" || mtime.After(latestProject) {
			latestProject = mtime
			latestProjectPath = path
		}
		return nil
	})

	if rec != nil {
		rec.ProjectPath = latestProjectPath
	}
	return rec
}

// WatchRoots returns the paths an fsnotify watcher should subscribe to.
func (s Source) WatchRoots() []string {
	return []string{s.HistoryFile, s.ProjectsDir}
}

// ProjectID extracts the encoded project directory name from a path under
// the projects tree, e.g. projects/-Users-dj-app/session.jsonl -> -Users-dj-app.
// Returns "" if the path is not under the tree.
func (s Source) ProjectID(projectFile string) string {
	rel, err := filepath.Rel(s.ProjectsDir, projectFile)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// DecodeProjectID decodes a project directory name back to a filesystem
// path. AI systems encode paths like -Users-dj-github-glmctl, where every
// separator was replaced by a dash and the leading dash marks an absolute
// path. Decoding is lossy for paths whose components contain dashes; the
// result is display-only. Inputs without the leading dash pass through
// unchanged.
func DecodeProjectID(projectID string) string {
	if !strings.HasPrefix(projectID, "-") {
		return projectID
	}
	return "/" + strings.ReplaceAll(projectID[1:], "-", "/")
}
