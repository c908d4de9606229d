package watcher

import (
	"path/filepath"
	"strings"
)

// dataExtensions are the file types that hold subject data.
var dataExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// SubjectID maps a subject data file path to its subject id.
// Files named <subjectId>.json, .yaml or .yml qualify; hidden files and editor backups do not.
func SubjectID(path string) (string, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return "", false
	}

	ext := strings.ToLower(filepath.Ext(base))
	if !dataExtensions[ext] {
		return "", false
	}

	id := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.TrimSpace(id) == "" || strings.ContainsRune(id, '|') {
		return "", false
	}
	return id, true
}
