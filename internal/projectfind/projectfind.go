// Package projectfind locates samplecrate RSX project directories on disk
// for the dev CLI: a project root is any directory containing a *.rsx file;
// whether it also has the `sequences/` directory internal/transfer reads
// and writes is recorded in Project.HasSequence. This
// is dev-tooling support, not the out-of-scope end-user file dialog/GUI
// directory browser. Grounded on the teacher repository's
// internal/storage.LoadFiles directory-listing shape (os.ReadDir, split
// directories from files, skip hidden entries), generalized here from
// "list one directory's audio files for a file browser" to "walk a tree
// looking for project roots".
package projectfind

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Project describes one discovered RSX project directory.
type Project struct {
	Dir         string // directory containing the .rsx file
	RSXFile     string // path to the .rsx file itself
	HasSequence bool   // whether Dir/sequences exists
}

// Find walks root looking for directories containing a *.rsx file,
// returning one Project per match sorted by directory path. A missing or
// unreadable root yields an empty, non-error result: this is a best-effort
// scan for a dev tool, not a path a real upload/download session depends
// on.
func Find(root string) []Project {
	var projects []Project

	entries, err := os.ReadDir(root)
	if err != nil {
		return projects
	}

	rsxFile, ok := findRSXFile(root, entries)
	if ok {
		projects = append(projects, Project{
			Dir:         root,
			RSXFile:     rsxFile,
			HasSequence: hasSequencesDir(root),
		})
	}

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if entry.Name() == "sequences" {
			continue // never descend into a project's own sequence store
		}
		projects = append(projects, Find(filepath.Join(root, entry.Name()))...)
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].Dir < projects[j].Dir })
	return projects
}

func findRSXFile(dir string, entries []os.DirEntry) (string, bool) {
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".rsx") {
			return filepath.Join(dir, entry.Name()), true
		}
	}
	return "", false
}

func hasSequencesDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, "sequences"))
	return err == nil && info.IsDir()
}

// SequenceFiles lists the seq_<slot>.mid files present under
// project.Dir/sequences, sorted by file name (lexically, so seq_10.mid
// sorts before seq_2.mid).
func SequenceFiles(project Project) []string {
	if !project.HasSequence {
		return nil
	}
	entries, err := os.ReadDir(filepath.Join(project.Dir, "sequences"))
	if err != nil {
		return nil
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), "seq_") && strings.HasSuffix(entry.Name(), ".mid") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files
}
