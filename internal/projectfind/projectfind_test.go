package projectfind

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestFindLocatesProjectWithSequences(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "kit.rsx"), "[Samplecrate]\n")
	writeFile(t, filepath.Join(root, "sequences", "seq_3.mid"), "MThd")

	projects := Find(root)
	require.Len(t, projects, 1)
	assert.Equal(t, filepath.Join(root, "kit.rsx"), projects[0].RSXFile)
	assert.True(t, projects[0].HasSequence)
}

func TestFindDescendsIntoSubdirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "kits", "a", "a.rsx"), "")
	writeFile(t, filepath.Join(root, "kits", "b", "b.rsx"), "")

	projects := Find(root)
	require.Len(t, projects, 2)
	assert.Equal(t, filepath.Join(root, "kits", "a"), projects[0].Dir)
	assert.Equal(t, filepath.Join(root, "kits", "b"), projects[1].Dir)
}

func TestFindSkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "fake.rsx"), "")

	assert.Empty(t, Find(root))
}

func TestFindOnMissingRootReturnsEmpty(t *testing.T) {
	assert.Empty(t, Find(filepath.Join(t.TempDir(), "does-not-exist")))
}

func TestSequenceFilesListsSortedMidFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "kit.rsx"), "")
	writeFile(t, filepath.Join(root, "sequences", "seq_10.mid"), "")
	writeFile(t, filepath.Join(root, "sequences", "seq_2.mid"), "")

	projects := Find(root)
	require.Len(t, projects, 1)
	files := SequenceFiles(projects[0])
	assert.Equal(t, []string{"seq_10.mid", "seq_2.mid"}, files)
}

func TestSequenceFilesWithoutSequenceDirIsNil(t *testing.T) {
	assert.Nil(t, SequenceFiles(Project{Dir: t.TempDir(), HasSequence: false}))
}
