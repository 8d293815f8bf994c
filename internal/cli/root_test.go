package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeRoot runs the full command tree with args and returns stdout.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// writeConfig writes a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doublesearch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"compile", "search", "test", "vocab", "history"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"verbose", "format", "config", "vocab"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing flag --%s", name)
	}
	assert.Equal(t, "text", cmd.PersistentFlags().Lookup("format").DefValue)
	assert.Equal(t, "doublesearch.yaml", cmd.PersistentFlags().Lookup("config").DefValue)
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, err := executeRoot(t, "compile", "--text", "people over 60", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestRootCommand_VocabFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	vocabPath := filepath.Join(dir, "vocab.cue")
	require.NoError(t, os.WriteFile(vocabPath, []byte(`stoplist: ["hobby"]`), 0644))

	opts := &RootOptions{Config: filepath.Join(dir, "missing.yaml"), Vocab: vocabPath}
	cfg, err := opts.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, vocabPath, cfg.Vocabulary)
}

func TestLoadVocabulary_EmptyPathIsBuiltIn(t *testing.T) {
	v, err := loadVocabulary("")
	require.NoError(t, err)
	assert.Equal(t, "p_age_2023", v.AgeField())
}

func TestLoadVocabulary_JoinsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.cue")
	require.NoError(t, os.WriteFile(path, []byte(`priority: ["Car", "Car"]`), 0644))

	_, err := loadVocabulary(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E105")
}
