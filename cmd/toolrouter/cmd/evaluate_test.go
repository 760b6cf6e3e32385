package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestGroupQueryFile(t *testing.T) {
	assert.Equal(t, "G1_query.json", testGroupQueryFile("1"))
	assert.Equal(t, "G2_query.json", testGroupQueryFile("2"))
}

func TestLoadQueryCases_MissingFileDegradesGracefully(t *testing.T) {
	cmd := &cobra.Command{}
	out := new(bytes.Buffer)
	cmd.SetErr(out)

	cases, err := loadQueryCases(cmd, filepath.Join(t.TempDir(), "G9_query.json"))
	require.NoError(t, err, "a missing query-group file must not fail the command")
	assert.Empty(t, cases)
	assert.Contains(t, out.String(), "warning")
}

func TestLoadQueryCases_ParsesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "G1_query.json")
	data := []byte(`[{"query": "find a search api", "relevant APIs": ["Bing"]}]`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cmd := &cobra.Command{}
	cmd.SetErr(new(bytes.Buffer))

	cases, err := loadQueryCases(cmd, path)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "find a search api", cases[0].Query)
	assert.Equal(t, []string{"Bing"}, cases[0].RelevantServices)
}
