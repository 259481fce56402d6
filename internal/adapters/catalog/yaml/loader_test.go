package yaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleArchetype(t *testing.T) {
	t.Parallel()

	archetypes, err := Parse([]byte(`
id: security
name: Security Reviewer
description: Looks for attack surface
prompt: |
  You are a security reviewer. Identify threats and mitigations.
`))
	require.NoError(t, err)
	assert.Equal(t, []domain.Archetype{{
		ID:             "security",
		Name:           "Security Reviewer",
		Description:    "Looks for attack surface",
		PromptFragment: "You are a security reviewer. Identify threats and mitigations.",
	}}, archetypes)
}

func TestParseArchetypeList(t *testing.T) {
	t.Parallel()

	archetypes, err := Parse([]byte(`
archetypes:
  - id: critic
    prompt: Be harsher than usual.
  - id: lawyer
    name: Contract Lawyer
    prompt: Read everything as a contract.
`))
	require.NoError(t, err)
	require.Len(t, archetypes, 2)
	assert.Equal(t, "critic", archetypes[0].ID)
	assert.Equal(t, "critic", archetypes[0].Name)
	assert.Equal(t, "Contract Lawyer", archetypes[1].Name)
}

func TestParseRejectsInvalidPayloads(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		payload string
		wantErr string
	}{
		{name: "empty", payload: "  \n", wantErr: "archetype payload is empty"},
		{name: "missing id", payload: "prompt: hi\n", wantErr: "archetype id is required"},
		{name: "missing prompt", payload: "id: quiet\n", wantErr: `archetype "quiet": prompt is required`},
		{name: "unknown field", payload: "id: a\nprompt: b\ntemperature: 2\n", wantErr: "decode archetypes"},
		{name: "no entries", payload: "archetypes: []\n", wantErr: "no archetypes defined"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tc.payload))
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoadDirReadsYAMLFilesInOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte("id: second\nprompt: two\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("id: first\nprompt: one\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o700))

	archetypes, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, archetypes, 2)
	assert.Equal(t, "first", archetypes[0].ID)
	assert.Equal(t, "second", archetypes[1].ID)
}

func TestLoadDirMissingDirectory(t *testing.T) {
	t.Parallel()

	archetypes, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, archetypes)

	archetypes, err = LoadDir("")
	require.NoError(t, err)
	assert.Empty(t, archetypes)
}

func TestLoadDirReportsBrokenFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: [unterminated\n"), 0o600))

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.ErrorContains(t, err, path)
}
