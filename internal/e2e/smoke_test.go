package e2e

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	_, stderr, err := runCouncil(t, binaryPath, home,
		"keys", "set",
		"--provider", "anthropic",
		"--value", "sk-ant-test",
	)
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err := runCouncil(t, binaryPath, home, "providers", "list", "--json")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, `"name": "anthropic"`)
	assert.Regexp(t, `"name": "anthropic",\s+"configured": true`, stdout)
}

func TestSmokeRunAgainstLocalOllama(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"message":{"role":"assistant","content":"forty-two"},"prompt_eval_count":3,"eval_count":2}`)
	}))
	t.Cleanup(ollama.Close)
	require.NoError(t, writeProvidersFixture(home, ollama.URL))

	stdout, stderr, err := runCouncil(t, binaryPath, home,
		"run",
		"--prompt", "What is the answer?",
		"--member", "ollama:llama3.2",
		"--json",
	)
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, `"type":"merge"`)
	assert.Contains(t, stdout, `"type":"complete"`)
	assert.Contains(t, stdout, "forty-two")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "council-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/council")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build council binary: %s", string(output))
	return binaryPath
}

func runCouncil(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"COUNCIL_CONFIG=",
		"COUNCIL_SECRETS_BACKEND=file",
		"ANTHROPIC_API_KEY=",
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func writeProvidersFixture(home string, ollamaURL string) error {
	configDir := filepath.Join(home, ".council")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}

	providers := fmt.Sprintf(`version = 1

[[providers]]
name = "ollama"
base_url = %q
`, ollamaURL)

	return os.WriteFile(filepath.Join(configDir, "providers.toml"), []byte(providers), 0o600)
}
