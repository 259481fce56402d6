package secrets

import (
	"fmt"
	"strings"

	"github.com/bnema/llm-council/internal/adapters/secrets/chain"
	"github.com/bnema/llm-council/internal/adapters/secrets/file"
	"github.com/bnema/llm-council/internal/adapters/secrets/pass"
	"github.com/bnema/llm-council/internal/ports"
)

const (
	BackendChain = "chain"
	BackendFile  = "file"
	BackendPass  = "pass"
)

func Backends() []string {
	return []string{BackendChain, BackendFile, BackendPass}
}

// Open builds the secret store named by backend. The chain backend prefers
// pass and falls back to files under dir.
func Open(backend string, dir string) (ports.SecretStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendChain:
		return chain.NewStore(pass.NewStore(), file.NewStore(dir))
	case BackendFile:
		return file.NewStore(dir), nil
	case BackendPass:
		return pass.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown secrets backend %q", backend)
	}
}
