package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/bnema/llm-council/internal/ports"
)

var ErrUnavailable = errors.New("pass is not installed; set secrets.backend to file")

var errMultilineKey = errors.New("api key must be a single line")

const notInStoreMarker = "is not in the password store"

type passRunner func(ctx context.Context, stdin string, args ...string) (stdout string, stderr string, err error)

// Store keeps provider API keys in pass(1) under their secret refs
// (council/<provider>/api_key). The key is the first line of the entry;
// later lines are left to the user, for example a dashboard url.
type Store struct {
	run passRunner
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{run: runPass}
}

func (s *Store) Put(ctx context.Context, ref string, apiKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(apiKey, "\r\n") {
		return fmt.Errorf("store api key %q in pass: %w", ref, errMultilineKey)
	}

	if _, stderr, err := s.run(ctx, apiKey+"\n", "insert", "--multiline", "--force", ref); err != nil {
		return passError("store api key", ref, err, stderr)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, "", "show", ref)
	switch {
	case err != nil && strings.Contains(stderr, notInStoreMarker):
		return "", fmt.Errorf("read api key %q from pass: %w", ref, domain.ErrSecretNotFound)
	case err != nil:
		return "", passError("read api key", ref, err, stderr)
	}

	apiKey, _, _ := strings.Cut(stdout, "\n")
	return strings.TrimSuffix(apiKey, "\r"), nil
}

// Delete treats an entry that is already gone as removed.
func (s *Store) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := s.run(ctx, "", "rm", "--force", ref)
	if err != nil && !strings.Contains(stderr, notInStoreMarker) {
		return passError("remove api key", ref, err, stderr)
	}
	return nil
}

func runPass(ctx context.Context, stdin string, args ...string) (string, string, error) {
	bin, err := exec.LookPath("pass")
	if errors.Is(err, exec.ErrNotFound) {
		return "", "", ErrUnavailable
	}
	if err != nil {
		return "", "", fmt.Errorf("locate pass: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func passError(action string, ref string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("%s %q in pass: %w", action, ref, err)
	}
	return fmt.Errorf("%s %q in pass: %w (%s)", action, ref, err, stderr)
}
