package authctl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTokenGenerateValidate_Roundtrip(t *testing.T) {
	out, err := execute(t,
		"token", "generate",
		"--secret", "cli-test-secret",
		"--user-id", "user-42",
		"--email", "cli@example.com",
		"--first-name", "Cli",
		"--last-name", "User",
		"--country", "FI",
	)
	require.NoError(t, err)
	raw := strings.TrimSpace(out)
	require.NotEmpty(t, raw)

	_, err = execute(t, "token", "validate", "--secret", "cli-test-secret", raw)
	assert.NoError(t, err)
}

func TestTokenValidate_WrongSecret(t *testing.T) {
	out, err := execute(t,
		"token", "generate",
		"--secret", "secret-one",
		"--user-id", "user-42",
		"--email", "cli@example.com",
	)
	require.NoError(t, err)

	_, err = execute(t, "token", "validate", "--secret", "secret-two", strings.TrimSpace(out))
	assert.Error(t, err)
}

func TestTokenGenerate_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := execute(t,
		"token", "generate",
		"--user-id", "user-42",
		"--email", "cli@example.com",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
