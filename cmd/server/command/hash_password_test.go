package command

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/campus-inventory/internal/utils"
)

func runHash(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"hash-password"}, args...))
	t.Cleanup(func() { hashCost = bcrypt.DefaultCost })
	err := rootCmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestHashPasswordFromArg(t *testing.T) {
	hash, err := runHash(t, "", "--cost", "4", "s3cret")
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(hash, "s3cret"))
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 4, cost)
}

func TestHashPasswordFromStdin(t *testing.T) {
	hash, err := runHash(t, "from-stdin\n", "--cost", "4")
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(hash, "from-stdin"))
}

func TestHashPasswordRejectsBadInput(t *testing.T) {
	_, err := runHash(t, "", "--cost", "4")
	assert.Error(t, err)

	_, err = runHash(t, "", "--cost", "99", "pw")
	assert.Error(t, err)
}
