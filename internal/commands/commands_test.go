package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/momosplit/internal/commands"
	"github.com/fkhayef/momosplit/pkg/middleware"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// lines collapses tabwriter padding so output can be compared word by word
func lines(out string) []string {
	var result []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		result = append(result, strings.Join(strings.Fields(line), " "))
	}
	return result
}

func TestSplitEqual(t *testing.T) {
	out, _, err := run(t, "split", "equal", "100", "ama", "kofi", "esi")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"ama GHS 33.34",
		"kofi GHS 33.33",
		"esi GHS 33.33",
	}, lines(out))
}

func TestSplitEqual_Rejects(t *testing.T) {
	_, _, err := run(t, "split", "equal", "0", "ama", "kofi")
	assert.Error(t, err)

	_, _, err = run(t, "split", "equal", "10", "ama", "ama")
	assert.Error(t, err)

	_, _, err = run(t, "split", "equal", "ten", "ama")
	assert.Error(t, err)
}

func TestSplitPercentage(t *testing.T) {
	out, stderr, err := run(t, "split", "percentage", "200", "ama=50", "kofi=30", "esi=20")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"ama GHS 100.00 50%",
		"kofi GHS 60.00 30%",
		"esi GHS 40.00 20%",
	}, lines(out))
	assert.Empty(t, stderr)
}

func TestSplitPercentage_WarnsWhenShort(t *testing.T) {
	_, stderr, err := run(t, "split", "percentage", "200", "ama=50", "kofi=30")

	require.NoError(t, err)
	assert.Contains(t, stderr, "warning: shares add up to GHS 160.00")
}

func TestSplitPercentage_BadArgument(t *testing.T) {
	_, _, err := run(t, "split", "percentage", "200", "ama:50")
	assert.Error(t, err)

	_, _, err = run(t, "split", "percentage", "200", "ama=150")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	out, _, err := run(t, "format", "1234.5")
	require.NoError(t, err)
	assert.Equal(t, "GHS 1,234.50\n", out)

	out, _, err = run(t, "format", "1234.5", "--currency", "UGX")
	require.NoError(t, err)
	assert.NotContains(t, out, ".")

	_, _, err = run(t, "format", "1", "--currency", "NOPE")
	assert.Error(t, err)
}

func TestBalances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trip.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
users:
  - {key: ama, name: Ama, email: ama@example.com}
  - {key: kofi, name: Kofi, email: kofi@example.com}
  - {key: esi, name: Esi, email: esi@example.com}
groups:
  - name: Trip
    creator: ama
    members: [kofi, esi]
    expenses:
      - description: Guest house
        amount: 45000
        paid_by: ama
        split_type: EQUAL
`), 0o600))

	out, _, err := run(t, "balances", path)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"Trip (GHS)",
		"Ama is owed GHS 30,000.00",
		"Kofi owes GHS 15,000.00",
		"Esi owes GHS 15,000.00",
		"To settle up:",
		"Kofi pays Ama GHS 15,000.00",
		"Esi pays Ama GHS 15,000.00",
	}, lines(out))
}

func TestBalances_EveryoneSettled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "even.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
users:
  - {key: ama, name: Ama, email: ama@example.com}
  - {key: kofi, name: Kofi, email: kofi@example.com}
groups:
  - name: Flat
    creator: ama
    members: [kofi]
    expenses:
      - description: Groceries
        amount: 80
        paid_by: ama
        split_type: EQUAL
      - description: Internet
        amount: 80
        paid_by: kofi
        split_type: EQUAL
`), 0o600))

	out, _, err := run(t, "balances", path)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"Flat (GHS)",
		"Ama is settled up",
		"Kofi is settled up",
		"Everyone is settled up.",
	}, lines(out))
}

func TestBalances_RejectsInvalidExpense(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
users:
  - {key: ama, name: Ama, email: ama@example.com}
  - {key: kofi, name: Kofi, email: kofi@example.com}
groups:
  - name: Trip
    creator: ama
    members: [kofi]
    expenses:
      - description: Dinner
        amount: 100
        paid_by: ama
        split_type: EXACT
        participants:
          - {user: ama, amount: 40}
          - {user: kofi, amount: 50}
`), 0o600))

	_, _, err := run(t, "balances", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Dinner")
}

func TestBalances_MissingFile(t *testing.T) {
	_, _, err := run(t, "balances", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestToken_RoundTrips(t *testing.T) {
	out, _, err := run(t, "token", "7", "--secret", "test-secret", "--ttl", "5m")
	require.NoError(t, err)

	userID, err := middleware.ParseToken([]byte("test-secret"), strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
}

func TestToken_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, _, err := run(t, "token", "7")
	assert.ErrorContains(t, err, "no signing secret")

	_, _, err = run(t, "token", "zero", "--secret", "x")
	assert.ErrorContains(t, err, "invalid user id")
}
