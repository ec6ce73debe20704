package shellopt_test

import (
	"testing"

	"github.com/opal-lang/cmdstream/shellopt"
	"github.com/stretchr/testify/require"
)

func TestSetAndUnsetByName(t *testing.T) {
	defer shellopt.Reset()

	shellopt.Set(shellopt.Errexit)
	require.True(t, shellopt.IsErrexit())

	shellopt.Unset(shellopt.Errexit)
	require.False(t, shellopt.IsErrexit())
}

func TestSnapshotReflectsAllFiveFlags(t *testing.T) {
	defer shellopt.Reset()

	shellopt.SetVerbose(true)
	shellopt.SetPipefail(true)

	snap := shellopt.Snapshot()
	require.True(t, snap.Verbose)
	require.True(t, snap.Pipefail)
	require.False(t, snap.Errexit)
	require.False(t, snap.Xtrace)
	require.False(t, snap.Nounset)
}

func TestResetClearsEveryFlag(t *testing.T) {
	shellopt.SetErrexit(true)
	shellopt.SetXtrace(true)
	shellopt.SetNounset(true)

	shellopt.Reset()

	require.Equal(t, shellopt.Settings{}, shellopt.Snapshot())
}

func TestSetUnknownFlagNameIsNoop(t *testing.T) {
	defer shellopt.Reset()
	shellopt.Set("not-a-real-flag")
	require.Equal(t, shellopt.Settings{}, shellopt.Snapshot())
}
