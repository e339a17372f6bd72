package procs

import (
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnSleep(t *testing.T) *Handle {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX sleep")
	}
	h, err := Spawn(exec.Command("sleep", "30"), "sleep")
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Kill() })
	return h
}

func spawnTrue(t *testing.T) *Handle {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX true")
	}
	h, err := Spawn(exec.Command("true"), "true")
	require.NoError(t, err)
	select {
	case <-h.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("true did not exit")
	}
	return h
}

func TestSpawn_Failure(t *testing.T) {
	_, err := Spawn(exec.Command("launchdeck-no-such-binary"), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestHandle_Kill(t *testing.T) {
	h := spawnSleep(t)
	assert.False(t, h.Exited())
	assert.Positive(t, h.PID())

	require.NoError(t, h.Kill())
	select {
	case <-h.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("killed child was not reaped")
	}
	assert.True(t, h.Exited())
	assert.Error(t, h.ExitErr(), "killed child should report a non-zero exit")

	// Killing again is harmless.
	require.NoError(t, h.Kill())
}

func TestRegistry_TrackAndStop(t *testing.T) {
	r := NewRegistry(nil)
	h := spawnSleep(t)

	r.Track("p1", h)
	assert.True(t, r.IsRunning("p1"))
	assert.Equal(t, []string{"p1"}, r.Sweep())

	require.NoError(t, r.Stop("p1"))
	assert.False(t, r.IsRunning("p1"))
	assert.Empty(t, r.Sweep())
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_StopUnknownIsNoop(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Stop("nothing-here"))
}

func TestRegistry_SweepReapsExited(t *testing.T) {
	r := NewRegistry(nil)
	live := spawnSleep(t)
	dead := spawnTrue(t)

	r.Track("live", live)
	r.Track("dead", dead)
	assert.Equal(t, 2, r.Len())

	assert.Equal(t, []string{"live"}, r.Sweep())
	assert.Equal(t, 1, r.Len())
	_, ok := r.Get("dead")
	assert.False(t, ok)
}

func TestRegistry_IsRunningDiscardsStale(t *testing.T) {
	r := NewRegistry(nil)
	r.Track("p", spawnTrue(t))

	assert.False(t, r.IsRunning("p"))
	assert.Equal(t, 0, r.Len())
}
