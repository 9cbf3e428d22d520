package generation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionTransitions(t *testing.T) {
	s := NewSession()
	assert.Equal(t, Idle, s.State())
	assert.False(t, s.Busy())

	assert.NoError(t, s.begin())
	assert.True(t, s.Busy())
	assert.ErrorIs(t, s.begin(), ErrBusy)

	s.succeed("text")
	assert.Equal(t, Succeeded, s.State())
	text, err := s.Result()
	assert.Equal(t, "text", text)
	assert.NoError(t, err)

	assert.NoError(t, s.begin())
	failure := errors.New("nope")
	s.fail(failure)
	assert.Equal(t, Failed, s.State())
	_, err = s.Result()
	assert.ErrorIs(t, err, failure)
}

func TestSessionReleaseOnlyAffectsGenerating(t *testing.T) {
	s := NewSession()
	s.release()
	assert.Equal(t, Idle, s.State())

	assert.NoError(t, s.begin())
	s.succeed("done")
	s.release()
	assert.Equal(t, Succeeded, s.State())

	assert.NoError(t, s.begin())
	s.release()
	assert.Equal(t, Failed, s.State())
	_, err := s.Result()
	assert.ErrorIs(t, err, errAborted)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "generating", Generating.String())
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", State(42).String())
}
