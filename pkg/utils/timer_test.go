package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestTimer_SequentialPhases(t *testing.T) {
	clock := &fakeClock{t: fixedNow()}
	timer := NewTimer("pipeline", WithNow(clock.now))

	timer.Start("load")
	clock.advance(30 * time.Millisecond)
	timer.Start("dearray")
	clock.advance(5 * time.Millisecond)
	timer.Stop()

	phases := timer.Phases()
	require.Len(t, phases, 2)
	assert.Equal(t, Phase{Name: "load", Duration: 30 * time.Millisecond}, phases[0])
	assert.Equal(t, Phase{Name: "dearray", Duration: 5 * time.Millisecond}, phases[1])
	assert.Equal(t, 35*time.Millisecond, timer.Total())
}

func TestTimer_StopWithoutStart(t *testing.T) {
	timer := NewTimer("idle")
	timer.Stop()
	assert.Empty(t, timer.Phases())
}

func TestTimer_Report(t *testing.T) {
	clock := &fakeClock{t: fixedNow()}
	timer := NewTimer("pipeline", WithNow(clock.now))
	timer.Start("emit")
	clock.advance(time.Second)

	var buf bytes.Buffer
	logger := NewDefaultLogger(LevelDebug, &buf)
	timer.Report(logger)

	assert.Contains(t, buf.String(), "pipeline: emit       1s")
	assert.Contains(t, buf.String(), "pipeline: total      1s")
}
