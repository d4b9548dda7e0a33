package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) SweepOverdue(context.Context) (int, error) {
	c.calls.Add(1)
	return 1, c.err
}

type countingPruner struct {
	calls atomic.Int32
}

func (c *countingPruner) Prune(context.Context) (int64, error) {
	c.calls.Add(1)
	return 3, nil
}

func TestJobsCallCollaborators(t *testing.T) {
	sw := &countingSweeper{}
	pr := &countingPruner{}
	s := NewScheduler(sw, pr, "")
	assert.Equal(t, "@every 5s", s.SweepSpec)

	s.sweepAcceptance()
	s.pruneAudit()
	sw.err = errors.New("store down")
	s.sweepAcceptance()

	assert.EqualValues(t, 2, sw.calls.Load())
	assert.EqualValues(t, 1, pr.calls.Load())
}

func TestStartRunsSweep(t *testing.T) {
	sw := &countingSweeper{}
	s := NewScheduler(sw, &countingPruner{}, "@every 1s")
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return sw.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := NewScheduler(&countingSweeper{}, &countingPruner{}, "not a spec")
	assert.Error(t, s.Start())
}
