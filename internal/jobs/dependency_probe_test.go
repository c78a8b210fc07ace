package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunProbes(t *testing.T) {
	down := errors.New("connection refused")
	job := NewDependencyProbeJob("@every 1h", nil,
		Probe{Name: "mongo", Check: func(context.Context) error { return nil }},
		Probe{Name: "redis", Check: func(context.Context) error { return down }},
	)

	failed := job.RunProbes(context.Background())

	assert.Len(t, failed, 1)
	assert.ErrorIs(t, failed["redis"], down)
}

func TestRunProbes_AppliesTimeout(t *testing.T) {
	job := NewDependencyProbeJob("@every 1h", nil, Probe{Name: "mongo", Check: func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		if !ok {
			return errors.New("no deadline")
		}
		return nil
	}})

	assert.Empty(t, job.RunProbes(context.Background()))
}

func TestStartRunsImmediatelyAndStop(t *testing.T) {
	var calls atomic.Int32
	job := NewDependencyProbeJob("@every 1h", nil, Probe{Name: "mongo", Check: func(context.Context) error {
		calls.Add(1)
		return nil
	}})

	require.NoError(t, job.Start())
	job.Stop()

	assert.Equal(t, int32(1), calls.Load())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	job := NewDependencyProbeJob("not a schedule", nil)
	assert.Error(t, job.Start())
}

func TestScheduledRun(t *testing.T) {
	ran := make(chan struct{}, 4)
	job := NewDependencyProbeJob("@every 1s", nil, Probe{Name: "redis", Check: func(context.Context) error {
		ran <- struct{}{}
		return nil
	}})
	require.NoError(t, job.Start())
	defer job.Stop()

	<-ran // immediate run
	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled probe did not run")
	}
}
