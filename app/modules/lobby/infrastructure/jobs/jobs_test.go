package lobbyjobs

import (
	"context"
	"errors"
	"testing"
	"time"

	lobbyservice "github.com/brett-phillips/ELO/app/modules/lobby/application"
	"github.com/brett-phillips/ELO/app/shared/observability"
	"github.com/brett-phillips/ELO/app/shared/results"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sweepOnly satisfies lobbyservice.Service through the embedded interface;
// only SweepQueueTimeouts is called.
type sweepOnly struct {
	lobbyservice.Service
	calls []time.Time
	res   lobbyservice.SweepOutcome
	err   error
}

func (s *sweepOnly) SweepQueueTimeouts(_ context.Context, now time.Time) (lobbyservice.SweepOutcome, error) {
	s.calls = append(s.calls, now)
	return s.res, s.err
}

func testJob() *river.Job[SweepQueueTimeoutsArgs] {
	return &river.Job[SweepQueueTimeoutsArgs]{JobRow: &rivertype.JobRow{ID: 42}}
}

func TestSweepSchedule(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newSweepSchedule(start, time.Minute, 5*time.Minute)

	first := s.Next(start)
	assert.Equal(t, start.Add(time.Minute), first, "first run waits the initial delay")

	second := s.Next(first)
	assert.Equal(t, first.Add(5*time.Minute), second)
	assert.Equal(t, second.Add(5*time.Minute), s.Next(second))
}

func TestSweepWorker_Work(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("sweeps with the worker clock", func(t *testing.T) {
		svc := &sweepOnly{res: results.SuccessResult[*lobbyservice.SweepResult, error](&lobbyservice.SweepResult{
			LobbiesChecked: 2,
			Evicted:        []sharedtypes.QueuedPlayer{{UserID: "a"}},
		})}
		require.NoError(t, NewSweepWorker(svc, observability.NoOpLogger, clock).Work(context.Background(), testJob()))
		assert.Equal(t, []time.Time{now}, svc.calls)
	})

	t.Run("skipped sweep is not an error", func(t *testing.T) {
		svc := &sweepOnly{res: results.SuccessResult[*lobbyservice.SweepResult, error](&lobbyservice.SweepResult{Skipped: true})}
		assert.NoError(t, NewSweepWorker(svc, observability.NoOpLogger, clock).Work(context.Background(), testJob()))
	})

	t.Run("persistence failure is reported to River", func(t *testing.T) {
		boom := errors.New("db down")
		svc := &sweepOnly{err: boom}
		err := NewSweepWorker(svc, observability.NoOpLogger, clock).Work(context.Background(), testJob())
		assert.ErrorIs(t, err, boom)
	})
}

func TestPeriodicJobs(t *testing.T) {
	jobs := PeriodicJobs(time.Now(), Config{Interval: 5 * time.Minute, InitialDelay: time.Minute})
	require.Len(t, jobs, 1)
	assert.Equal(t, "lobby_sweep_queue_timeouts", SweepQueueTimeoutsArgs{}.Kind())
}

func TestSweepWorker_Timeout(t *testing.T) {
	w := NewSweepWorker(&sweepOnly{}, observability.NoOpLogger, nil)
	assert.Equal(t, 2*time.Minute, w.Timeout(testJob()))
}
