package lobbyjobs

import "time"

// QueueName is the River queue the sweep runs on. One worker keeps it single-flight.
const QueueName = "lobby_sweep"

// SweepQueueTimeoutsArgs triggers one queue timeout sweep.
type SweepQueueTimeoutsArgs struct{}

// Kind returns the job type identifier for River
func (SweepQueueTimeoutsArgs) Kind() string { return "lobby_sweep_queue_timeouts" }

// sweepSchedule fires once at start+initialDelay and then every interval.
type sweepSchedule struct {
	first    time.Time
	interval time.Duration
}

func newSweepSchedule(start time.Time, initialDelay, interval time.Duration) *sweepSchedule {
	return &sweepSchedule{first: start.Add(initialDelay), interval: interval}
}

func (s *sweepSchedule) Next(current time.Time) time.Time {
	if current.Before(s.first) {
		return s.first
	}
	return current.Add(s.interval)
}
