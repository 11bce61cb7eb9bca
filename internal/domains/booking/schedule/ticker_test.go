package schedule_test

import (
	"sync"
	"testing"
	"time"

	"fleetops/internal/domains/booking/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	ticks []schedule.Countdown
}

func (r *recorder) record(c schedule.Countdown) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ticks = append(r.ticks, c)
}

func (r *recorder) snapshot() []schedule.Countdown {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]schedule.Countdown(nil), r.ticks...)
}

func fixedClock(now time.Time) schedule.Clock {
	return schedule.ClockFunc(func() time.Time { return now })
}

func TestTicker_EmitsImmediatelyAndRepeatedly(t *testing.T) {
	resolver := schedule.NewResolver(time.UTC)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := &recorder{}

	ticker := resolver.StartTicker(fixedClock(now), schedule.CountdownInput{Date: "2025-06-01", Time: "12:01", Event: "Survey"}, 5*time.Millisecond, rec.record)
	defer ticker.Stop()

	require.Eventually(t, func() bool { return len(rec.snapshot()) >= 3 }, time.Second, time.Millisecond)
	assert.Equal(t, "1m 0s", rec.snapshot()[0].Label)
}

func TestTicker_StopHaltsFurtherTicks(t *testing.T) {
	resolver := schedule.NewResolver(time.UTC)
	rec := &recorder{}

	ticker := resolver.StartTicker(nil, schedule.CountdownInput{Date: "2099-01-01", Event: "Voyage"}, 2*time.Millisecond, rec.record)

	require.Eventually(t, func() bool { return len(rec.snapshot()) >= 2 }, time.Second, time.Millisecond)

	ticker.Stop()
	stopped := len(rec.snapshot())

	assert.Never(t, func() bool { return len(rec.snapshot()) != stopped }, 20*time.Millisecond, time.Millisecond)

	// second Stop is a no-op
	ticker.Stop()
}

func TestTicker_ResetStartsFreshCountdown(t *testing.T) {
	resolver := schedule.NewResolver(time.UTC)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := &recorder{}

	ticker := resolver.StartTicker(fixedClock(now), schedule.CountdownInput{Event: "Survey"}, time.Hour, rec.record)
	defer ticker.Stop()

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, schedule.LabelNoDate, rec.snapshot()[0].Label)

	ticker.Reset(schedule.CountdownInput{Date: "2025-06-01", Time: "1:00 PM", Event: "Survey"})

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, "1h 0m 0s", rec.snapshot()[1].Label)
	assert.Equal(t, schedule.UrgencyCritical, rec.snapshot()[1].Urgency)
}
