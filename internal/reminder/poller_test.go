package reminder

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dori/tickle/internal/manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)

type fakeNotifier struct {
	mu        sync.Mutex
	reminders []string
	summaries [][3]int
}

func (f *fakeNotifier) SendDueReminder(title string, dueIn time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders = append(f.reminders, title)
	return nil
}

func (f *fakeNotifier) SendReminderSummary(overdue, dueToday, dueSoon int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries = append(f.summaries, [3]int{overdue, dueToday, dueSoon})
	return nil
}

func at(h, min int, days int) *time.Time {
	t := time.Date(2024, 6, 15+days, h, min, 0, 0, time.Local)
	return &t
}

func newManager(t *testing.T) *manager.Manager {
	t.Helper()
	m := manager.New(manager.WithClock(func() time.Time { return fixedNow }))
	for _, nt := range []manager.NewTask{
		{Title: "pay rent", Due: at(9, 0, -1)},
		{Title: "call mom", Due: at(18, 0, 0)},
		{Title: "dentist", Due: at(9, 0, 3)},
		{Title: "no due"},
	} {
		_, err := m.Add(nt)
		require.NoError(t, err)
	}
	return m
}

func TestCheck_Report(t *testing.T) {
	m := newManager(t)
	var got []Report
	p := New(m, WithSink(func(r Report) { got = append(got, r) }))

	r := p.Check()

	assert.Equal(t, fixedNow, r.At)
	assert.Equal(t, 1, r.Overdue)
	assert.Equal(t, 1, r.DueToday)
	assert.Equal(t, 1, r.DueSoon)
	assert.Equal(t, []string{"pay rent"}, r.OverdueTitles)
	assert.Equal(t, []string{"call mom"}, r.DueSoonTitles)
	assert.False(t, r.Empty())
	require.Len(t, got, 1)
	assert.Equal(t, r, p.Last())
}

func TestCheck_WiderWindow(t *testing.T) {
	m := newManager(t)
	p := New(m, WithDueSoonHours(24*7))

	assert.Equal(t, []string{"call mom", "dentist"}, p.Check().DueSoonTitles)
}

func TestCheck_EmptyWhenNothingDue(t *testing.T) {
	m := manager.New(manager.WithClock(func() time.Time { return fixedNow }))
	_, err := m.Add(manager.NewTask{Title: "someday"})
	require.NoError(t, err)

	assert.True(t, New(m).Check().Empty())
}

func TestCheck_NotifiesOncePerDueTime(t *testing.T) {
	m := newManager(t)
	n := &fakeNotifier{}
	p := New(m, WithNotifier(n))

	p.Check()
	p.Check()
	assert.Equal(t, []string{"pay rent", "call mom"}, n.reminders)

	// Moving the due time re-arms the reminder
	ok, err := m.Update(2, manager.TaskUpdate{Due: manager.Set(*at(20, 0, 0))})
	require.NoError(t, err)
	require.True(t, ok)
	p.Check()
	assert.Equal(t, []string{"pay rent", "call mom", "call mom"}, n.reminders)

	// Completing a task drops it from the reports
	_, err = m.MarkComplete(1, true)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Check().Overdue)
}

func TestCheck_ForgetsTasksNoLongerDue(t *testing.T) {
	m := newManager(t)
	n := &fakeNotifier{}
	p := New(m, WithNotifier(n))

	p.Check()
	assert.Len(t, p.notified, 2)

	ok, err := m.Update(2, manager.TaskUpdate{Due: manager.Set(*at(20, 0, 0))})
	require.NoError(t, err)
	require.True(t, ok)
	p.Check()
	assert.Len(t, p.notified, 2, "old due time is forgotten")

	_, err = m.MarkComplete(1, true)
	require.NoError(t, err)
	p.Check()
	assert.Len(t, p.notified, 1)

	require.True(t, m.Delete(2))
	p.Check()
	assert.Empty(t, p.notified)

	// Reopening an overdue task reminds again
	_, err = m.MarkComplete(1, false)
	require.NoError(t, err)
	p.Check()
	assert.Equal(t, []string{"pay rent", "call mom", "call mom", "pay rent"}, n.reminders)
}

func TestCheck_BurstSendsSummary(t *testing.T) {
	m := manager.New(manager.WithClock(func() time.Time { return fixedNow }))
	for i := 0; i < 5; i++ {
		_, err := m.Add(manager.NewTask{Title: fmt.Sprintf("late %d", i), Due: at(8, i, 0)})
		require.NoError(t, err)
	}
	n := &fakeNotifier{}
	p := New(m, WithNotifier(n))

	p.Check()

	assert.Empty(t, n.reminders)
	require.Len(t, n.summaries, 1)
	// due this morning: overdue and due today
	assert.Equal(t, [3]int{5, 5, 0}, n.summaries[0])
}

func TestRun_StopsOnCancel(t *testing.T) {
	m := newManager(t)
	reports := make(chan Report, 16)
	p := New(m,
		WithInterval(5*time.Millisecond),
		WithSink(func(r Report) {
			select {
			case reports <- r:
			default:
			}
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	// Immediate check plus at least one tick
	for i := 0; i < 2; i++ {
		select {
		case <-reports:
		case <-time.After(2 * time.Second):
			t.Fatal("no report from poller")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestOptionsIgnoreNonPositive(t *testing.T) {
	p := New(newManager(t), WithInterval(0), WithDueSoonHours(-1))
	assert.Equal(t, DefaultInterval, p.Interval())
	assert.Equal(t, DefaultDueSoonHours, p.hours)
}
