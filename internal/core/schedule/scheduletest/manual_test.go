package scheduletest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual_runs_in_deadline_order(t *testing.T) {
	m := NewManual()

	var order []string
	m.AfterFunc(3*time.Second, func() { order = append(order, "c") })
	m.AfterFunc(1*time.Second, func() { order = append(order, "a") })
	m.AfterFunc(2*time.Second, func() { order = append(order, "b") })

	m.Advance(10 * time.Second)

	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 10*time.Second, m.Elapsed())
}

func TestManual_ties_run_in_schedule_order(t *testing.T) {
	m := NewManual()

	var order []int
	for i := range 3 {
		m.AfterFunc(time.Second, func() { order = append(order, i) })
	}

	m.Advance(time.Second)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestManual_does_not_run_early(t *testing.T) {
	m := NewManual()

	ran := false
	m.AfterFunc(time.Second, func() { ran = true })

	m.Advance(999 * time.Millisecond)
	assert.False(t, ran)
	assert.Equal(t, 1, m.Pending())

	m.Advance(time.Millisecond)
	assert.True(t, ran)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_clock_reads_deadline_inside_task(t *testing.T) {
	m := NewManual()

	var at time.Duration
	m.AfterFunc(1500*time.Millisecond, func() { at = m.Elapsed() })
	m.Advance(5 * time.Second)

	assert.Equal(t, 1500*time.Millisecond, at)
}

func TestManual_nested_schedule_within_window(t *testing.T) {
	m := NewManual()

	ran := 0
	m.AfterFunc(time.Second, func() {
		ran++
		m.AfterFunc(time.Second, func() { ran++ })
	})

	m.Advance(2 * time.Second)
	assert.Equal(t, 2, ran)
}

func TestManual_cancel(t *testing.T) {
	m := NewManual()

	task := m.AfterFunc(time.Second, func() { t.Error("cancelled task ran") })
	assert.True(t, task.Cancel())
	assert.False(t, task.Cancel())

	m.Advance(time.Minute)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_AdvanceTo(t *testing.T) {
	m := NewManual()

	m.AdvanceTo(100 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, m.Elapsed())

	m.AdvanceTo(50 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, m.Elapsed(), "never moves backwards")
}
