package scheduler

import (
	"sort"
	"sync"
	"time"
)

type registration struct {
	interval time.Duration
	fn       func()
	next     time.Duration
}

// Manual is a scheduler driven by Advance instead of wall-clock time.
// Callbacks run synchronously on the goroutine calling Advance. It also
// serves as the clock matching its virtual time.
type Manual struct {
	mu     sync.Mutex
	base   time.Time
	now    time.Duration
	nextID Handle
	regs   map[Handle]*registration
}

func NewManual(base time.Time) *Manual {
	return &Manual{base: base, regs: make(map[Handle]*registration)}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.base.Add(m.now)
}

func (m *Manual) ScheduleRepeating(interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		interval = time.Second
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.regs[m.nextID] = &registration{interval: interval, fn: fn, next: m.now + interval}
	return m.nextID
}

func (m *Manual) Cancel(h Handle) {
	m.mu.Lock()
	delete(m.regs, h)
	m.mu.Unlock()
}

// Active returns the number of live registrations.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.regs)
}

// Advance moves the virtual time forward by d and fires every callback
// that falls due, in due-time order. A callback cancelled by an earlier
// callback in the same step does not fire.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		reg, ok := m.earliestDue(target)
		if !ok {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = reg.next
		reg.next += reg.interval
		fn := reg.fn
		m.mu.Unlock()

		fn()
	}
}

func (m *Manual) earliestDue(target time.Duration) (*registration, bool) {
	ids := make([]Handle, 0, len(m.regs))
	for id, reg := range m.regs {
		if reg.next <= target {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, false
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := m.regs[ids[i]], m.regs[ids[j]]
		if a.next != b.next {
			return a.next < b.next
		}
		return ids[i] < ids[j]
	})
	return m.regs[ids[0]], true
}
