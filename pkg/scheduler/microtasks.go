package scheduler

import "sync"

// Microtasks is a manual FIFO Poster. Posted callbacks run only when Drain is
// called.
type Microtasks struct {
	mu    sync.Mutex
	tasks []func()
}

// NewMicrotasks creates an empty queue.
func NewMicrotasks() *Microtasks {
	return &Microtasks{}
}

// Post implements Poster.
func (m *Microtasks) Post(fn func()) {
	m.mu.Lock()
	m.tasks = append(m.tasks, fn)
	m.mu.Unlock()
}

// Len returns the number of callbacks waiting.
func (m *Microtasks) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Drain runs callbacks until none are left, including callbacks posted while
// draining, and returns how many ran.
func (m *Microtasks) Drain() int {
	n := 0
	for {
		m.mu.Lock()
		if len(m.tasks) == 0 {
			m.mu.Unlock()
			return n
		}
		fn := m.tasks[0]
		m.tasks[0] = nil
		m.tasks = m.tasks[1:]
		m.mu.Unlock()

		fn()
		n++
	}
}
