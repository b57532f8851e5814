package dephoist

import (
	"time"

	"github.com/golang/dephoist/log"
)

// metrics is a phase-stack timer, adapted from golang-dep's own gps
// metrics: push a phase name, pop it, and the elapsed wall time since the
// last push/pop is credited to whichever phase was on top of the stack.
type metrics struct {
	stack []string
	times map[string]time.Duration
	last  time.Time
}

func newMetrics() *metrics {
	return &metrics{
		stack: []string{"other"},
		times: map[string]time.Duration{"other": 0},
		last:  time.Now(),
	}
}

func (m *metrics) push(name string) {
	cur := m.stack[len(m.stack)-1]
	m.times[cur] += time.Since(m.last)

	m.stack = append(m.stack, name)
	m.last = time.Now()
}

func (m *metrics) pop() {
	done := m.stack[len(m.stack)-1]
	m.times[done] += time.Since(m.last)

	m.stack = m.stack[:len(m.stack)-1]
	m.last = time.Now()
}

func (m *metrics) log(out *log.Logger) {
	cur := m.stack[len(m.stack)-1]
	m.times[cur] += time.Since(m.last)
	m.last = time.Now()

	for phase, d := range m.times {
		out.LogHoistfln("%s: %s", phase, d)
	}
}
