package analysistools

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/rtxi/analysis-tools/pkg/domain"
)

// Plugin is the capability a real-time host expects from a module.
type Plugin interface {
	DescribeInputs() []domain.Variable
	DescribeOutputs() []domain.Variable
	OnLifecycleEvent(flag domain.UpdateFlag, period time.Duration)
	Execute()
}

// DefaultPeriod is the host period assumed until FlagPeriod says otherwise.
const DefaultPeriod = time.Millisecond

var (
	inputVars = []domain.Variable{
		{ID: 0, Name: "Input", Description: "Input", Kind: domain.VariableInput},
	}
	outputVars = []domain.Variable{
		{ID: 0, Name: "Output", Description: "Output", Kind: domain.VariableOutput},
	}
)

// Model is the real-time side of the panel. Every field is atomic, so Execute
// can run on the host's real-time thread without taking the panel lock.
type Model struct {
	count     atomic.Int64
	dt        atomicFloat
	systime   atomicFloat
	stateTime atomicFloat
	output    atomicFloat
}

// NewModel creates a model ticking at period.
func NewModel(period time.Duration) *Model {
	if period <= 0 {
		period = DefaultPeriod
	}
	m := &Model{}
	m.dt.Store(period.Seconds())
	m.bookkeep()
	return m
}

var _ Plugin = (*Model)(nil)

func (m *Model) DescribeInputs() []domain.Variable {
	return append([]domain.Variable(nil), inputVars...)
}

func (m *Model) DescribeOutputs() []domain.Variable {
	return append([]domain.Variable(nil), outputVars...)
}

// OnLifecycleEvent handles a host lifecycle flag. period is only read for FlagPeriod.
func (m *Model) OnLifecycleEvent(flag domain.UpdateFlag, period time.Duration) {
	switch flag {
	case domain.FlagInit:
		m.stateTime.Store(m.systime.Load())
	case domain.FlagModify, domain.FlagUnpause:
		m.bookkeep()
	case domain.FlagPause:
		m.output.Store(0)
	case domain.FlagPeriod:
		if period > 0 {
			m.dt.Store(period.Seconds())
		}
	}
}

// Execute advances the clock by one tick.
func (m *Model) Execute() {
	n := m.count.Load()
	m.systime.Store(float64(n) * m.dt.Load())
	m.count.Store(n + 1)
}

func (m *Model) bookkeep() {
	m.count.Store(0)
	m.systime.Store(0)
}

// Time returns the time in seconds at the last tick.
func (m *Model) Time() float64 { return m.systime.Load() }

// StateTime returns the "Time (s)" state recorded at init.
func (m *Model) StateTime() float64 { return m.stateTime.Load() }

// Count returns the number of ticks since the last reset.
func (m *Model) Count() int64 { return m.count.Load() }

// Dt returns the tick period in seconds.
func (m *Model) Dt() float64 { return m.dt.Load() }

// Output returns the value of the Output variable.
func (m *Model) Output() float64 { return m.output.Load() }

// SetOutput sets the Output variable. FlagPause resets it to zero.
func (m *Model) SetOutput(v float64) { m.output.Store(v) }

type atomicFloat struct {
	bits atomic.Uint64
}

func (f *atomicFloat) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *atomicFloat) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// Model returns the real-time model driven by the host.
func (p *Panel) Model() *Model {
	return p.model
}

func (p *Panel) DescribeInputs() []domain.Variable  { return p.model.DescribeInputs() }
func (p *Panel) DescribeOutputs() []domain.Variable { return p.model.DescribeOutputs() }

// OnLifecycleEvent forwards host lifecycle flags to the model.
func (p *Panel) OnLifecycleEvent(flag domain.UpdateFlag, period time.Duration) {
	p.model.OnLifecycleEvent(flag, period)
}

// Execute is the real-time tick. It never touches the panel lock.
func (p *Panel) Execute() {
	p.model.Execute()
}

var _ Plugin = (*Panel)(nil)
