package quiz

import (
	"sync"
	"time"
)

// TickInterval is the countdown resolution.
const TickInterval = 100 * time.Millisecond

const (
	warningThreshold  = 0.7
	criticalThreshold = 0.8
)

type Phase int

const (
	PhaseNormal Phase = iota
	PhaseWarning
	PhaseCritical
)

func (p Phase) String() string {
	switch p {
	case PhaseWarning:
		return "warning"
	case PhaseCritical:
		return "critical"
	default:
		return "normal"
	}
}

// PhaseFor maps the elapsed fraction of the budget to an indicator phase.
func PhaseFor(elapsed float64) Phase {
	switch {
	case elapsed >= criticalThreshold:
		return PhaseCritical
	case elapsed >= warningThreshold:
		return PhaseWarning
	default:
		return PhaseNormal
	}
}

type Tick struct {
	Elapsed   float64 // fraction of the budget consumed, in [0, 1]
	Remaining time.Duration
	Phase     Phase
	Expired   bool
}

// Countdown is a cancellable per-question timer. Start stops any countdown
// that is still running before beginning a new one, so a question transition
// can never leave two timers alive; at most one expiry fires per Start.
type Countdown struct {
	mu     sync.Mutex
	cancel chan struct{}
}

func NewCountdown() *Countdown {
	return &Countdown{}
}

func (c *Countdown) Start(budget time.Duration, onTick func(Tick)) {
	c.mu.Lock()
	if c.cancel != nil {
		close(c.cancel)
	}
	cancel := make(chan struct{})
	c.cancel = cancel
	c.mu.Unlock()

	go run(budget, cancel, onTick)
}

func (c *Countdown) Stop() {
	c.mu.Lock()
	if c.cancel != nil {
		close(c.cancel)
		c.cancel = nil
	}
	c.mu.Unlock()
}

func run(budget time.Duration, cancel <-chan struct{}, onTick func(Tick)) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	started := time.Now()
	for {
		select {
		case <-cancel:
			return
		case now := <-ticker.C:
			// A tick may already be pending when the countdown is stopped;
			// re-check before reporting so a stale expiry cannot fire.
			select {
			case <-cancel:
				return
			default:
			}

			elapsed := now.Sub(started)
			fraction := float64(elapsed) / float64(budget)
			if fraction >= 1 {
				onTick(Tick{Elapsed: 1, Remaining: 0, Phase: PhaseCritical, Expired: true})
				return
			}
			onTick(Tick{
				Elapsed:   fraction,
				Remaining: budget - elapsed,
				Phase:     PhaseFor(fraction),
			})
		}
	}
}
