package orders

import (
	"context"
	"strings"

	"cafe-terminal/internal/cafe"
)

// QuitSentinel ends item entry.
const QuitSentinel = "q"

// RetryPolicy bounds how many unknown item names in a row are tolerated
// while collecting an order. MaxMisses == 0 means unbounded.
type RetryPolicy struct {
	MaxMisses int
}

// Exhausted reports whether misses consecutive failures end collection.
func (p RetryPolicy) Exhausted(misses int) bool {
	return p.MaxMisses > 0 && misses >= p.MaxMisses
}

// State is the phase of an order capture.
type State int

const (
	Collecting State = iota
	Finalizing
)

func (s State) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case Finalizing:
		return "finalizing"
	}
	return "unknown"
}

// Outcome is the result of submitting one line during collection.
type Outcome int

const (
	Added Outcome = iota
	Unknown
	Done
	GaveUp
)

// Capture collects item names for one order.
type Capture struct {
	svc    *Service
	state  State
	items  []string
	misses int
}

// NewCapture starts an order in the Collecting state.
func (s *Service) NewCapture() *Capture {
	return &Capture{svc: s, state: Collecting}
}

// State returns the current phase.
func (c *Capture) State() State { return c.state }

// Items returns the pending item names in input order.
func (c *Capture) Items() []string { return append([]string(nil), c.items...) }

// Submit handles one line of input. An item is accepted only when exactly
// one menu row matches it.
func (c *Capture) Submit(ctx context.Context, input string) (Outcome, error) {
	if c.state != Collecting {
		return Done, nil
	}
	name := strings.TrimRight(input, "\r\n")
	if name == QuitSentinel {
		c.state = Finalizing
		return Done, nil
	}

	n, err := c.svc.Exec.QueryCount(ctx, "SELECT itemname FROM menu WHERE itemname = ?", name)
	if err != nil {
		return Unknown, err
	}
	if n != 1 {
		c.misses++
		if c.svc.Retry.Exhausted(c.misses) {
			c.state = Finalizing
			return GaveUp, nil
		}
		return Unknown, nil
	}
	c.misses = 0
	c.items = append(c.items, name)
	return Added, nil
}

// Finalize places the collected order. With nothing collected it returns
// cafe.ErrNoItems and writes nothing.
func (c *Capture) Finalize(ctx context.Context, sess cafe.Session) (Receipt, error) {
	c.state = Finalizing
	return c.svc.Place(ctx, sess, c.items)
}
