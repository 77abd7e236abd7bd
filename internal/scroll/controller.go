// Package scroll tracks whether a conversation view follows its newest
// content, and when it should instead offer a jump to the latest message.
package scroll

// DefaultThreshold is the distance from the bottom below which the view
// counts as pinned. It is expressed in the same unit as Geometry.
const DefaultThreshold = 100

// State is the pin state of the view
type State int

const (
	Pinned State = iota
	Unpinned
)

func (s State) String() string {
	if s == Pinned {
		return "pinned"
	}
	return "unpinned"
}

// Action is what the view should do after an event
type Action int

const (
	ActionNone Action = iota
	ActionScrollToBottom
	ActionShowIndicator
)

// Geometry describes the scrollable area at one instant
type Geometry struct {
	ScrollHeight int // total content height
	ScrollTop    int // offset of the first visible unit
	ClientHeight int // visible height
}

// Distance returns how far the visible window is from the end of the content
func (g Geometry) Distance() int {
	return g.ScrollHeight - g.ScrollTop - g.ClientHeight
}

// Controller is the PINNED/UNPINNED state machine. The zero value is not
// usable; call New.
type Controller struct {
	threshold int
	state     State
}

// Option configures a Controller
type Option func(*Controller)

// WithThreshold overrides DefaultThreshold. Values below 1 are ignored.
func WithThreshold(threshold int) Option {
	return func(c *Controller) {
		if threshold > 0 {
			c.threshold = threshold
		}
	}
}

// New returns a Controller in the Pinned state
func New(opts ...Option) *Controller {
	c := &Controller{threshold: DefaultThreshold, state: Pinned}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Threshold returns the pin threshold in use
func (c *Controller) Threshold() int {
	return c.threshold
}

// State returns the current state
func (c *Controller) State() State {
	return c.state
}

// Pinned reports whether the view follows new content
func (c *Controller) Pinned() bool {
	return c.state == Pinned
}

// IndicatorVisible reports whether the "new messages" affordance is shown
func (c *Controller) IndicatorVisible() bool {
	return c.state == Unpinned
}

// Observe recomputes the state after a scroll or resize
func (c *Controller) Observe(g Geometry) State {
	c.state = c.classify(g)
	return c.state
}

// Appended recomputes the state for a newly appended message. g is the
// geometry in effect when the message arrived, before the view grows to
// include it.
func (c *Controller) Appended(g Geometry) Action {
	if c.Observe(g) == Pinned {
		return ActionScrollToBottom
	}
	return ActionShowIndicator
}

// JumpToLatest pins the view and asks for a scroll to the bottom
func (c *Controller) JumpToLatest() Action {
	c.state = Pinned
	return ActionScrollToBottom
}

func (c *Controller) classify(g Geometry) State {
	if g.Distance() < c.threshold {
		return Pinned
	}
	return Unpinned
}
