package engine

// LoopState is the state of the run loop.
type LoopState int

const (
	Idle LoopState = iota
	Running
	StopRequested
)

func (s LoopState) String() string {
	switch s {
	case Running:
		return "running"
	case StopRequested:
		return "stop-requested"
	}
	return "idle"
}

// LoopFunc is called once per idle iteration of the run loop.
type LoopFunc func(param any)

type loopSlot struct {
	fn    LoopFunc
	param any
}

// InstallLoopHook replaces the loop hook. A nil fn removes it, and the
// loop then blocks waiting for events.
func (c *Connection) InstallLoopHook(fn LoopFunc, param any) {
	c.loopHook = loopSlot{fn: fn, param: param}
}

func (c *Connection) State() LoopState { return c.state }

// RequestStop makes Run return after the hook currently executing.
func (c *Connection) RequestStop() {
	if c.state == Running {
		c.state = StopRequested
	}
}

// Run dispatches events one at a time until a hook calls RequestStop.
// Without a loop hook it blocks for each event. With one, it drains the
// pending events, flushes and then calls the loop hook. Run returns nil
// when stopped and the read error if the connection fails.
func (c *Connection) Run() error {
	if c.closed {
		return ErrClosed
	}
	c.state = Running
	defer func() { c.state = Idle }()

	for c.state == Running {
		if c.loopHook.fn == nil {
			ev, err := c.srv.NextEvent()
			if err != nil {
				return err
			}
			c.dispatch(ev)
			continue
		}
		for c.state == Running && c.srv.Pending() {
			ev, err := c.srv.NextEvent()
			if err != nil {
				return err
			}
			c.dispatch(ev)
		}
		if c.state != Running {
			break
		}
		c.srv.Flush()
		c.loopHook.fn(c.loopHook.param)
	}
	return nil
}
