package control

// edge reports a low→high transition once per press. Holding the button
// does not fire again until it is released.
type edge struct {
	held bool
}

func (e *edge) Pressed(down bool) bool {
	if !down {
		e.held = false
		return false
	}
	if e.held {
		return false
	}
	e.held = true
	return true
}

// debounce changes its output only after the opposite level has been seen
// on two consecutive updates. A single noisy sample never flips it.
type debounce struct {
	state   bool
	pending bool
}

func (d *debounce) Update(level bool) bool {
	if level == d.state {
		d.pending = false
		return d.state
	}
	if d.pending {
		d.state = level
		d.pending = false
		return d.state
	}
	d.pending = true
	return d.state
}

func (d *debounce) Reset() {
	d.state = false
	d.pending = false
}
