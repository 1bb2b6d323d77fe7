package mapfacade

// oneShot is a single-fire broadcast signal.
type oneShot struct {
	done chan struct{}
}

func newOneShot() oneShot {
	return oneShot{done: make(chan struct{})}
}

// fire reports false if the signal had already fired.
func (s oneShot) fire() bool {
	if s.fired() {
		return false
	}

	close(s.done)

	return true
}

func (s oneShot) fired() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
