package mapfacade

// slotState is the tagged variant behind every deferred handle:
// a stub with a FIFO queue of callbacks, or resolved with its backing object.
type slotState[R any] interface {
	isSlotState()
}

type stubState struct {
	queue []func()
}

type resolvedState[R any] struct {
	ref R
}

func (*stubState) isSlotState()       {}
func (resolvedState[R]) isSlotState() {}

// slot is the deferred dispatcher shared by maps, markers and routes.
// Once resolved it never returns to the stub state.
type slot[R any] struct {
	state slotState[R]
}

func newStubSlot[R any]() slot[R] {
	return slot[R]{state: &stubState{}}
}

func newResolvedSlot[R any](ref R) slot[R] {
	return slot[R]{state: resolvedState[R]{ref: ref}}
}

func (s *slot[R]) object() (R, bool) {
	if resolved, ok := s.state.(resolvedState[R]); ok {
		return resolved.ref, true
	}

	var zero R

	return zero, false
}

func (s *slot[R]) pending() int {
	if stub, ok := s.state.(*stubState); ok {
		return len(stub.queue)
	}

	return 0
}

// executeOnLoad runs fn immediately when resolved, otherwise appends it to the queue.
// It returns the queue length after appending, or 0 if fn ran.
func (s *slot[R]) executeOnLoad(fn func()) int {
	switch state := s.state.(type) {
	case resolvedState[R]:
		fn()
		return 0

	case *stubState:
		state.queue = append(state.queue, fn)
		return len(state.queue)

	default:
		panic("mapfacade: unknown slot state")
	}
}

// resolve assigns ref and drains the queue in FIFO order. The state switches before
// the drain, so deferrals issued from inside a drained callback run synchronously.
// It returns the number of drained callbacks and false if the slot was already resolved.
func (s *slot[R]) resolve(ref R) (int, bool) {
	stub, ok := s.state.(*stubState)
	if !ok {
		return 0, false
	}

	s.state = resolvedState[R]{ref: ref}

	queue := stub.queue
	stub.queue = nil

	for _, fn := range queue {
		fn()
	}

	return len(queue), true
}
