package events

// Queue is the single FIFO the frame loop assembles each frame. It is not
// safe for concurrent use; cross-thread producers go through a channel
// that DrainChannel empties at the top of the frame.
type Queue struct {
	items []Event
}

// Push appends one event.
func (q *Queue) Push(ev Event) {
	q.items = append(q.items, ev)
}

// DrainChannel moves every pending event off ch without blocking,
// preserving arrival order.
func (q *Queue) DrainChannel(ch <-chan Event) {
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			q.items = append(q.items, ev)
		default:
			return
		}
	}
}

// Pop removes and returns the oldest event, or (nil, false) when empty.
func (q *Queue) Pop() (Event, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	ev := q.items[0]
	q.items = q.items[1:]
	return ev, true
}

// Len returns the number of queued events.
func (q *Queue) Len() int { return len(q.items) }

// Reset empties the queue, keeping its backing storage for the next frame.
func (q *Queue) Reset() { q.items = q.items[:0] }
