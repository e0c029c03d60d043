package comm

// StatusQueue relays human-readable status text from the dispatcher to the
// display. Push never blocks: when the queue is full the oldest message is
// dropped to make room.
type StatusQueue struct {
	ch chan string
}

func NewStatusQueue(capacity int) *StatusQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &StatusQueue{ch: make(chan string, capacity)}
}

func (q *StatusQueue) Push(msg string) {
	for {
		select {
		case q.ch <- msg:
			return
		default:
		}
		select {
		case <-q.ch:
		default:
		}
	}
}

// TryPop returns the oldest queued message without blocking.
func (q *StatusQueue) TryPop() (string, bool) {
	select {
	case msg := <-q.ch:
		return msg, true
	default:
		return "", false
	}
}

// Drain returns every message currently queued, oldest first.
func (q *StatusQueue) Drain() []string {
	var msgs []string
	for {
		msg, ok := q.TryPop()
		if !ok {
			return msgs
		}
		msgs = append(msgs, msg)
	}
}

func (q *StatusQueue) Len() int {
	return len(q.ch)
}
