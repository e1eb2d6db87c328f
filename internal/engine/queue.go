package engine

// pulseQueue serializes pulse triggering so no two pulses start closer
// together than the minimum spacing interval. Arrival order is preserved;
// there is no priority. The queue holds no timer of its own: the engine is
// stepped by one loop, so deferred items just re-check the spacing deadline
// on every drain call.
type pulseQueue struct {
	spacingMS int64

	pending      []WaveformParams
	lastTrigger  int64
	hasTriggered bool
}

func newPulseQueue(spacingMS int64) *pulseQueue {
	return &pulseQueue{spacingMS: spacingMS}
}

func (q *pulseQueue) enqueue(p WaveformParams) {
	q.pending = append(q.pending, p)
}

func (q *pulseQueue) len() int { return len(q.pending) }

// drain releases the oldest pending entry if the spacing interval has elapsed
// since the previous trigger. At most one entry is released per call: two
// releases in the same step would be zero milliseconds apart, violating the
// spacing invariant.
func (q *pulseQueue) drain(nowMillis int64) (WaveformParams, bool) {
	if len(q.pending) == 0 {
		return WaveformParams{}, false
	}
	if q.hasTriggered && nowMillis-q.lastTrigger < q.spacingMS {
		return WaveformParams{}, false
	}

	p := q.pending[0]
	q.pending = q.pending[1:]
	q.lastTrigger = nowMillis
	q.hasTriggered = true
	return p, true
}

func (q *pulseQueue) reset() {
	q.pending = nil
	q.hasTriggered = false
	q.lastTrigger = 0
}
