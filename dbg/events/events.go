package events

import (
	"container/heap"
	"log/slog"
)

// EventType represents the different types of events in the machine
type EventType int

const (
	TimerIRQ EventType = iota
	KeyboardIRQ
	Custom
)

func (t EventType) String() string {
	switch t {
	case TimerIRQ:
		return "TimerIRQ"
	case KeyboardIRQ:
		return "KeyboardIRQ"
	case Custom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// Event represents a scheduled event
type Event struct {
	Tick      uint64      // Absolute tick when this event should fire
	EventType EventType   // Type of event
	Data      interface{} // Optional event-specific data

	seq uint64
}

// Handler processes a due event.
type Handler func(Event)

// Scheduler manages the tick-ordered event queue. Events due on the same tick
// fire in the order they were scheduled.
type Scheduler struct {
	queue       eventQueue
	handlers    map[EventType]Handler
	currentTick uint64
	nextSeq     uint64
	running     bool
}

// NewScheduler creates a new event scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{
		handlers: make(map[EventType]Handler),
	}
}

// Handle sets the handler for an event type, replacing any previous one.
func (s *Scheduler) Handle(eventType EventType, h Handler) {
	s.handlers[eventType] = h
}

// Schedule adds an event to the event queue
func (s *Scheduler) Schedule(eventType EventType, tick uint64, data interface{}) {
	if !s.running {
		return
	}

	heap.Push(&s.queue, Event{
		Tick:      tick,
		EventType: eventType,
		Data:      data,
		seq:       s.nextSeq,
	})
	s.nextSeq++
}

// ScheduleRelative schedules an event relative to the current tick
func (s *Scheduler) ScheduleRelative(eventType EventType, ticksFromNow uint64, data interface{}) {
	s.Schedule(eventType, s.currentTick+ticksFromNow, data)
}

// Advance moves the clock forward one tick and dispatches every event that
// is now due. It returns the number of events processed.
func (s *Scheduler) Advance() int {
	if !s.running {
		return 0
	}

	s.currentTick++

	processed := 0
	for s.queue.Len() > 0 && s.queue[0].Tick <= s.currentTick {
		event := heap.Pop(&s.queue).(Event)
		processed++

		h, ok := s.handlers[event.EventType]
		if !ok {
			slog.Warn("Unknown event type", "type", event.EventType, "tick", event.Tick)
			continue
		}
		h(event)
	}
	return processed
}

// Start begins event processing
func (s *Scheduler) Start() {
	s.running = true
}

// Stop halts event processing and drains the queue
func (s *Scheduler) Stop() {
	s.running = false
	s.queue = s.queue[:0]
}

// CurrentTick returns the current tick count
func (s *Scheduler) CurrentTick() uint64 {
	return s.currentTick
}

// EventCount returns the number of pending events
func (s *Scheduler) EventCount() int {
	return s.queue.Len()
}

type eventQueue []Event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].Tick != q[j].Tick {
		return q[i].Tick < q[j].Tick
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x interface{}) {
	*q = append(*q, x.(Event))
}

func (q *eventQueue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}
