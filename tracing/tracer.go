package tracing

// A Tracer collects allocation events.
type Tracer interface {
	Trace(e Event)
}

// A TraceWriter stores events, possibly buffering them.
type TraceWriter interface {
	// Write stores an event.
	Write(e Event)

	// Flush writes buffered events to the storage.
	Flush()
}

// WriterTracer numbers the events it accepts and hands them to a
// TraceWriter.
type WriterTracer struct {
	filter EventFilter
	writer TraceWriter
	seq    uint64
}

// NewWriterTracer creates a WriterTracer that keeps the events accepted by
// filter.
func NewWriterTracer(writer TraceWriter, filter EventFilter) *WriterTracer {
	if filter == nil {
		filter = AllEvents
	}

	return &WriterTracer{
		filter: filter,
		writer: writer,
	}
}

// Trace writes the event if the filter keeps it.
func (t *WriterTracer) Trace(e Event) {
	if !t.filter(e) {
		return
	}

	t.seq++
	e.Seq = t.seq
	t.writer.Write(e)
}

// MemoryTraceWriter keeps every event in memory.
type MemoryTraceWriter struct {
	events []Event
}

// NewMemoryTraceWriter creates an empty MemoryTraceWriter.
func NewMemoryTraceWriter() *MemoryTraceWriter {
	return &MemoryTraceWriter{}
}

// Write appends the event.
func (w *MemoryTraceWriter) Write(e Event) {
	w.events = append(w.events, e)
}

// Flush does nothing.
func (w *MemoryTraceWriter) Flush() {}

// Events returns the events written so far.
func (w *MemoryTraceWriter) Events() []Event {
	return w.events
}
