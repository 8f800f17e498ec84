package tracing

import (
	"fmt"
	"os"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// CSVTraceWriter stores allocation events into a CSV file.
type CSVTraceWriter struct {
	path string
	file *os.File

	events     []Event
	bufferSize int
}

// NewCSVTraceWriter creates a new CSVTraceWriter. The file is named
// path + ".csv". An empty path picks a unique name.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	return &CSVTraceWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// FileName returns the name of the CSV file.
func (t *CSVTraceWriter) FileName() string {
	return t.path + ".csv"
}

// Init creates the CSV file and writes the header. It panics if the file
// already exists.
func (t *CSVTraceWriter) Init() {
	if t.path == "" {
		t.path = "lowlevel_trace_" + xid.New().String()
	}

	filename := t.FileName()
	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	t.file = file

	fmt.Fprintf(file, "Seq, Op, ID, Owner, Kind, Bytes\n")

	atexit.Register(func() {
		_ = t.Close()
	})
}

// Write buffers an event.
func (t *CSVTraceWriter) Write(e Event) {
	t.events = append(t.events, e)
	if len(t.events) >= t.bufferSize {
		t.Flush()
	}
}

// Flush writes the buffered events to the CSV file.
func (t *CSVTraceWriter) Flush() {
	for _, e := range t.events {
		fmt.Fprintf(t.file, "%d, %s, %d, %s, %s, %d\n",
			e.Seq,
			e.Op,
			e.ID,
			e.Owner,
			e.Kind,
			e.Bytes,
		)
	}

	t.events = nil
}

// Close flushes the buffered events and closes the file. Calling Close more
// than once has no effect.
func (t *CSVTraceWriter) Close() error {
	if t.file == nil {
		return nil
	}

	t.Flush()

	err := t.file.Close()
	t.file = nil

	return err
}
