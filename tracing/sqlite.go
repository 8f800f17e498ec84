package tracing

import (
	"database/sql"
	"fmt"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// SQLiteTraceWriter is a writer that writes allocation events to a SQLite
// database.
type SQLiteTraceWriter struct {
	*sql.DB
	statement *sql.Stmt

	dbName    string
	toWrite   []Event
	batchSize int
}

// NewSQLiteTraceWriter creates a new SQLiteTraceWriter. The database file is
// named path + ".sqlite3". An empty path picks a unique name. Buffered events
// are flushed when the program exits through atexit.
func NewSQLiteTraceWriter(path string) *SQLiteTraceWriter {
	w := &SQLiteTraceWriter{
		dbName:    path,
		batchSize: 10000,
	}

	atexit.Register(func() { w.Flush() })

	return w
}

// WithBatchSize sets how many events are buffered before they are written.
func (t *SQLiteTraceWriter) WithBatchSize(n int) *SQLiteTraceWriter {
	t.batchSize = n
	return t
}

// FileName returns the name of the database file.
func (t *SQLiteTraceWriter) FileName() string {
	return t.dbName + ".sqlite3"
}

// Init establishes a connection to the database and creates the trace table.
func (t *SQLiteTraceWriter) Init() {
	if t.dbName == "" {
		t.dbName = "lowlevel_trace_" + xid.New().String()
	}

	t.createDatabase()
	t.createTable()
	t.prepareStatement()
}

// Write buffers an event.
func (t *SQLiteTraceWriter) Write(e Event) {
	t.toWrite = append(t.toWrite, e)
	if len(t.toWrite) >= t.batchSize {
		t.Flush()
	}
}

// Flush writes all the buffered events to the database.
func (t *SQLiteTraceWriter) Flush() {
	if len(t.toWrite) == 0 {
		return
	}

	t.mustExecute("BEGIN TRANSACTION")
	defer t.mustExecute("COMMIT TRANSACTION")

	for _, e := range t.toWrite {
		_, err := t.statement.Exec(
			e.Seq,
			string(e.Op),
			uint64(e.ID),
			e.Owner,
			e.Kind,
			e.Bytes,
		)
		if err != nil {
			panic(err)
		}
	}

	t.toWrite = nil
}

// Close flushes the buffered events and closes the database.
func (t *SQLiteTraceWriter) Close() error {
	t.Flush()

	if err := t.statement.Close(); err != nil {
		return err
	}

	return t.DB.Close()
}

func (t *SQLiteTraceWriter) createDatabase() {
	filename := t.FileName()

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Allocation trace is collected in %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	t.DB = db
}

func (t *SQLiteTraceWriter) createTable() {
	t.mustExecute(`
		create table alloc_trace
		(
			seq      integer      not null primary key,
			op       varchar(8)   not null,
			alloc_id integer      not null,
			owner    varchar(200) not null,
			kind     varchar(100) not null,
			bytes    integer      not null
		);
	`)

	t.mustExecute(`
		create index alloc_trace_alloc_id_index
			on alloc_trace (alloc_id);
	`)

	t.mustExecute(`
		create index alloc_trace_owner_index
			on alloc_trace (owner);
	`)
}

func (t *SQLiteTraceWriter) prepareStatement() {
	stmt, err := t.Prepare(`
		insert into alloc_trace (seq, op, alloc_id, owner, kind, bytes)
		values (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		panic(err)
	}

	t.statement = stmt
}

func (t *SQLiteTraceWriter) mustExecute(query string) sql.Result {
	res, err := t.Exec(query)
	if err != nil {
		fmt.Printf("Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}
