// Package cmd provides the command-line interface for lowlevel.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sarchlab/lowlevel/mem"
	"github.com/sarchlab/lowlevel/tracing"
	"github.com/shirou/gopsutil/process"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// Environment variables read after loading .env. Flags take precedence.
const (
	envTraceDB  = "LOWLEVEL_TRACE_DB"
	envTraceCSV = "LOWLEVEL_TRACE_CSV"
	envVerbose  = "LOWLEVEL_VERBOSE"
)

type options struct {
	traceDB   string
	traceCSV  string
	verbose   bool
	memReport bool
	dump      bool
	check     bool
}

// session holds what every subcommand shares: one heap that all containers
// report to, and the tracers attached to it.
type session struct {
	opts      options
	heap      *mem.Heap
	dbWriter  *tracing.SQLiteTraceWriter
	csvWriter *tracing.CSVTraceWriter
}

// NewRootCommand creates the lowlevel command with all its subcommands.
func NewRootCommand() *cobra.Command {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "lowlevel",
		Short: "Exercise manually managed arrays and linked chains.",
		Long: `lowlevel builds raw arrays and singly or doubly linked chains, ` +
			`applies the requested operations, and prints the result. Every ` +
			`allocation is accounted for, and the command fails if anything ` +
			`is still allocated when it finishes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.start(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&s.opts.traceDB, "trace-db", "",
		"record every allocation into the given SQLite database")
	flags.StringVar(&s.opts.traceCSV, "trace-csv", "",
		"record every allocation into the given CSV file")
	flags.BoolVarP(&s.opts.verbose, "verbose", "v", false,
		"log every allocation and free to stderr")
	flags.BoolVar(&s.opts.memReport, "mem-report", false,
		"print the resident memory of the process when done")
	flags.BoolVar(&s.opts.dump, "dump", false,
		"dump the internal layout of the container as JSON")
	flags.BoolVar(&s.opts.check, "check", false,
		"validate chain links after every operation")

	rootCmd.AddCommand(
		newArrayCommand(s),
		newSinglyCommand(s),
		newDoublyCommand(s),
		newDemoCommand(s),
	)

	// Cobra skips post-run hooks when RunE fails, so each command finishes
	// the session itself.
	for _, sub := range rootCmd.Commands() {
		sub.RunE = s.finishing(sub.RunE)
	}

	return rootCmd
}

// Execute runs the root command and exits the process, running the handlers
// registered with atexit.
func Execute() {
	err := NewRootCommand().Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func (s *session) start(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	if err := s.applyEnv(cmd); err != nil {
		return err
	}

	s.heap = mem.NewHeap("lowlevel")

	if s.opts.verbose {
		logger := log.New(cmd.ErrOrStderr(), "[lowlevel] ", 0)
		s.heap.AcceptHook(tracing.NewAllocLogger(logger))
	}

	if s.opts.traceDB != "" {
		s.dbWriter = tracing.NewSQLiteTraceWriter(s.opts.traceDB)
		s.dbWriter.Init()
		tracing.CollectTrace(s.heap, tracing.NewWriterTracer(s.dbWriter, nil))
	}

	if s.opts.traceCSV != "" {
		s.csvWriter = tracing.NewCSVTraceWriter(s.opts.traceCSV)
		s.csvWriter.Init()
		tracing.CollectTrace(s.heap, tracing.NewWriterTracer(s.csvWriter, nil))
	}

	return nil
}

func (s *session) applyEnv(cmd *cobra.Command) error {
	flags := cmd.Flags()

	if v, ok := os.LookupEnv(envTraceDB); ok && !flags.Changed("trace-db") {
		s.opts.traceDB = v
	}

	if v, ok := os.LookupEnv(envTraceCSV); ok && !flags.Changed("trace-csv") {
		s.opts.traceCSV = v
	}

	if v, ok := os.LookupEnv(envVerbose); ok && !flags.Changed("verbose") {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envVerbose, err)
		}

		s.opts.verbose = verbose
	}

	return nil
}

// finishing wraps run so that the session is finished whether or not run
// succeeds. Errors from both are returned.
func (s *session) finishing(
	run func(cmd *cobra.Command, args []string) error,
) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)

		return errors.Join(err, s.finish(cmd))
	}
}

func (s *session) finish(cmd *cobra.Command) error {
	if s.dbWriter != nil {
		if err := s.dbWriter.Close(); err != nil {
			return err
		}
	}

	if s.csvWriter != nil {
		if err := s.csvWriter.Close(); err != nil {
			return err
		}
	}

	if s.opts.memReport {
		if err := s.reportMemory(cmd); err != nil {
			return err
		}
	}

	return s.heap.MustBeEmpty()
}

func (s *session) reportMemory(cmd *cobra.Command) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	info, err := p.MemoryInfo()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "rss=%d vms=%d %s\n",
		info.RSS, info.VMS, s.heap.Stats())

	return nil
}
