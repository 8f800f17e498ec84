package cmd

import (
	"fmt"
	"io"

	"github.com/sarchlab/lowlevel/chain/doubly"
	"github.com/sarchlab/lowlevel/chain/singly"
	"github.com/spf13/cobra"
	"github.com/syifan/goseth"
)

const opsHelp = `Each op is one of:
  a:V      append V
  i:IDX:V  insert V at IDX
  r:IDX    remove the node at IDX`

func newSinglyCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "singly OP...",
		Short: "Apply ops to a singly linked chain and print it.",
		Long:  opsHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := parseOps(args)
			if err != nil {
				return err
			}

			c := singly.MakeBuilder().
				WithName("singly").
				WithAllocator(s.heap).
				Build()
			defer c.Release()

			if err := applyOps(c, ops, s.opts.check); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, c)

			return s.dumpIfRequested(out, c)
		},
	}
}

func newDoublyCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "doubly OP...",
		Short: "Apply ops to a doubly linked chain and print it both ways.",
		Long:  opsHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := parseOps(args)
			if err != nil {
				return err
			}

			c := doubly.MakeBuilder().
				WithName("doubly").
				WithAllocator(s.heap).
				Build()
			defer c.Release()

			if err := applyOps(c, ops, s.opts.check); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, c)
			fmt.Fprintln(out, c.StringReversed())

			return s.dumpIfRequested(out, c)
		},
	}
}

func (s *session) dumpIfRequested(w io.Writer, root any) error {
	if !s.opts.dump {
		return nil
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(root)
	serializer.SetMaxDepth(4)

	if err := serializer.Serialize(w); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w)

	return err
}
