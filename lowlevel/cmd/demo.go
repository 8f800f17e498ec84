package cmd

import (
	"fmt"
	"io"

	"github.com/sarchlab/lowlevel/chain/doubly"
	"github.com/sarchlab/lowlevel/chain/singly"
	"github.com/sarchlab/lowlevel/rawarray"
	"github.com/spf13/cobra"
)

func newDemoCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a fixed scenario over every container.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if err := s.demoArrays(out); err != nil {
				return err
			}

			if err := s.demoSingly(out); err != nil {
				return err
			}

			return s.demoDoubly(out)
		},
	}
}

func (s *session) demoArrays(out io.Writer) error {
	a, err := rawarray.MakeBuilder[float64]().
		WithName("doubles").
		WithAllocator(s.heap).
		Build(5)
	if err != nil {
		return err
	}
	defer a.Release()

	for i := 0; i < a.Len(); i++ {
		if err := a.Set(i, float64(i+1)); err != nil {
			return err
		}
	}

	cp, err := rawarray.MakeBuilder[float64]().
		WithName("doubles-copy").
		WithAllocator(s.heap).
		BuildFrom(a)
	if err != nil {
		return err
	}
	defer cp.Release()

	ints, err := rawarray.MakeBuilder[int]().
		WithName("ints").
		WithAllocator(s.heap).
		BuildFromValues(1, 2, 3, 4, 5)
	if err != nil {
		return err
	}
	defer ints.Release()

	fmt.Fprintln(out, "copy:", cp)
	fmt.Fprintln(out, "ints:", ints)

	return nil
}

func (s *session) demoSingly(out io.Writer) error {
	c := singly.MakeBuilder().
		WithName("singly").
		WithAllocator(s.heap).
		Build()
	defer c.Release()

	for v := 1; v <= 5; v++ {
		if err := c.Append(v); err != nil {
			return err
		}
	}

	if err := c.InsertAt(2, 10); err != nil {
		return err
	}

	if err := c.RemoveAt(0); err != nil {
		return err
	}

	fmt.Fprintln(out, c)

	return nil
}

func (s *session) demoDoubly(out io.Writer) error {
	c := doubly.MakeBuilder().
		WithName("doubly").
		WithAllocator(s.heap).
		Build()
	defer c.Release()

	for v := 1; v <= 5; v++ {
		if err := c.Append(v); err != nil {
			return err
		}
	}

	if err := c.RemoveAt(2); err != nil {
		return err
	}

	fmt.Fprintln(out, c)
	fmt.Fprintln(out, c.StringReversed())

	return nil
}
