package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/lowlevel/rawarray"
	"github.com/spf13/cobra"
)

func newArrayCommand(s *session) *cobra.Command {
	var (
		length int
		sets   []string
		copied bool
	)

	cmd := &cobra.Command{
		Use:   "array",
		Short: "Build a raw array of float64, set elements, and print it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := rawarray.MakeBuilder[float64]().
				WithName("array").
				WithAllocator(s.heap).
				Build(length)
			if err != nil {
				return err
			}
			defer a.Release()

			for _, set := range sets {
				index, value, err := parseSet(set)
				if err != nil {
					return err
				}

				if err := a.Set(index, value); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()

			if !copied {
				fmt.Fprintln(out, a)
				return s.dumpIfRequested(out, a)
			}

			cp, err := rawarray.MakeBuilder[float64]().
				WithName("array-copy").
				WithAllocator(s.heap).
				BuildFrom(a)
			if err != nil {
				return err
			}
			defer cp.Release()

			fmt.Fprintln(out, cp)

			return s.dumpIfRequested(out, cp)
		},
	}

	cmd.Flags().IntVarP(&length, "len", "n", 0, "length of the array")
	cmd.Flags().StringArrayVar(&sets, "set", nil,
		"set an element, as INDEX=VALUE; may be repeated")
	cmd.Flags().BoolVar(&copied, "copy", false,
		"print a copy of the array instead of the array itself")

	return cmd
}

func parseSet(s string) (int, float64, error) {
	indexStr, valueStr, ok := strings.Cut(s, "=")
	if !ok {
		return 0, 0, fmt.Errorf("set %q: expected INDEX=VALUE", s)
	}

	index, err := strconv.Atoi(indexStr)
	if err != nil {
		return 0, 0, fmt.Errorf("set %q: %w", s, err)
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("set %q: %w", s, err)
	}

	return index, value, nil
}
