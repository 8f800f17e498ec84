package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// chain is what the singly and doubly commands need from a chain.
type chain interface {
	Append(value int) error
	InsertAt(index, value int) error
	RemoveAt(index int) error
	Validate() error
}

type opKind byte

const (
	opAppend opKind = 'a'
	opInsert opKind = 'i'
	opRemove opKind = 'r'
)

type op struct {
	kind  opKind
	index int
	value int
}

// parseOp parses "a:V", "i:IDX:V" or "r:IDX".
func parseOp(s string) (op, error) {
	fields := strings.Split(s, ":")

	nums := make([]int, 0, 2)
	for _, f := range fields[1:] {
		n, err := strconv.Atoi(f)
		if err != nil {
			return op{}, fmt.Errorf("op %q: %w", s, err)
		}

		nums = append(nums, n)
	}

	switch {
	case fields[0] == "a" && len(nums) == 1:
		return op{kind: opAppend, value: nums[0]}, nil
	case fields[0] == "i" && len(nums) == 2:
		return op{kind: opInsert, index: nums[0], value: nums[1]}, nil
	case fields[0] == "r" && len(nums) == 1:
		return op{kind: opRemove, index: nums[0]}, nil
	}

	return op{}, fmt.Errorf("op %q: expected a:V, i:IDX:V or r:IDX", s)
}

func parseOps(args []string) ([]op, error) {
	ops := make([]op, 0, len(args))

	for _, a := range args {
		o, err := parseOp(a)
		if err != nil {
			return nil, err
		}

		ops = append(ops, o)
	}

	return ops, nil
}

func applyOps(c chain, ops []op, check bool) error {
	for _, o := range ops {
		var err error

		switch o.kind {
		case opAppend:
			err = c.Append(o.value)
		case opInsert:
			err = c.InsertAt(o.index, o.value)
		case opRemove:
			err = c.RemoveAt(o.index)
		}

		if err != nil {
			return err
		}

		if check {
			if err := c.Validate(); err != nil {
				return err
			}
		}
	}

	return nil
}
