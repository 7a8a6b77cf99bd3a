package cmd

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// indexes parses positional arguments as zero-based indexes.
func indexes(args ...string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q is not an index", a)
		}
		out[i] = n
	}
	return out, nil
}
