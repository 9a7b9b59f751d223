package util

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
)

// CarverArgs builds the positional arguments of a carver invocation:
// <input> <output> <num_seams> [<trials>]. A trial count below one is
// left off.
func CarverArgs(input, output string, seams, trials int) []string {
	args := []string{input, output, strconv.Itoa(seams)}
	if trials > 0 {
		args = append(args, strconv.Itoa(trials))
	}
	return args
}

// RunCarver runs a carver binary and returns what it wrote to stderr.
// Stdout is discarded so it can never leak into the CSV stream. The
// stderr captured so far is returned even when the program fails.
func RunCarver(binary string, args ...string) (string, error) {
	cmd := exec.Command(binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stderr.String(), fmt.Errorf("run %s: %w", binary, err)
	}
	return stderr.String(), nil
}
