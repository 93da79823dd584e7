// Package chain implements sequential regex narrowing: an ordered list of
// patterns where each one either gates the candidate text or replaces it
// with the contents of its "out" capture group.
package chain

import (
	"fmt"
	"regexp"
)

// OutputGroup is the capture group name that narrows the candidate text.
const OutputGroup = "out"

// Stage is one compiled pattern in a chain.
type Stage struct {
	Pattern string
	Narrows bool

	re  *regexp.Regexp
	out int
}

// NewStage compiles pattern and records whether it declares the output group.
func NewStage(pattern string) (Stage, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Stage{}, err
	}

	out := re.SubexpIndex(OutputGroup)
	return Stage{
		Pattern: pattern,
		Narrows: out > 0,
		re:      re,
		out:     out,
	}, nil
}

// apply runs the stage against candidate and returns the text the next
// stage should see.
func (s Stage) apply(candidate string) (string, bool) {
	loc := s.re.FindStringSubmatchIndex(candidate)
	if loc == nil {
		return "", false
	}
	if !s.Narrows {
		return candidate, true
	}

	// Group exists but sat in a branch the match did not take.
	start, end := loc[2*s.out], loc[2*s.out+1]
	if start < 0 {
		return "", false
	}
	return candidate[start:end], true
}

// CompileError reports a pattern that failed to compile.
type CompileError struct {
	Index   int
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("invalid regex #%d %q: %v", e.Index+1, e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
