package chain

// Chain is an immutable, ordered sequence of stages.
type Chain struct {
	stages []Stage
}

// Compile builds a chain from patterns in the order given. The first pattern
// that fails to compile aborts with a *CompileError.
func Compile(patterns []string) (*Chain, error) {
	stages := make([]Stage, 0, len(patterns))
	for i, p := range patterns {
		stage, err := NewStage(p)
		if err != nil {
			return nil, &CompileError{Index: i, Pattern: p, Err: err}
		}
		stages = append(stages, stage)
	}
	return &Chain{stages: stages}, nil
}

// Match runs text through every stage. Each stage must find a match
// somewhere in its candidate; narrowing stages hand their "out" capture to
// the next stage, the others pass the candidate through unchanged. The
// result is the final candidate, or false as soon as a stage misses.
//
// An empty chain matches everything.
func (c *Chain) Match(text string) (string, bool) {
	candidate := text
	for _, stage := range c.stages {
		next, ok := stage.apply(candidate)
		if !ok {
			return "", false
		}
		candidate = next
	}
	return candidate, true
}

// Len returns the number of stages.
func (c *Chain) Len() int {
	return len(c.stages)
}

// Stages returns a copy of the stages in order.
func (c *Chain) Stages() []Stage {
	return append([]Stage(nil), c.stages...)
}
