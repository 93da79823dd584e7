// Package filter drives a matcher over acquired input and writes the
// surviving text.
package filter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/Veraticus/rechain/pkg/acquire"
	"github.com/Veraticus/rechain/pkg/interfaces"
)

// Stats summarizes a run.
type Stats struct {
	Candidates int
	Matched    int
}

// Runner writes every candidate that survives the matcher to out.
type Runner struct {
	matcher interfaces.Matcher
	out     io.Writer
	logger  *zap.Logger
}

// NewRunner creates a runner. A nil logger disables logging.
func NewRunner(m interfaces.Matcher, out io.Writer, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		matcher: m,
		out:     out,
		logger:  logger,
	}
}

// Run filters in according to its split mode. Without any stages the text is
// written verbatim. Each record is written as soon as it is matched, so lines
// written before a write error or cancellation stay written. ctx is checked
// before every record.
func (r *Runner) Run(ctx context.Context, in acquire.Input) (Stats, error) {
	var stats Stats

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	if r.matcher.Len() == 0 {
		stats.Candidates, stats.Matched = 1, 1
		return stats, r.emit(in.Text)
	}

	switch in.Mode {
	case acquire.WholeDocument:
		stats.Candidates = 1
		if out, ok := r.matcher.Match(in.Text); ok {
			stats.Matched = 1
			if err := r.emit(out); err != nil {
				return stats, err
			}
		}

	case acquire.LineByLine:
		// Split on '\n' only: a trailing newline yields a final empty line
		// and '\r' stays part of the line.
		for _, line := range strings.Split(in.Text, "\n") {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			stats.Candidates++
			out, ok := r.matcher.Match(line)
			if !ok {
				continue
			}
			stats.Matched++
			if err := r.emit(out); err != nil {
				return stats, err
			}
		}

	default:
		return stats, fmt.Errorf("unknown split mode %v", in.Mode)
	}

	r.logger.Debug("filter finished",
		zap.String("source", in.Source),
		zap.Stringer("mode", in.Mode),
		zap.Int("candidates", stats.Candidates),
		zap.Int("matched", stats.Matched),
	)
	return stats, nil
}

func (r *Runner) emit(text string) error {
	if _, err := io.WriteString(r.out, text+"\n"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
