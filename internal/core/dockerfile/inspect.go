package dockerfile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/moby/buildkit/frontend/dockerfile/parser"
)

// ErrEmptyInput is returned when there is nothing to inspect.
var ErrEmptyInput = errors.New("dockerfile is empty")

// Instruction is one parsed Dockerfile instruction.
type Instruction struct {
	Command  string // upper-case keyword, e.g. "RUN"
	Original string // the instruction as written, continuations joined
	Line     int
}

// Summary describes a rendered Dockerfile.
type Summary struct {
	BaseImage    string
	Instructions []Instruction
}

// Commands returns the instruction keywords in order.
func (s *Summary) Commands() []string {
	out := make([]string, 0, len(s.Instructions))
	for _, in := range s.Instructions {
		out = append(out, in.Command)
	}
	return out
}

// Inspect parses content with the BuildKit Dockerfile parser. It does not
// resolve images or evaluate build arguments.
func Inspect(content string) (*Summary, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyInput
	}

	result, err := parser.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse dockerfile: %w", err)
	}

	summary := &Summary{}
	for _, node := range result.AST.Children {
		in := Instruction{
			Command:  strings.ToUpper(node.Value),
			Original: node.Original,
			Line:     node.StartLine,
		}
		if in.Command == "FROM" && summary.BaseImage == "" && node.Next != nil {
			summary.BaseImage = node.Next.Value
		}
		summary.Instructions = append(summary.Instructions, in)
	}
	return summary, nil
}
