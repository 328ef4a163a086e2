// Package confirm asks the practitioner before destructive requests.
package confirm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Confirmer decides whether a destructive action may proceed.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// Func adapts a function to Confirmer.
type Func func(ctx context.Context, question string) (bool, error)

func (f Func) Confirm(ctx context.Context, question string) (bool, error) {
	return f(ctx, question)
}

// Always answers every question with the same value. The HTTP surface uses
// it to map ?confirm=true.
func Always(answer bool) Confirmer {
	return Func(func(context.Context, string) (bool, error) {
		return answer, nil
	})
}

// Prompt asks on Out and reads a yes/no answer from In.
type Prompt struct {
	In  io.Reader
	Out io.Writer
}

func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{In: in, Out: out}
}

func (p *Prompt) Confirm(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if p.Out != nil {
		if _, err := fmt.Fprintf(p.Out, "%s [s/N]: ", question); err != nil {
			return false, fmt.Errorf("confirm: write prompt: %w", err)
		}
	}
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("confirm: read answer: %w", err)
	}
	return IsYes(line), nil
}

// IsYes accepts s, si, sí, y and yes in any case.
func IsYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "si", "sí", "y", "yes":
		return true
	default:
		return false
	}
}
