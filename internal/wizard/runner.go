package wizard

import (
	"context"
	"fmt"
	"strings"
)

// Generator produces text for a prompt, retrying as it sees fit.
// *generation.Orchestrator implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxRetries int) (string, error)
}

// Runner feeds commands through Dispatch and performs RequestGeneration
// effects with a Generator. It is used by the CLI; a Runner is owned by one
// goroutine.
type Runner struct {
	gen        Generator
	maxRetries int
	state      State
	onEffect   func(Effect)
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithInitialState seeds the runner, e.g. with a title given on the command
// line.
func WithInitialState(s State) RunnerOption {
	return func(r *Runner) { r.state = s }
}

// WithEffectHook is called for every effect, including intermediate
// RequestGeneration effects. The CLI uses it to print progress.
func WithEffectHook(fn func(Effect)) RunnerOption {
	return func(r *Runner) { r.onEffect = fn }
}

// NewRunner creates a Runner.
func NewRunner(gen Generator, maxRetries int, opts ...RunnerOption) *Runner {
	r := &Runner{gen: gen, maxRetries: maxRetries}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current wizard state.
func (r *Runner) State() State {
	return r.state
}

// Run dispatches cmd and, while the result is a RequestGeneration, performs
// the generation and dispatches its outcome. It returns the final effect.
func (r *Runner) Run(ctx context.Context, cmd Command) Effect {
	var effect Effect
	r.state, effect = Dispatch(r.state, cmd)
	r.emit(effect)

	for {
		req, ok := effect.(RequestGeneration)
		if !ok {
			return effect
		}

		text, err := r.gen.Generate(ctx, req.Prompt, r.maxRetries)

		var next Command
		if err != nil {
			next = GenerationFailed{Step: req.Step, Err: err}
		} else {
			next = defaultSteps.MustGet(req.Step).Complete(text)
		}

		r.state, effect = Dispatch(r.state, next)
		r.emit(effect)
	}
}

func (r *Runner) emit(effect Effect) {
	if r.onEffect != nil {
		r.onEffect(effect)
	}
}

// Describe renders an effect for a terminal.
func Describe(effect Effect, state State) string {
	switch e := effect.(type) {
	case RequestGeneration:
		return e.Label
	case ShowError:
		return "Error: " + e.Message
	case ShowResult:
		switch e.Step {
		case StepTitles:
			return formatTitles(state.Titles)
		case StepProblems:
			if state.Problems == "" {
				return fmt.Sprintf("Selected title: %s", state.SelectedTitle)
			}
			return state.Problems
		case StepOutline:
			return state.Outline
		}
	}
	return ""
}

func formatTitles(titles []string) string {
	var out strings.Builder
	out.WriteString("Choose one of the title ideas:\n")
	for i, title := range titles {
		fmt.Fprintf(&out, "%d. %s\n", i+1, title)
	}
	return out.String()
}
