// Package wizard implements the three-step thesis wizard: title ideas, then
// problem statements for a chosen title, then a chapter 1 outline.
package wizard

import (
	"fmt"
	"sync"
)

// StepType identifies a wizard step.
type StepType string

// Supported wizard steps, in order.
const (
	StepTitles   StepType = "titles"
	StepProblems StepType = "problems"
	StepOutline  StepType = "outline"
)

// Step bundles what the dispatcher needs to run one wizard step.
type Step struct {
	Type StepType
	// Label is shown to the user while the step is generating.
	Label string
	// Prompt builds the generation prompt from the wizard state. It fails
	// with a user-facing message when a required input is missing.
	Prompt func(State) (string, error)
	// Complete turns generated text into the step's completion command.
	Complete func(text string) Command
}

// Registry holds the wizard steps.
// It provides thread-safe access to step definitions.
type Registry struct {
	mu    sync.RWMutex
	steps map[StepType]*Step
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		steps: make(map[StepType]*Step),
	}
}

// Register adds a step to the registry.
// If a step with the same type already exists, it will be overwritten.
func (r *Registry) Register(step *Step) error {
	if step == nil {
		return fmt.Errorf("cannot register nil step")
	}
	if step.Type == "" {
		return fmt.Errorf("step type cannot be empty")
	}
	if step.Prompt == nil {
		return fmt.Errorf("step prompt builder cannot be nil")
	}
	if step.Complete == nil {
		return fmt.Errorf("step completion cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.steps[step.Type] = step
	return nil
}

// Get retrieves a step by type.
// Returns nil and false if the step type is not registered.
func (r *Registry) Get(stepType StepType) (*Step, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	step, ok := r.steps[stepType]
	return step, ok
}

// MustGet retrieves a step by type or panics if not found.
func (r *Registry) MustGet(stepType StepType) *Step {
	step, ok := r.Get(stepType)
	if !ok {
		panic(fmt.Sprintf("wizard step %q not registered", stepType))
	}
	return step
}

// Has checks if a step type is registered.
func (r *Registry) Has(stepType StepType) bool {
	_, ok := r.Get(stepType)
	return ok
}

// List returns the registered step types in wizard order.
func (r *Registry) List() []StepType {
	types := make([]StepType, 0, len(ValidStepTypes()))
	for _, t := range ValidStepTypes() {
		if r.Has(t) {
			types = append(types, t)
		}
	}
	return types
}

// ValidStepTypes returns the wizard steps in order.
func ValidStepTypes() []StepType {
	return []StepType{StepTitles, StepProblems, StepOutline}
}

// ParseStepType converts a string to StepType.
func ParseStepType(s string) (StepType, error) {
	for _, t := range ValidStepTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid wizard step: %q (valid steps: %v)", s, ValidStepTypes())
}

// DefaultRegistry returns a registry with the three standard steps.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	for _, step := range []*Step{
		{
			Type:  StepTitles,
			Label: "AI is drafting title ideas for you...",
			Prompt: func(s State) (string, error) {
				if s.Program == "" || s.Interest == "" {
					return "", userError(MsgMissingProgramOrInterest)
				}
				return BuildTitlesPrompt(s.Program, s.Interest), nil
			},
			Complete: func(text string) Command { return TitlesGenerated{Text: text} },
		},
		{
			Type:  StepProblems,
			Label: "AI is formulating problem statements from your chosen title...",
			Prompt: func(s State) (string, error) {
				if s.SelectedTitle == "" {
					return "", userError(MsgSelectTitleFirst)
				}
				return BuildProblemsPrompt(s.SelectedTitle), nil
			},
			Complete: func(text string) Command { return ProblemsGenerated{Text: text} },
		},
		{
			Type:  StepOutline,
			Label: "Final step! AI is drafting the chapter 1 outline...",
			Prompt: func(s State) (string, error) {
				if s.SelectedTitle == "" {
					return "", userError(MsgSelectTitleFirst)
				}
				if s.Problems == "" {
					return "", userError(MsgGenerateProblemsFirst)
				}
				return BuildOutlinePrompt(s.SelectedTitle, s.Problems), nil
			},
			Complete: func(text string) Command { return OutlineGenerated{Text: text} },
		},
	} {
		// The steps above are complete, so Register cannot fail.
		_ = r.Register(step)
	}

	return r
}
