package wizard

import (
	"errors"
	"fmt"
	"strings"
)

// User-facing messages.
const (
	MsgMissingProgramOrInterest = "Please fill in both the study program and the topic of interest first."
	MsgNoTitles                 = "The AI could not generate titles from the given input. Try a more specific topic."
	MsgSelectTitleFirst         = "Please select a title first."
	MsgGenerateProblemsFirst    = "Please generate the problem statements first."
	MsgInvalidSelection         = "That title number is not in the list."
	MsgBusy                     = "A generation is already in progress. Please wait for it to finish."
)

// userError carries a message meant for the user verbatim.
type userError string

func (e userError) Error() string { return string(e) }

// State is everything the wizard knows. It is a value: Dispatch returns a
// new State and never mutates its argument's slices.
type State struct {
	Program       string
	Interest      string
	Titles        []string
	SelectedTitle string
	Problems      string
	Outline       string

	// Busy is true while a generation requested by Dispatch is in flight.
	Busy bool
	// Pending is the step whose generation is in flight.
	Pending StepType
}

// CanGenerateProblems reports whether the problems step may start.
func (s State) CanGenerateProblems() bool {
	return !s.Busy && s.SelectedTitle != ""
}

// CanGenerateOutline reports whether the outline step may start.
func (s State) CanGenerateOutline() bool {
	return !s.Busy && s.SelectedTitle != "" && s.Problems != ""
}

// Command is a user action or a generation outcome.
type Command interface {
	command()
}

// GenerateTitles starts step one.
type GenerateTitles struct {
	Program  string
	Interest string
}

// TitlesGenerated delivers the text produced for step one.
type TitlesGenerated struct{ Text string }

// SelectTitle picks one of the parsed titles by zero-based index.
type SelectTitle struct{ Index int }

// GenerateProblems starts step two for the selected title.
type GenerateProblems struct{}

// ProblemsGenerated delivers the text produced for step two.
type ProblemsGenerated struct{ Text string }

// GenerateOutline starts step three.
type GenerateOutline struct{}

// OutlineGenerated delivers the text produced for step three.
type OutlineGenerated struct{ Text string }

// GenerationFailed reports the final failure of a step's generation.
type GenerationFailed struct {
	Step StepType
	Err  error
}

func (GenerateTitles) command()    {}
func (TitlesGenerated) command()   {}
func (SelectTitle) command()       {}
func (GenerateProblems) command()  {}
func (ProblemsGenerated) command() {}
func (GenerateOutline) command()   {}
func (OutlineGenerated) command()  {}
func (GenerationFailed) command()  {}

// Effect is what the caller must do after a Dispatch.
type Effect interface {
	effect()
}

// RequestGeneration asks the caller to generate text for Prompt and feed
// the outcome back as the step's completion command or GenerationFailed.
type RequestGeneration struct {
	Step   StepType
	Label  string
	Prompt string
}

// ShowError asks the caller to show Message next to Step.
type ShowError struct {
	Step    StepType
	Message string
}

// ShowResult asks the caller to render the state of Step.
type ShowResult struct{ Step StepType }

// None means there is nothing to do.
type None struct{}

func (RequestGeneration) effect() {}
func (ShowError) effect()         {}
func (ShowResult) effect()        {}
func (None) effect()              {}

var defaultSteps = DefaultRegistry()

// Dispatch applies cmd to state. It is pure: no I/O, no clock, and the
// input state is never modified.
func Dispatch(state State, cmd Command) (State, Effect) {
	switch c := cmd.(type) {
	case GenerateTitles:
		next := state
		next.Program = SanitizeInput(c.Program)
		next.Interest = SanitizeInput(c.Interest)
		return start(state, next, StepTitles)

	case TitlesGenerated:
		if !completes(state, StepTitles) {
			return state, None{}
		}
		next := finish(state)
		titles, err := ParseTitles(c.Text)
		if err != nil {
			return next, ShowError{Step: StepTitles, Message: MsgNoTitles}
		}
		next.Titles = titles
		next.SelectedTitle = ""
		next.Problems = ""
		next.Outline = ""
		return next, ShowResult{Step: StepTitles}

	case SelectTitle:
		if c.Index < 0 || c.Index >= len(state.Titles) {
			return state, ShowError{Step: StepTitles, Message: MsgInvalidSelection}
		}
		next := state
		if next.SelectedTitle != state.Titles[c.Index] {
			next.Problems = ""
			next.Outline = ""
		}
		next.SelectedTitle = state.Titles[c.Index]
		return next, ShowResult{Step: StepProblems}

	case GenerateProblems:
		return start(state, state, StepProblems)

	case ProblemsGenerated:
		if !completes(state, StepProblems) {
			return state, None{}
		}
		next := finish(state)
		next.Problems = c.Text
		next.Outline = ""
		return next, ShowResult{Step: StepProblems}

	case GenerateOutline:
		return start(state, state, StepOutline)

	case OutlineGenerated:
		if !completes(state, StepOutline) {
			return state, None{}
		}
		next := finish(state)
		next.Outline = c.Text
		return next, ShowResult{Step: StepOutline}

	case GenerationFailed:
		if !completes(state, c.Step) {
			return state, None{}
		}
		return finish(state), ShowError{Step: c.Step, Message: failureMessage(c.Step, c.Err)}

	default:
		return state, None{}
	}
}

// start validates inputs in next and, if they are complete, marks the step
// as in flight. On any refusal the original state is returned.
func start(state, next State, step StepType) (State, Effect) {
	if state.Busy {
		return state, ShowError{Step: step, Message: MsgBusy}
	}

	def := defaultSteps.MustGet(step)
	prompt, err := def.Prompt(next)
	if err != nil {
		var msg userError
		if errors.As(err, &msg) {
			return state, ShowError{Step: step, Message: msg.Error()}
		}
		return state, ShowError{Step: step, Message: err.Error()}
	}

	next.Busy = true
	next.Pending = step
	return next, RequestGeneration{Step: step, Label: def.Label, Prompt: prompt}
}

// completes reports whether a result for step is the one being waited on.
// Stale or unexpected results are ignored.
func completes(state State, step StepType) bool {
	return state.Busy && state.Pending == step
}

func finish(state State) State {
	next := state
	next.Busy = false
	next.Pending = ""
	return next
}

func failureMessage(step StepType, err error) string {
	reason := "unknown error"
	if err != nil {
		reason = strings.TrimSuffix(err.Error(), ".")
	}
	msg := fmt.Sprintf("Failed to contact the AI: %s.", reason)
	if step == StepTitles {
		msg += " Please try again later."
	}
	return msg
}
