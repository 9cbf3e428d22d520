package wizard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_GenerateTitles(t *testing.T) {
	tests := []struct {
		name       string
		state      State
		cmd        GenerateTitles
		wantEffect Effect
		wantBusy   bool
	}{
		{
			name:       "missing program",
			cmd:        GenerateTitles{Program: "  ", Interest: "AI"},
			wantEffect: ShowError{Step: StepTitles, Message: MsgMissingProgramOrInterest},
		},
		{
			name:       "missing interest",
			cmd:        GenerateTitles{Program: "Informatics"},
			wantEffect: ShowError{Step: StepTitles, Message: MsgMissingProgramOrInterest},
		},
		{
			name:       "busy",
			state:      State{Busy: true, Pending: StepProblems},
			cmd:        GenerateTitles{Program: "Informatics", Interest: "AI"},
			wantEffect: ShowError{Step: StepTitles, Message: MsgBusy},
			wantBusy:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, effect := Dispatch(tt.state, tt.cmd)
			assert.Equal(t, tt.wantEffect, effect)
			assert.Equal(t, tt.state, next, "refused commands leave the state unchanged")
			assert.Equal(t, tt.wantBusy, next.Busy)
		})
	}

	t.Run("starts generation", func(t *testing.T) {
		next, effect := Dispatch(State{}, GenerateTitles{Program: " Informatics ", Interest: "machine learning"})

		req, ok := effect.(RequestGeneration)
		require.True(t, ok, "effect = %#v", effect)
		assert.Equal(t, StepTitles, req.Step)
		assert.Contains(t, req.Prompt, `"Informatics"`)
		assert.Contains(t, req.Prompt, `"machine learning"`)
		assert.True(t, next.Busy)
		assert.Equal(t, StepTitles, next.Pending)
		assert.Equal(t, "Informatics", next.Program)
	})
}

func TestDispatch_FullFlow(t *testing.T) {
	state, effect := Dispatch(State{}, GenerateTitles{Program: "Informatics", Interest: "AI"})
	require.IsType(t, RequestGeneration{}, effect)

	state, effect = Dispatch(state, TitlesGenerated{Text: "Here are ideas:\n1. Title A\n2. Title B\nThanks"})
	assert.Equal(t, ShowResult{Step: StepTitles}, effect)
	assert.Equal(t, []string{"Title A", "Title B"}, state.Titles)
	assert.False(t, state.Busy)
	assert.False(t, state.CanGenerateProblems())

	state, effect = Dispatch(state, SelectTitle{Index: 1})
	assert.Equal(t, ShowResult{Step: StepProblems}, effect)
	assert.Equal(t, "Title B", state.SelectedTitle)
	assert.True(t, state.CanGenerateProblems())
	assert.False(t, state.CanGenerateOutline())

	state, effect = Dispatch(state, GenerateProblems{})
	req, ok := effect.(RequestGeneration)
	require.True(t, ok)
	assert.Equal(t, StepProblems, req.Step)
	assert.Contains(t, req.Prompt, `"Title B"`)
	assert.False(t, state.CanGenerateProblems(), "busy state blocks new generations")

	state, effect = Dispatch(state, ProblemsGenerated{Text: "1. Why?\n2. How?"})
	assert.Equal(t, ShowResult{Step: StepProblems}, effect)
	assert.True(t, state.CanGenerateOutline())

	state, effect = Dispatch(state, GenerateOutline{})
	req, ok = effect.(RequestGeneration)
	require.True(t, ok)
	assert.Equal(t, StepOutline, req.Step)
	assert.Contains(t, req.Prompt, "1. Why?\n2. How?")
	assert.Contains(t, req.Prompt, "D. Research Benefits")

	state, effect = Dispatch(state, OutlineGenerated{Text: "A. Background..."})
	assert.Equal(t, ShowResult{Step: StepOutline}, effect)
	assert.Equal(t, "A. Background...", state.Outline)
	assert.False(t, state.Busy)
}

func TestDispatch_Gating(t *testing.T) {
	tests := []struct {
		name  string
		state State
		cmd   Command
		want  Effect
	}{
		{
			name: "problems without title",
			cmd:  GenerateProblems{},
			want: ShowError{Step: StepProblems, Message: MsgSelectTitleFirst},
		},
		{
			name:  "outline without problems",
			state: State{SelectedTitle: "T"},
			cmd:   GenerateOutline{},
			want:  ShowError{Step: StepOutline, Message: MsgGenerateProblemsFirst},
		},
		{
			name: "outline without title",
			cmd:  GenerateOutline{},
			want: ShowError{Step: StepOutline, Message: MsgSelectTitleFirst},
		},
		{
			name:  "problems while busy",
			state: State{SelectedTitle: "T", Busy: true, Pending: StepOutline},
			cmd:   GenerateProblems{},
			want:  ShowError{Step: StepProblems, Message: MsgBusy},
		},
		{
			name:  "selection out of range",
			state: State{Titles: []string{"only"}},
			cmd:   SelectTitle{Index: 1},
			want:  ShowError{Step: StepTitles, Message: MsgInvalidSelection},
		},
		{
			name:  "negative selection",
			state: State{Titles: []string{"only"}},
			cmd:   SelectTitle{Index: -1},
			want:  ShowError{Step: StepTitles, Message: MsgInvalidSelection},
		},
		{
			name: "stale titles result",
			cmd:  TitlesGenerated{Text: "1. late"},
			want: None{},
		},
		{
			name:  "result for another step",
			state: State{Busy: true, Pending: StepProblems},
			cmd:   OutlineGenerated{Text: "x"},
			want:  None{},
		},
		{
			name:  "failure for another step",
			state: State{Busy: true, Pending: StepProblems},
			cmd:   GenerationFailed{Step: StepTitles, Err: errors.New("x")},
			want:  None{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, effect := Dispatch(tt.state, tt.cmd)
			assert.Equal(t, tt.want, effect)
			assert.Equal(t, tt.state, next)
		})
	}
}

func TestDispatch_NoTitlesInReply(t *testing.T) {
	state := State{Program: "P", Interest: "I", Busy: true, Pending: StepTitles}

	next, effect := Dispatch(state, TitlesGenerated{Text: "Sorry, I cannot help with that."})

	assert.Equal(t, ShowError{Step: StepTitles, Message: MsgNoTitles}, effect)
	assert.False(t, next.Busy)
	assert.Empty(t, next.Titles)
}

func TestDispatch_GenerationFailed(t *testing.T) {
	tests := []struct {
		step StepType
		want string
	}{
		{step: StepTitles, want: "Failed to contact the AI: boom. Please try again later."},
		{step: StepProblems, want: "Failed to contact the AI: boom."},
		{step: StepOutline, want: "Failed to contact the AI: boom."},
	}

	for _, tt := range tests {
		t.Run(string(tt.step), func(t *testing.T) {
			state := State{Busy: true, Pending: tt.step, SelectedTitle: "T", Problems: "P"}

			next, effect := Dispatch(state, GenerationFailed{Step: tt.step, Err: errors.New("boom")})

			assert.Equal(t, ShowError{Step: tt.step, Message: tt.want}, effect)
			assert.False(t, next.Busy)
			assert.Empty(t, next.Pending)
			assert.Equal(t, "T", next.SelectedTitle, "inputs survive a failure")
		})
	}
}

func TestDispatch_SelectingAnotherTitleResetsLaterSteps(t *testing.T) {
	state := State{
		Titles:        []string{"A", "B"},
		SelectedTitle: "A",
		Problems:      "1. p",
		Outline:       "o",
	}

	next, _ := Dispatch(state, SelectTitle{Index: 0})
	assert.Equal(t, "1. p", next.Problems, "reselecting the same title keeps results")

	next, _ = Dispatch(state, SelectTitle{Index: 1})
	assert.Equal(t, "B", next.SelectedTitle)
	assert.Empty(t, next.Problems)
	assert.Empty(t, next.Outline)
}

func TestDispatch_DoesNotMutateInput(t *testing.T) {
	titles := []string{"A", "B"}
	state := State{Titles: titles, Busy: true, Pending: StepTitles}

	_, _ = Dispatch(state, TitlesGenerated{Text: "1. X\n2. Y\n3. Z"})

	assert.Equal(t, []string{"A", "B"}, titles)
	assert.True(t, state.Busy)
}
