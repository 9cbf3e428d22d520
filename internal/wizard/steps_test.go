package wizard

import (
	"testing"
)

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	if registry.Has(StepTitles) {
		t.Error("empty registry should not have titles step")
	}

	step := &Step{
		Type:     StepTitles,
		Prompt:   func(State) (string, error) { return "p", nil },
		Complete: func(text string) Command { return TitlesGenerated{Text: text} },
	}
	if err := registry.Register(step); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, ok := registry.Get(StepTitles)
	if !ok || got != step {
		t.Errorf("Get() = %v, %v", got, ok)
	}
	if list := registry.List(); len(list) != 1 || list[0] != StepTitles {
		t.Errorf("List() = %v, want [titles]", list)
	}
}

func TestRegistryRegisterErrors(t *testing.T) {
	prompt := func(State) (string, error) { return "", nil }
	complete := func(string) Command { return None{} }

	tests := []struct {
		name string
		step *Step
	}{
		{name: "nil step", step: nil},
		{name: "empty type", step: &Step{Prompt: prompt, Complete: complete}},
		{name: "nil prompt", step: &Step{Type: StepTitles, Complete: complete}},
		{name: "nil completion", step: &Step{Type: StepTitles, Prompt: prompt}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewRegistry().Register(tt.step); err == nil {
				t.Error("Register() expected error, got nil")
			}
		})
	}
}

func TestRegistryMustGetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustGet() should panic for unregistered step")
		}
	}()
	NewRegistry().MustGet(StepOutline)
}

func TestDefaultRegistry(t *testing.T) {
	registry := DefaultRegistry()

	list := registry.List()
	want := ValidStepTypes()
	if len(list) != len(want) {
		t.Fatalf("List() = %v, want %v", list, want)
	}
	for i := range want {
		if list[i] != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, list[i], want[i])
		}
	}

	for _, stepType := range want {
		step := registry.MustGet(stepType)
		if step.Label == "" {
			t.Errorf("step %s has no label", stepType)
		}
	}
}

func TestParseStepType(t *testing.T) {
	tests := []struct {
		input   string
		want    StepType
		wantErr bool
	}{
		{input: "titles", want: StepTitles},
		{input: "problems", want: StepProblems},
		{input: "outline", want: StepOutline},
		{input: "Titles", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStepType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStepType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStepType(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}
