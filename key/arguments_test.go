package key

import (
	"reflect"
	"strings"
	"testing"
)

func TestBindArguments(t *testing.T) {
	type req struct {
		Text    string
		Limit   int
		Verbose bool   `cache:"-"`
		Alias   string `cache:"name"`
		secret  string
	}
	_ = req{secret: "x"}

	tests := []struct {
		name    string
		input   any
		exclude func(string) bool
		want    []Argument
	}{
		{
			name:  "struct fields in declaration order",
			input: req{Text: "hi", Limit: 3, Alias: "a"},
			want: []Argument{
				{Name: "Text", Value: "hi"},
				{Name: "Limit", Value: 3},
				{Name: "name", Value: "a"},
			},
		},
		{
			name:  "pointer to struct",
			input: &req{Text: "hi"},
			want: []Argument{
				{Name: "Text", Value: "hi"},
				{Name: "Limit", Value: 0},
				{Name: "name", Value: ""},
			},
		},
		{
			name:  "map sorted by key",
			input: map[string]int{"b": 2, "a": 1},
			want: []Argument{
				{Name: "a", Value: 1},
				{Name: "b", Value: 2},
			},
		},
		{
			name:  "scalar becomes single argument",
			input: "hello",
			want:  []Argument{{Name: SingleArgumentName, Value: "hello"}},
		},
		{
			name:  "slice becomes single argument",
			input: []int{1, 2},
			want:  []Argument{{Name: SingleArgumentName, Value: []int{1, 2}}},
		},
		{
			name:    "exclusion predicate drops arguments",
			input:   req{Text: "hi", Limit: 3},
			exclude: func(name string) bool { return strings.EqualFold(name, "limit") },
			want: []Argument{
				{Name: "Text", Value: "hi"},
				{Name: "name", Value: ""},
			},
		},
		{
			name:  "nil input",
			input: nil,
			want:  []Argument{{Name: SingleArgumentName, Value: nil}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BindArguments(tt.input, tt.exclude)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BindArguments() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// Defaulted fields still participate in derivation: a zero-valued field is
// an argument, not an absence.
func TestBindArguments_ZeroValuesParticipate(t *testing.T) {
	type req struct {
		Text  string
		Limit int
	}
	d := NewDeriver()

	full, err := d.InputID("pkg.Fn", BindArguments(req{Text: "hi", Limit: 0}, nil))
	if err != nil {
		t.Fatalf("InputID error: %v", err)
	}
	other, err := d.InputID("pkg.Fn", BindArguments(req{Text: "hi", Limit: 1}, nil))
	if err != nil {
		t.Fatalf("InputID error: %v", err)
	}
	if full == other {
		t.Error("Limit value does not affect InputID")
	}
}

func TestDeriveFunctionID(t *testing.T) {
	tests := []struct {
		name      string
		explicit  string
		qualified string
		want      string
	}{
		{"explicit wins", "my-fn", "pkg.Fn", "my-fn"},
		{"falls back to qualified name", "", "pkg.Fn", "pkg.Fn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveFunctionID(tt.explicit, tt.qualified); got != tt.want {
				t.Errorf("DeriveFunctionID(%q, %q) = %q, want %q", tt.explicit, tt.qualified, got, tt.want)
			}
		})
	}
}

func TestQualifiedName(t *testing.T) {
	got := QualifiedName(TestQualifiedName)
	if !strings.HasSuffix(got, "key.TestQualifiedName") {
		t.Errorf("QualifiedName = %q, want suffix key.TestQualifiedName", got)
	}
	if QualifiedName(nil) != "" {
		t.Error("QualifiedName(nil) should be empty")
	}
	if QualifiedName(42) != "" {
		t.Error("QualifiedName(non-func) should be empty")
	}
}
