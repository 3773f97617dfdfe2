package domain

import "testing"

func TestBuildSelector(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Selector
	}{
		{
			name:  "single verse",
			input: "Мф. 5:3",
			want:  `//book[short-title="мф"]/chapter[5]/verse[position()=3]`,
		},
		{
			name:  "verse range",
			input: "Мф. 5:3-12",
			want:  `//book[short-title="мф"]/chapter[5]/verse[position()=3 to 12]`,
		},
		{
			name:  "unknown book still builds",
			input: "Ывы. 1:1",
			want:  `//book[short-title="ывы"]/chapter[1]/verse[position()=1]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseReference(tt.input)
			if err != nil {
				t.Fatalf("ParseReference(%q) error = %v", tt.input, err)
			}
			if got := BuildSelector(ref); got != tt.want {
				t.Errorf("BuildSelector() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBuildSelectorDeterministic(t *testing.T) {
	a, _ := ParseReference("Мф. 5:3-12")
	b, _ := ParseReference("  мф.  5 : 3 - 12 ")

	if BuildSelector(a) != BuildSelector(b) {
		t.Errorf("equal references gave different selectors: %s vs %s", BuildSelector(a), BuildSelector(b))
	}
	if a.Selector() != BuildSelector(a) {
		t.Error("Reference.Selector() differs from BuildSelector()")
	}
}

func TestBuildSelectorDistinct(t *testing.T) {
	inputs := []string{"Мф. 5:3", "Мф. 5:3-4", "Мф. 5:4", "Мф. 6:3", "Мк. 5:3", "Мф. 53:1"}
	seen := make(map[Selector]string, len(inputs))

	for _, in := range inputs {
		ref, err := ParseReference(in)
		if err != nil {
			t.Fatalf("ParseReference(%q) error = %v", in, err)
		}
		sel := BuildSelector(ref)
		if prev, ok := seen[sel]; ok {
			t.Errorf("%q and %q map to the same selector %s", prev, in, sel)
		}
		seen[sel] = in
	}
}
