package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTagList(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{"nil", nil, nil},
		{"string slice", []string{" Wellness ", "Beauty"}, []string{"Wellness", "Beauty"}},
		{"any slice from json", []any{"Wellness", "Beauty"}, []string{"Wellness", "Beauty"}},
		{"comma string", "Wellness, Beauty", []string{"Wellness", "Beauty"}},
		{"bracketed string", `["Wellness", "Beauty"]`, []string{"Wellness", "Beauty"}},
		{"bracketed unquoted", "[Wellness, Beauty]", []string{"Wellness", "Beauty"}},
		{"empty string", "", nil},
		{"empty brackets", "[]", nil},
		{"duplicates collapse", []string{"Beauty", "Beauty", "Wellness"}, []string{"Beauty", "Wellness"}},
		{"blank entries dropped", "Wellness,, ,Beauty", []string{"Wellness", "Beauty"}},
		{"unsupported type", 42, nil},
		{"non-string items ignored", []any{"Wellness", 3.2}, []string{"Wellness"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTagList(tt.input)
			if tt.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSortedLabels_DoesNotMutateInput(t *testing.T) {
	labels := []string{"Wellness", "Beauty"}

	sorted := SortedLabels(labels)

	assert.Equal(t, []string{"Beauty", "Wellness"}, sorted)
	assert.Equal(t, []string{"Wellness", "Beauty"}, labels)
}
