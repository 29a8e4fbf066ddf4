package tokenizer

import (
	"reflect"
	"testing"
)

func TestWordTokenizer(t *testing.T) {
	tests := []struct {
		name      string
		minLength int
		input     string
		want      []string
	}{
		{
			name:      "Default drops single characters",
			minLength: DefaultMinLength,
			input:     "a cat and i sat",
			want:      []string{"cat", "and", "sat"},
		},
		{
			name:      "Keeps single characters at length one",
			minLength: 1,
			input:     "a cat",
			want:      []string{"a", "cat"},
		},
		{
			name:      "Splits on non alphanumeric runes",
			minLength: DefaultMinLength,
			input:     "well-known e_mail 42nd café",
			want:      []string{"well", "known", "mail", "42nd", "café"},
		},
		{
			name:      "Counts runes not bytes",
			minLength: 2,
			input:     "é éé",
			want:      []string{"éé"},
		},
		{
			name:      "Whitespace only",
			minLength: DefaultMinLength,
			input:     " \t\n ",
			want:      []string{},
		},
		{
			name:      "Non positive minimum behaves as one",
			minLength: 0,
			input:     "x y",
			want:      []string{"x", "y"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NewWordTokenizer(tc.minLength).Tokenize(tc.input)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
