package normalizer

import (
	"strings"
	"testing"
)

func TestNormalizers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Empty", input: "", want: ""},
		{name: "Lower casing", input: "The CAT Sat", want: "the cat sat"},
		{name: "Punctuation", input: "Hello, WORLD!", want: "hello  world "},
		{name: "Symbols", input: "a+b=c", want: "a b c"},
		{name: "Digits kept", input: "Route 66", want: "route 66"},
		{name: "Unicode letters", input: "Ünïcode Café", want: "ünïcode café"},
		{name: "Unicode punctuation", input: "wait—what…", want: "wait what "},
	}

	factory := NewNormalizerFactory()
	normalizers := map[string]NormalizerType{
		"default": DefaultNormalizerType,
		"fast":    FastNormalizerType,
	}

	for normName, typ := range normalizers {
		n := factory.CreateNormalizer(typ)
		for _, tc := range tests {
			t.Run(normName+"/"+tc.name, func(t *testing.T) {
				if got := n.Normalize(tc.input); got != tc.want {
					t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
				}
			})
		}
	}
}

func TestFastNormalizerReusesBuffers(t *testing.T) {
	n := NewFastNormalizer()
	long := strings.Repeat("ABC def. ", 2000)

	first := n.Normalize(long)
	second := n.Normalize("Short")
	third := n.Normalize(long)

	if second != "short" {
		t.Errorf("Normalize after long input = %q, want %q", second, "short")
	}
	if first != third {
		t.Error("repeated normalization of the same text differs")
	}
	if !strings.HasPrefix(first, "abc def  abc") {
		t.Errorf("unexpected normalization prefix %q", first[:12])
	}
}

func TestParseNormalizerType(t *testing.T) {
	tests := []struct {
		in     string
		want   NormalizerType
		wantOK bool
	}{
		{"", DefaultNormalizerType, true},
		{"default", DefaultNormalizerType, true},
		{"fast", FastNormalizerType, true},
		{"turbo", DefaultNormalizerType, false},
	}
	for _, tc := range tests {
		got, ok := ParseNormalizerType(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("ParseNormalizerType(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}
