package markdown

import (
	"reflect"
	"testing"
)

func TestLex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Span
	}{
		{
			name:  "plain",
			input: "hello",
			want:  []Span{{Kind: Text, Text: "hello"}},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "bold in text",
			input: "text **bold** more",
			want: []Span{
				{Kind: Text, Text: "text "},
				{Kind: Bold, Text: "bold"},
				{Kind: Text, Text: " more"},
			},
		},
		{
			name:  "lazy bold",
			input: "**a** and **b**",
			want: []Span{
				{Kind: Bold, Text: "a"},
				{Kind: Text, Text: " and "},
				{Kind: Bold, Text: "b"},
			},
		},
		{
			name:  "internal root link",
			input: "[devis](/contact)",
			want:  []Span{{Kind: Link, Text: "devis", URL: "/contact"}},
		},
		{
			name:  "internal origin link",
			input: "[services](https://autocaravecchauffeur.be/services)",
			want:  []Span{{Kind: Link, Text: "services", URL: "https://autocaravecchauffeur.be/services"}},
		},
		{
			name:  "external link",
			input: "[Visit Brussels](https://www.visit.brussels/)",
			want:  []Span{{Kind: Link, Text: "Visit Brussels", URL: "https://www.visit.brussels/", External: true}},
		},
		{
			name:  "earliest match wins",
			input: "**x [a](/b)** y",
			want: []Span{
				{Kind: Bold, Text: "x [a](/b)"},
				{Kind: Text, Text: " y"},
			},
		},
		{
			name:  "link before bold",
			input: "[**a**](/b) **c**",
			want: []Span{
				{Kind: Link, Text: "**a**", URL: "/b"},
				{Kind: Text, Text: " "},
				{Kind: Bold, Text: "c"},
			},
		},
		{
			name:  "unclosed bold",
			input: "a **b",
			want:  []Span{{Kind: Text, Text: "a **b"}},
		},
		{
			name:  "empty label",
			input: "[](/x)",
			want:  []Span{{Kind: Text, Text: "[](/x)"}},
		},
		{
			name:  "empty url",
			input: "[a]() end",
			want:  []Span{{Kind: Text, Text: "[a]() end"}},
		},
		{
			name:  "label stops at first bracket",
			input: "[a] [b](/c)",
			want: []Span{
				{Kind: Text, Text: "[a] "},
				{Kind: Link, Text: "b", URL: "/c"},
			},
		},
		{
			name:  "four stars",
			input: "****",
			want:  []Span{{Kind: Text, Text: "****"}},
		},
		{
			name:  "five stars",
			input: "*****",
			want:  []Span{{Kind: Bold, Text: "*"}},
		},
		{
			name:  "utf8 around spans",
			input: "Réservez **dès** aujourd’hui",
			want: []Span{
				{Kind: Text, Text: "Réservez "},
				{Kind: Bold, Text: "dès"},
				{Kind: Text, Text: " aujourd’hui"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lex(tt.input, DefaultOrigin)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lex(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsInternal(t *testing.T) {
	tests := []struct {
		url    string
		origin string
		want   bool
	}{
		{"/tarifs", DefaultOrigin, true},
		{"https://autocaravecchauffeur.be/services", DefaultOrigin, true},
		{"https://example.be/", DefaultOrigin, false},
		{"mailto:info@autocaravecchauffeur.be", DefaultOrigin, false},
		{"https://example.be/", "", false},
	}
	for _, tt := range tests {
		if got := IsInternal(tt.url, tt.origin); got != tt.want {
			t.Errorf("IsInternal(%q, %q) = %v, want %v", tt.url, tt.origin, got, tt.want)
		}
	}
}
