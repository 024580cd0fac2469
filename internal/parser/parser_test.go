package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedCount int
		expectedQ     string
		expectedA     string
		expectedC     string
	}{
		{
			name:          "Simple Q&A",
			input:         "Q: What is the capital of France?\nA: Paris",
			expectedCount: 1,
			expectedQ:     "What is the capital of France?",
			expectedA:     "Paris",
			expectedC:     "",
		},
		{
			name:          "Simple Q, A, and C",
			input:         "Q: What is 1+1?\nA: 2\nC: Basic arithmetic",
			expectedCount: 1,
			expectedQ:     "What is 1+1?",
			expectedA:     "2",
			expectedC:     "Basic arithmetic",
		},
		{
			name: "Multiline Answer",
			input: `
Q: What are the primary colors?
A: Red
Blue
Yellow
`,
			expectedCount: 1,
			expectedQ:     "What are the primary colors?",
			expectedA:     "Red\nBlue\nYellow",
			expectedC:     "",
		},
		{
			name: "Two Cards",
			input: `
Q: First question
A: First answer

Q: Second question
A: Second answer
`,
			expectedCount: 2,
		},
		{
			name: "Card with all fields and multiline",
			input: `
Q: What is Go?
A: A statically typed, compiled programming language.
It was designed at Google.
C: Programming Languages
`,
			expectedCount: 1,
			expectedQ:     "What is Go?",
			expectedA:     "A statically typed, compiled programming language.\nIt was designed at Google.",
			expectedC:     "Programming Languages",
		},
		{
			name:          "No cards, just text",
			input:         "This is a file with no questions.",
			expectedCount: 0,
		},
		{
			name:          "Prefixes with no space",
			input:         "Q:Question\nA:Answer",
			expectedCount: 1,
			expectedQ:     "Question",
			expectedA:     "Answer",
		},
		{
			name:          "Trailing blank lines are dropped",
			input:         "Q: Question\nA: Answer\n\n\n",
			expectedCount: 1,
			expectedQ:     "Question",
			expectedA:     "Answer",
		},
		{
			name: "Separator ends a card",
			input: `
Q: Inside
A: Yes
---
Stray text after the separator.
`,
			expectedCount: 1,
			expectedQ:     "Inside",
			expectedA:     "Yes",
		},
		{
			name:          "Answer without question is dropped",
			input:         "A: Orphan answer\n---\nQ: Kept\nA: Here",
			expectedCount: 1,
			expectedQ:     "Kept",
			expectedA:     "Here",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := strings.NewReader(tc.input)
			questions, err := Parse(r)
			if err != nil {
				t.Fatalf("Parse() returned an unexpected error: %v", err)
			}

			if len(questions) != tc.expectedCount {
				t.Fatalf("Expected %d questions, but got %d", tc.expectedCount, len(questions))
			}

			if tc.expectedCount == 1 {
				q := questions[0]
				if q.Question != tc.expectedQ {
					t.Errorf("Expected Question to be '%s', but got '%s'", tc.expectedQ, q.Question)
				}
				if q.Answer != tc.expectedA {
					t.Errorf("Expected Answer to be '%s', but got '%s'", tc.expectedA, q.Answer)
				}
				if q.Context != tc.expectedC {
					t.Errorf("Expected Context to be '%s', but got '%s'", tc.expectedC, q.Context)
				}
			}
		})
	}
}

func TestParseFileSetsSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "set.md")
	content := "Q: One\nA: 1\n\nQ: Two\nA: 2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	questions, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() returned an unexpected error: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("Expected 2 questions, but got %d", len(questions))
	}
	for _, q := range questions {
		if q.Source != path {
			t.Errorf("Expected Source to be '%s', but got '%s'", path, q.Source)
		}
	}
	if questions[1].Question != "Two" || questions[1].Answer != "2" {
		t.Errorf("Unexpected second question: %+v", questions[1])
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "nope.md")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
