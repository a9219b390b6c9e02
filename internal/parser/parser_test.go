package parser

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name            string
		input           string
		expectedPrompts int
		expectedText    string
		expectedTimer   int
	}{
		{
			name:            "Single prompt",
			input:           "Q: What did you notice about me first?",
			expectedPrompts: 1,
			expectedText:    "What did you notice about me first?",
		},
		{
			name:            "Prompt with timer",
			input:           "Q: Stare into each other's eyes.\nT: 60",
			expectedPrompts: 1,
			expectedText:    "Stare into each other's eyes.",
			expectedTimer:   60,
		},
		{
			name: "Multiline prompt",
			input: `
Q: Finish the sentence:
"I feel closest to you when..."
`,
			expectedPrompts: 1,
			expectedText:    "Finish the sentence:\n\"I feel closest to you when...\"",
		},
		{
			name: "Two prompts separated by blank line",
			input: `
Q: First prompt

Q: Second prompt
`,
			expectedPrompts: 2,
		},
		{
			name:            "Two prompts back to back",
			input:           "Q: First\nQ: Second\n---\nQ: Third",
			expectedPrompts: 3,
		},
		{
			name:            "No prompts, just text",
			input:           "This pack has no prompts yet.",
			expectedPrompts: 0,
		},
		{
			name:            "Prefix with no space",
			input:           "Q:Prompt",
			expectedPrompts: 1,
			expectedText:    "Prompt",
		},
		{
			name:            "Stray timer is ignored",
			input:           "T: 30\nQ: Prompt",
			expectedPrompts: 1,
			expectedText:    "Prompt",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prompts, err := Parse(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("Parse() returned an unexpected error: %v", err)
			}

			if len(prompts) != tc.expectedPrompts {
				t.Fatalf("Expected %d prompts, but got %d", tc.expectedPrompts, len(prompts))
			}

			if tc.expectedPrompts == 1 {
				p := prompts[0]
				if p.Text != tc.expectedText {
					t.Errorf("Expected Text to be '%s', but got '%s'", tc.expectedText, p.Text)
				}
				if p.TimerSeconds != tc.expectedTimer {
					t.Errorf("Expected TimerSeconds to be %d, but got %d", tc.expectedTimer, p.TimerSeconds)
				}
			}
		})
	}
}

func TestParseInvalidTimer(t *testing.T) {
	_, err := Parse(strings.NewReader("Q: Prompt\nT: soon"))
	if err == nil {
		t.Fatal("Expected an error for a non-numeric timer")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Expected the error to name line 2, got %v", err)
	}
}

func TestTexts(t *testing.T) {
	prompts, err := Parse(strings.NewReader("Q: One\nT: 10\n\nQ: Two"))
	if err != nil {
		t.Fatalf("Parse() returned an unexpected error: %v", err)
	}
	texts := Texts(prompts)
	if len(texts) != 2 || texts[0] != "One" || texts[1] != "Two" {
		t.Errorf("Expected [One Two], got %v", texts)
	}
}
