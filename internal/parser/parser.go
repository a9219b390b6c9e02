package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/conorfennell/betweenus/internal/domain"
)

const (
	promptPrefix = "Q:"
	timerPrefix  = "T:"
)

type state int

const (
	seeking state = iota
	readingPrompt
)

// ParseFile reads a prompt pack from the given path.
func ParseFile(path string) ([]domain.Prompt, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a prompt pack from an io.Reader.
//
// A prompt starts with a "Q:" line and runs until the next "Q:", a "---"
// separator, or a blank line. Lines in between are joined with newlines.
// An optional "T:" line sets the prompt's timer in seconds.
func Parse(r io.Reader) ([]domain.Prompt, error) {
	scanner := bufio.NewScanner(r)
	var prompts []domain.Prompt
	var current domain.Prompt
	var block []string
	currentState := seeking
	lineNo := 0

	finishPrompt := func() {
		if len(block) > 0 {
			current.Text = strings.TrimSpace(strings.Join(block, "\n"))
			block = nil
		}
		if current.Text != "" {
			prompts = append(prompts, current)
		}
		current = domain.Prompt{}
		currentState = seeking
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		switch {
		case line == "---" || strings.TrimSpace(line) == "":
			finishPrompt()
		case strings.HasPrefix(line, promptPrefix):
			if currentState != seeking {
				finishPrompt()
			}
			currentState = readingPrompt
			block = append(block, strings.TrimPrefix(line[len(promptPrefix):], " "))
		case strings.HasPrefix(line, timerPrefix):
			if currentState == seeking {
				continue
			}
			secs, err := strconv.Atoi(strings.TrimSpace(line[len(timerPrefix):]))
			if err != nil || secs < 0 {
				return nil, fmt.Errorf("line %d: invalid timer %q", lineNo, line)
			}
			current.TimerSeconds = secs
		case currentState != seeking:
			block = append(block, line)
		}
	}

	finishPrompt() // Finish the very last prompt in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return prompts, nil
}

// Texts returns just the prompt texts.
func Texts(prompts []domain.Prompt) []string {
	texts := make([]string, 0, len(prompts))
	for _, p := range prompts {
		texts = append(texts, p.Text)
	}
	return texts
}
