package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/examprep/internal/domain"
)

const separator = "---"

type field int

const (
	none field = iota
	question
	answer
	context
)

var prefixes = []struct {
	prefix string
	field  field
}{
	{"Q:", question},
	{"A:", answer},
	{"C:", context},
}

// ParseFile reads a study-set file and extracts its questions. Source is set
// to path on every question.
func ParseFile(path string) ([]domain.Question, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	questions, err := Parse(file)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].Source = path
	}
	return questions, nil
}

// Parse extracts questions written as "Q:", "A:" and optional "C:" blocks.
// A block runs until the next prefix or a "---" line; a new "Q:" always
// starts a new question. Blocks without a question are dropped.
func Parse(r io.Reader) ([]domain.Question, error) {
	p := &state{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	p.finishQuestion()
	return p.questions, nil
}

type state struct {
	questions []domain.Question
	current   domain.Question
	field     field
	block     []string
}

func (p *state) line(line string) {
	if line == separator {
		p.finishQuestion()
		return
	}

	for _, pf := range prefixes {
		if !strings.HasPrefix(line, pf.prefix) {
			continue
		}
		if pf.field == question && p.field != none {
			p.finishQuestion()
		} else {
			p.finishBlock()
		}
		p.field = pf.field
		p.block = append(p.block, strings.TrimPrefix(line[len(pf.prefix):], " "))
		return
	}

	if p.field != none {
		p.block = append(p.block, line)
	}
}

func (p *state) finishBlock() {
	if len(p.block) == 0 {
		return
	}
	content := strings.TrimRight(strings.Join(p.block, "\n"), "\n")
	switch p.field {
	case question:
		p.current.Question = content
	case answer:
		p.current.Answer = content
	case context:
		p.current.Context = content
	}
	p.block = nil
}

func (p *state) finishQuestion() {
	p.finishBlock()
	if p.current.Question != "" {
		p.questions = append(p.questions, p.current)
	}
	p.current = domain.Question{}
	p.field = none
}
