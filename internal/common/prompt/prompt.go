// Package prompt asks the user yes/no questions.
//
// Only the literal answer "y" counts as yes. "Y", "yes", an empty line and
// end of input all mean no. An interrupted prompt is an error, not an answer.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
)

// Yes is the only answer that confirms
const Yes = "y"

// ErrInterrupted is returned when the user presses Ctrl-C at the prompt
var ErrInterrupted = errors.New("confirmation interrupted")

// Confirmer asks a question and reports whether the user confirmed it
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// IsYes applies the confirmation rule to a raw answer
func IsYes(answer string) bool {
	return answer == Yes
}

// LineConfirmer reads a single line from In after writing the question to Out
type LineConfirmer struct {
	In  io.Reader
	Out io.Writer
}

// Confirm prints the question and reads one line of input
func (c *LineConfirmer) Confirm(question string) (bool, error) {
	fmt.Fprintf(c.Out, "%s [y/N] ", question)

	line, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	return IsYes(strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")), nil
}

// SurveyConfirmer asks on the terminal through survey
type SurveyConfirmer struct {
	opts []survey.AskOpt
}

// Confirm asks the question. Ctrl-C fails with ErrInterrupted.
func (c *SurveyConfirmer) Confirm(question string) (bool, error) {
	var answer string
	prompt := &survey.Input{
		Message: question,
		Help:    `Type "y" to confirm; anything else declines.`,
	}

	err := survey.AskOne(prompt, &answer, c.opts...)
	return surveyResult(answer, err)
}

func surveyResult(answer string, err error) (bool, error) {
	if errors.Is(err, terminal.InterruptErr) {
		return false, errors.Join(ErrInterrupted, err)
	}
	if err != nil {
		return false, err
	}
	return IsYes(answer), nil
}

// NewConfirmer returns a survey-backed Confirmer when both ends are terminals,
// and a LineConfirmer otherwise (pipes, redirected input, CI).
func NewConfirmer(in, out *os.File) Confirmer {
	if isTerminal(in) && isTerminal(out) {
		return &SurveyConfirmer{
			opts: []survey.AskOpt{survey.WithStdio(in, out, os.Stderr)},
		}
	}
	return &LineConfirmer{In: in, Out: out}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
