package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user cancels a prompt (Ctrl-C, Ctrl-D or
// an exhausted script).
var ErrAborted = errors.New("prompt aborted")

// Prompter asks the user for input.
type Prompter interface {
	// Input asks for a line of text. def is shown and used when the answer is empty.
	Input(label, def string, validate func(string) error) (string, error)
	// Password asks for a masked value.
	Password(label string, validate func(string) error) (string, error)
	// Confirm asks a yes/no question.
	Confirm(label string) (bool, error)
	// Select asks the user to pick one item and returns its index.
	Select(label string, items []string) (int, error)
}

// Terminal prompts on the controlling terminal with promptui.
type Terminal struct{}

func (Terminal) Input(label, def string, validate func(string) error) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Default:  def,
		Validate: validateFunc(validate),
	}
	v, err := p.Run()
	return strings.TrimSpace(v), wrap(label, err)
}

func (Terminal) Password(label string, validate func(string) error) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Mask:     '*',
		Validate: validateFunc(validate),
	}
	v, err := p.Run()
	return v, wrap(label, err)
}

func (Terminal) Confirm(label string) (bool, error) {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := p.Run()
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	if err != nil {
		return false, wrap(label, err)
	}
	return true, nil
}

func (Terminal) Select(label string, items []string) (int, error) {
	p := promptui.Select{
		Label: label,
		Items: items,
		Size:  min(len(items), 10),
	}
	idx, _, err := p.Run()
	return idx, wrap(label, err)
}

func validateFunc(fn func(string) error) promptui.ValidateFunc {
	if fn == nil {
		return nil
	}
	return promptui.ValidateFunc(fn)
}

func wrap(label string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return ErrAborted
	}
	return fmt.Errorf("%s: %w", label, err)
}
