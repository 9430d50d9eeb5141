package prompt

import (
	"fmt"
	"strconv"
	"strings"
)

// Scripted answers prompts from a fixed list, in order. Confirm accepts
// "y"/"yes"; Select takes an index or an item's text. When the answers run
// out every prompt returns ErrAborted.
type Scripted struct {
	Answers []string
	// Asked records the labels of every prompt shown.
	Asked []string
}

// NewScripted returns a Scripted prompter with the given answers.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{Answers: answers}
}

func (s *Scripted) next(label string) (string, error) {
	s.Asked = append(s.Asked, label)
	if len(s.Answers) == 0 {
		return "", ErrAborted
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	return a, nil
}

func (s *Scripted) Input(label, def string, validate func(string) error) (string, error) {
	a, err := s.next(label)
	if err != nil {
		return "", err
	}
	if a == "" {
		a = def
	}
	if validate != nil {
		if err := validate(a); err != nil {
			return "", fmt.Errorf("%s: %w", label, err)
		}
	}
	return a, nil
}

func (s *Scripted) Password(label string, validate func(string) error) (string, error) {
	return s.Input(label, "", validate)
}

func (s *Scripted) Confirm(label string) (bool, error) {
	a, err := s.next(label)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(a) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (s *Scripted) Select(label string, items []string) (int, error) {
	a, err := s.next(label)
	if err != nil {
		return -1, err
	}
	if i, err := strconv.Atoi(a); err == nil && i >= 0 && i < len(items) {
		return i, nil
	}
	for i, item := range items {
		if item == a {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%s: no item %q", label, a)
}
