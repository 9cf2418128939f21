package config

import (
	"errors"
	"fmt"
	"strings"
)

// Difficulty names one row of the difficulty table.
type Difficulty string

const (
	DifficultyEasy       Difficulty = "easy"
	DifficultyMedium     Difficulty = "medium"
	DifficultyHard       Difficulty = "hard"
	DifficultyImpossible Difficulty = "impossible"
	DifficultyLuck       Difficulty = "luck"
)

// ErrUnknownDifficulty is returned for names outside the fixed set.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Difficulties returns every level in menu order.
func Difficulties() []Difficulty {
	return []Difficulty{
		DifficultyEasy,
		DifficultyMedium,
		DifficultyHard,
		DifficultyImpossible,
		DifficultyLuck,
	}
}

// ParseDifficulty maps a case-insensitive name to a Difficulty.
func ParseDifficulty(name string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(name)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
	}
	return d, nil
}

// Valid reports whether d is one of the five levels.
func (d Difficulty) Valid() bool {
	for _, known := range Difficulties() {
		if d == known {
			return true
		}
	}
	return false
}

// Title returns the display name.
func (d Difficulty) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// Next returns the level after d, wrapping around.
func (d Difficulty) Next() Difficulty {
	all := Difficulties()
	for i, known := range all {
		if d == known {
			return all[(i+1)%len(all)]
		}
	}
	return DifficultyEasy
}
