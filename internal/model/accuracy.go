package model

import (
	"fmt"
	"strings"
)

// Accuracy is the confidence tier of a single guess
type Accuracy int

const (
	AccuracyLowest  Accuracy = 0
	AccuracyLow     Accuracy = 1
	AccuracyMedium  Accuracy = 2
	AccuracyHigh    Accuracy = 3
	AccuracyHighest Accuracy = 4
)

var accuracyWeights = [...]float64{
	AccuracyLowest:  0.3,
	AccuracyLow:     0.7,
	AccuracyMedium:  1.5,
	AccuracyHigh:    4,
	AccuracyHighest: 10,
}

// Weight returns the value summed when several guesses agree on a hint
func (a Accuracy) Weight() float64 {
	if a < AccuracyLowest || a > AccuracyHighest {
		return 0
	}
	return accuracyWeights[a]
}

func (a Accuracy) String() string {
	switch a {
	case AccuracyLowest:
		return "lowest"
	case AccuracyLow:
		return "low"
	case AccuracyMedium:
		return "medium"
	case AccuracyHigh:
		return "high"
	case AccuracyHighest:
		return "highest"
	default:
		return fmt.Sprintf("accuracy(%d)", int(a))
	}
}

// ParseAccuracy converts a tier name (or its digit) back into an Accuracy
func ParseAccuracy(s string) (Accuracy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lowest", "0":
		return AccuracyLowest, nil
	case "low", "1":
		return AccuracyLow, nil
	case "medium", "2":
		return AccuracyMedium, nil
	case "high", "3":
		return AccuracyHigh, nil
	case "highest", "4":
		return AccuracyHighest, nil
	default:
		return 0, fmt.Errorf("unknown accuracy %q", s)
	}
}

// MarshalText renders the tier name so dumps stay readable
func (a Accuracy) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText accepts the tier name
func (a *Accuracy) UnmarshalText(text []byte) error {
	parsed, err := ParseAccuracy(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
