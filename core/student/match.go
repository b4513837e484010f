package student

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// matchMinRatio is the minimum similarity for a recognizer label to be
// resolved to a roster entry. Labels come from image folder names and may
// drift from the registered name by case, spacing or a typo.
const matchMinRatio = 0.8

// MatchName resolves a recognizer label against the class roster. It tries
// exact ID and name matches first, then falls back to a similarity match.
func MatchName(label string, roster []Student) (Student, bool) {
	label = CleanName(label)
	if label == "" {
		return Student{}, false
	}

	for _, std := range roster {
		if label == std.ID || label == CleanName(std.Name) {
			return std, true
		}
	}

	var best Student
	var bestRatio float64
	for _, std := range roster {
		for _, candidate := range []string{std.ID, CleanName(std.Name)} {
			if ratio := similarity(label, candidate); ratio > bestRatio {
				bestRatio = ratio
				best = std
			}
		}
	}
	if bestRatio >= matchMinRatio {
		return best, true
	}
	return Student{}, false
}

func similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).QuickRatio()
}
