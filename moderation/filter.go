// Package moderation censors blocked words in message text before it is
// persisted. Matching runs over an Aho-Corasick automaton built once at
// startup, on a normalized form of the text: case folded, leet-speak
// simplified, punctuation and spacing stripped.
package moderation

import (
	"unicode"

	"support-thread/errors"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Filter struct {
	machine     *goahocorasick.Machine
	replacement rune
}

// textMapping pairs the normalized runes with the index each one had in
// the original text, so a match can be censored in place.
type textMapping struct {
	normalized []rune
	sourceIdx  []int
}

// NewFilter builds the automaton from the blocked word list. Words that
// normalize to nothing are dropped.
func NewFilter(blockedWords []string, replacement rune) (*Filter, error) {
	patterns := make([][]rune, 0, len(blockedWords))
	for _, word := range blockedWords {
		pattern := normalizeRunes([]rune(word))
		if len(pattern) == 0 {
			continue
		}
		patterns = append(patterns, pattern)
	}
	if len(patterns) == 0 {
		return nil, errors.ErrEmptyWords
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Filter{machine: machine, replacement: replacement}, nil
}

// Apply replaces every rune of each blocked word occurrence with the
// replacement rune, leaving the rest of the text untouched. Noise runes
// inside a match, like "i.d.i.o.t", are censored along with it.
func (f *Filter) Apply(text string) string {
	mapping := normalize(text)
	if len(mapping.normalized) == 0 {
		return text
	}

	spans := f.machine.MultiPatternSearch(mapping.normalized, false)
	if len(spans) == 0 {
		return text
	}

	runes := []rune(text)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(mapping.sourceIdx) {
			continue
		}
		for i := mapping.sourceIdx[start]; i <= mapping.sourceIdx[end-1]; i++ {
			runes[i] = f.replacement
		}
	}
	return string(runes)
}

// normalize produces the searchable form of the text and records where
// each kept rune came from.
func normalize(text string) textMapping {
	runes := []rune(text)
	mapping := textMapping{
		normalized: make([]rune, 0, len(runes)),
		sourceIdx:  make([]int, 0, len(runes)),
	}
	for i, r := range runes {
		clean := simplifyLeet(r)
		if isNoise(clean) {
			continue
		}
		mapping.normalized = append(mapping.normalized, unicode.ToLower(clean))
		mapping.sourceIdx = append(mapping.sourceIdx, i)
	}
	return mapping
}

func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := simplifyLeet(r)
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// simplifyLeet maps common leet-speak substitutions back to letters.
func simplifyLeet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
