package analysis

import (
	"strings"
	"unicode"
)

// Excerpter cuts bounded, roughly sentence-aligned quotations around a phrase.
// Sentence trimming is a best-effort search for terminal punctuation followed
// by whitespace, not real sentence segmentation.
type Excerpter struct {
	Before    int // Runes kept before the match
	After     int // Runes kept after the match
	MaxLength int // Hard cap; "..." is appended when exceeded
}

// DefaultExcerpter returns the 50/100/180 window
func DefaultExcerpter() Excerpter {
	return Excerpter{Before: 50, After: 100, MaxLength: 180}
}

// sentenceBreak is a run of terminal punctuation plus whitespace.
// punct indexes the punctuation rune, next the first rune after the whitespace.
type sentenceBreak struct {
	punct, next int
}

// Extract returns an excerpt of text around the first case-insensitive
// occurrence of phrase. When the phrase does not occur verbatim the
// leading MaxLength runes of text are returned instead.
func (e Excerpter) Extract(text, phrase string) string {
	runes := []rune(text)
	needle := []rune(phrase)

	idx := indexFold(runes, needle)
	if idx < 0 {
		return strings.TrimSpace(string(runes[:min(len(runes), e.MaxLength)]))
	}

	lo := max(0, idx-e.Before)
	hi := min(len(runes), idx+len(needle)+e.After)
	for lo < hi && unicode.IsSpace(runes[lo]) {
		lo++
	}
	for hi > lo && unicode.IsSpace(runes[hi-1]) {
		hi--
	}
	quote := runes[lo:hi]
	at := max(0, idx-lo)

	breaks := sentenceBreaks(quote)

	// Begin at the sentence holding the match
	start := 0
	for _, b := range breaks {
		if b.next > at {
			break
		}
		start = b.next
	}
	if start > 0 && start < e.Before {
		quote = quote[start:]
		at -= start
	} else {
		start = 0
	}

	// End at the first sentence break after the match unless it is near the tail
	matchEnd := at + len(needle)
	for _, b := range breaks {
		stop := b.punct - start
		if stop < matchEnd {
			continue
		}
		if stop > 0 && stop < len(quote)-20 {
			quote = quote[:stop+1]
		}
		break
	}

	out := strings.TrimSpace(string(quote[:min(len(quote), e.MaxLength)]))
	if len(quote) > e.MaxLength {
		out += "..."
	}
	return out
}

// sentenceBreaks lists every terminal punctuation rune followed by whitespace
func sentenceBreaks(q []rune) []sentenceBreak {
	var breaks []sentenceBreak
	for i := 0; i+1 < len(q); i++ {
		if !isTerminal(q[i]) || !unicode.IsSpace(q[i+1]) {
			continue
		}
		j := i + 1
		for j < len(q) && unicode.IsSpace(q[j]) {
			j++
		}
		breaks = append(breaks, sentenceBreak{punct: i, next: j})
		i = j - 1
	}
	return breaks
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// indexFold finds needle in haystack ignoring case, rune by rune
func indexFold(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for k, r := range needle {
			if unicode.ToLower(haystack[i+k]) != unicode.ToLower(r) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
