package analysis

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/qualcode/internal/model"
)

const (
	themeKeywordPool    = 60 // Keywords considered for grouping
	maxThemes           = 15
	minRootLength       = 3
	singleTermThreshold = 5.0 // A lone term needs a score above this
)

// suffixPattern strips one trailing suffix. The leftmost match wins, which
// makes the longest listed suffix win.
var suffixPattern = regexp.MustCompile(`(?i)(ing|ed|ly|s|es|er|est|tion|sion|ness|ment)$`)

// Stem applies the naive suffix strip
func Stem(word string) string {
	return suffixPattern.ReplaceAllString(strings.ToLower(word), "")
}

type themeGroup struct {
	root   string
	terms  []string
	scores []float64
}

func (g *themeGroup) mean() float64 {
	sum := 0.0
	for _, s := range g.scores {
		sum += s
	}
	return sum / float64(len(g.scores))
}

// Themes clusters the top keywords by stem into labeled theme groups
func Themes(keywords []model.KeywordScore) []model.Theme {
	pool := keywords[:min(len(keywords), themeKeywordPool)]

	scoreOf := make(map[string]float64, len(keywords))
	for _, kw := range keywords {
		if _, ok := scoreOf[kw.Term]; !ok {
			scoreOf[kw.Term] = kw.Score
		}
	}

	groups := make(map[string]*themeGroup)
	var order []string
	for _, kw := range pool {
		root := Stem(kw.Term)
		if utf8.RuneCountInString(root) < minRootLength {
			continue
		}
		g, ok := groups[root]
		if !ok {
			g = &themeGroup{root: root}
			groups[root] = g
			order = append(order, root)
		}
		if !containsString(g.terms, kw.Term) {
			g.terms = append(g.terms, kw.Term)
		}
		g.scores = append(g.scores, kw.Score)
	}

	var kept []*themeGroup
	for _, root := range order {
		g := groups[root]
		if len(g.terms) >= 2 || (len(g.terms) == 1 && g.scores[0] > singleTermThreshold) {
			kept = append(kept, g)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].mean() > kept[j].mean()
	})
	if len(kept) > maxThemes {
		kept = kept[:maxThemes]
	}

	themes := make([]model.Theme, 0, len(kept))
	for _, g := range kept {
		terms := append([]string(nil), g.terms...)
		sort.SliceStable(terms, func(i, j int) bool {
			return scoreOf[terms[i]] > scoreOf[terms[j]]
		})
		themes = append(themes, model.Theme{
			Theme: ThemeLabel(g.root),
			Terms: terms,
		})
	}
	return themes
}

// ThemeLabel capitalizes the first letter of every space-separated word
func ThemeLabel(root string) string {
	words := strings.Split(root, " ")
	for i, w := range words {
		words[i] = capitalizeFirst(w)
	}
	return strings.Join(words, " ")
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
