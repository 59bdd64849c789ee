package analysis

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExcerpt_NotFoundReturnsLeadingText(t *testing.T) {
	e := DefaultExcerpter()
	text := strings.Repeat("abcdefghij", 30)

	got := e.Extract(text, "missing phrase")
	assert.Equal(t, text[:180], got)
	assert.NotContains(t, got, "...")
}

func TestExcerpt_ShortTextReturnedWhole(t *testing.T) {
	e := DefaultExcerpter()
	got := e.Extract("  Billing was confusing  ", "billing")
	assert.Equal(t, "Billing was confusing", got)
}

func TestExcerpt_SentenceAligned(t *testing.T) {
	e := DefaultExcerpter()
	text := "First sentence here. The billing flow was confusing for me. " +
		"Another thing happened later on in the process of using it."

	got := e.Extract(text, "Billing")
	assert.Equal(t, "The billing flow was confusing for me.", got)
}

func TestExcerpt_WindowBounded(t *testing.T) {
	e := DefaultExcerpter()
	text := strings.Repeat("word ", 100) + "target phrase" + strings.Repeat(" more", 100)

	got := e.Extract(text, "target phrase")
	assert.Contains(t, got, "target phrase")
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 180)
	assert.True(t, strings.HasPrefix(got, "word"))
	assert.True(t, strings.HasSuffix(got, "more"))
}

func TestExcerpt_CapAddsEllipsis(t *testing.T) {
	e := Excerpter{Before: 50, After: 100, MaxLength: 40}
	text := strings.Repeat("word ", 100) + "target phrase" + strings.Repeat(" more", 100)

	got := e.Extract(text, "target phrase")
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 43)
}

func TestExcerpt_MultibyteSafe(t *testing.T) {
	e := DefaultExcerpter()
	text := "Ünïcödé prefix — the ÉQUIPE was great. Next sentence follows here and goes on for a while longer than twenty."

	got := e.Extract(text, "équipe")
	assert.True(t, utf8.ValidString(got))
	assert.Contains(t, got, "ÉQUIPE")
}
