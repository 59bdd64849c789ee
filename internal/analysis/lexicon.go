package analysis

// sentimentLexicon is a small AFINN-style polarity table
var sentimentLexicon = map[string]int{
	// Positive
	"good": 3, "great": 3, "excellent": 4, "amazing": 4, "love": 3, "loved": 3,
	"smooth": 2, "help": 1, "helped": 1, "helpful": 2, "easy": 2, "clear": 2, "fast": 2,
	"delighted": 3, "satisfied": 2, "happy": 3, "pleased": 2, "wonderful": 3,
	"fantastic": 4, "perfect": 3, "awesome": 3, "nice": 2, "better": 2, "best": 3,
	"fine": 1, "positive": 2, "superb": 3, "outstanding": 4, "brilliant": 3,
	"grateful": 2, "appreciate": 2, "enjoyed": 2,

	// Negative
	"bad": -3, "poor": -2, "terrible": -4, "awful": -4, "confusing": -2, "struggle": -2,
	"struggled": -2, "hate": -3, "difficult": -2, "issue": -1, "issues": -1, "bug": -2,
	"slow": -2, "unclear": -2, "confusingly": -2, "frustrating": -3, "frustration": -2,
	"upset": -2, "angry": -3, "disappointed": -2, "worried": -2, "concerned": -1,
	"problem": -2, "problems": -2, "fail": -3, "failed": -3, "failure": -3, "wrong": -2,
	"worse": -2, "worst": -3, "horrible": -4, "disgusting": -4, "annoying": -2,
	"stressed": -2,

	// Contextual
	"sad": -2, "ignored": -2, "lonely": -2, "rejected": -3, "alone": -1, "hard": -1,
	"tough": -1,
}

// LexiconScore returns the polarity of a single token (0 when unknown)
func LexiconScore(token string) int {
	return sentimentLexicon[token]
}
