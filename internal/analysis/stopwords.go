package analysis

// englishStopwords are common English function words dropped by the tokenizer
var englishStopwords = []string{
	"the", "a", "an", "and", "or", "but", "about", "above", "after", "again", "against",
	"all", "am", "any", "are", "as", "at", "be", "because", "been", "before", "being",
	"below", "between", "both", "by", "could", "did", "do", "does", "doing", "down",
	"during", "each", "few", "for", "from", "further", "had", "has", "have", "having",
	"he", "her", "here", "hers", "herself", "him", "himself", "his", "how", "i", "if",
	"in", "into", "is", "it", "its", "itself", "let", "me", "more", "most", "my",
	"myself", "no", "nor", "not", "of", "off", "on", "once", "only", "other", "our",
	"ours", "ourselves", "out", "over", "own", "s", "same", "she", "should", "so",
	"some", "such", "t", "than", "that", "their", "theirs", "them", "themselves",
	"then", "there", "these", "they", "this", "those", "through", "to", "too", "under",
	"until", "up", "very", "was", "we", "were", "what", "when", "where", "which",
	"while", "who", "whom", "why", "with", "you", "your", "yours", "yourself",
	"yourselves",
}
