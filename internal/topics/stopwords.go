package topics

// stopwords holds terms excluded from vectorization: standard English
// function words plus social-media filler that carries no topical signal.
var stopwords = map[string]bool{}

func init() {
	for _, w := range []string{
		// English function words
		"a", "about", "after", "again", "all", "also", "am", "an", "and",
		"any", "are", "as", "at", "be", "because", "been", "before", "being",
		"but", "by", "can", "could", "did", "do", "does", "doing", "down",
		"for", "from", "had", "has", "have", "having", "he", "her", "here",
		"him", "his", "how", "i", "if", "in", "into", "is", "it", "its",
		"just", "me", "more", "most", "my", "no", "not", "now", "of", "off",
		"on", "once", "only", "or", "other", "our", "out", "over", "own",
		"she", "so", "some", "such", "than", "that", "the", "their", "them",
		"then", "there", "these", "they", "this", "those", "through", "to",
		"too", "under", "until", "up", "very", "was", "we", "were", "what",
		"when", "where", "which", "while", "who", "why", "will", "with",
		"would", "you", "your",
		// social-media filler
		"im", "ive", "dont", "cant", "didnt", "doesnt", "isnt", "wont",
		"like", "get", "got", "gonna", "really", "thing", "things", "lol",
		"yeah", "oh", "ok", "okay", "said", "say", "know", "think", "one",
		"still", "even", "much", "way", "time", "today", "going",
	} {
		stopwords[w] = true
	}
}
