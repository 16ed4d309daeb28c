package scoring

import (
	"sort"
	"strings"
	"unicode"
)

// Lead bios mix Portuguese and English, so both stopword sets apply.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		// Portuguese
		"a", "o", "e", "de", "da", "do", "das", "dos", "em", "um", "uma",
		"com", "para", "por", "que", "na", "no", "nas", "nos", "se", "mais",
		"como", "mas", "ao", "aos", "sua", "seu", "suas", "seus", "ou",
		"quando", "muito", "nossa", "nosso", "ja", "já", "tambem", "também",
		"so", "só", "pelo", "pela", "ate", "até", "isso", "ela", "ele",
		"entre", "depois", "sem", "mesmo", "sobre", "voce", "você", "vc",
		"aqui", "meu", "minha", "essa", "esse", "esta", "este", "são", "sao",
		"ser", "tem", "está", "esta", "foi", "vai", "não", "nao", "sim",
		// English
		"the", "and", "for", "you", "your", "with", "from", "that", "this",
		"are", "was", "our", "all", "not", "but", "can", "will", "has",
		"have", "its", "it's", "out", "about", "more", "into", "than",
		"them", "then", "they", "their", "what", "when", "where", "who",
		"how", "why", "one", "two", "get", "new", "now", "here",
	} {
		stopwords[w] = struct{}{}
	}
}

const minKeywordLen = 3

// extractKeywords returns the most frequent content words across the given
// texts, lowercased, most frequent first with alphabetical order breaking
// frequency ties. Hashtag text counts the same as bio text.
func extractKeywords(texts []string, limit int) []string {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, tok := range tokenize(text) {
			counts[tok]++
		}
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > limit {
		words = words[:limit]
	}
	return words
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < minKeywordLen {
			continue
		}
		if _, skip := stopwords[f]; skip {
			continue
		}
		out = append(out, f)
	}
	return out
}
