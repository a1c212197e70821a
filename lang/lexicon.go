package lang

import "strings"

// LexiconVersion identifies the revision of ShengLexicon.
// Bump it whenever entries are added or removed.
const LexiconVersion = "2025.1"

// ShengLexicon lists the slang markers that force a message to sheng.
// Entries are lower case. Multi-word entries match consecutive tokens.
var ShengLexicon = []string{
	"poa", "sasa", "msee", "hao", "niko", "rada", "mbona", "nani",
	"chill", "flani", "ngoja", "buda", "sijui", "fanya", "piga",
	"genje", "keja", "single", "bed moja", "mtaa", "mraazi", "bonga",
	"wazi", "stage", "tulia", "hama", "kuinama", "westi", "kanairo",
	"kasa", "tao", "bukla", "punch", "mat", "caretaker",
}

// lexicon is a compiled form of a word list.
type lexicon struct {
	words   map[string]struct{}
	phrases [][]string
}

func compileLexicon(entries []string) *lexicon {
	lx := &lexicon{words: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		parts := strings.Fields(strings.ToLower(e))
		switch len(parts) {
		case 0:
		case 1:
			lx.words[parts[0]] = struct{}{}
		default:
			lx.phrases = append(lx.phrases, parts)
		}
	}
	return lx
}

// match reports whether any token, or run of tokens, is in the lexicon.
func (lx *lexicon) match(tokens []string) bool {
	for i, tok := range tokens {
		if _, ok := lx.words[tok]; ok {
			return true
		}
		for _, phrase := range lx.phrases {
			if hasPhraseAt(tokens, i, phrase) {
				return true
			}
		}
	}
	return false
}

func hasPhraseAt(tokens []string, i int, phrase []string) bool {
	if i+len(phrase) > len(tokens) {
		return false
	}
	for j, p := range phrase {
		if tokens[i+j] != p {
			return false
		}
	}
	return true
}
