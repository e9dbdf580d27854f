package equivalence

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	interiorStopPhrases = []string{" a ", " an ", " by", " of ", " the ", " to "}
	leadingStopWords    = []string{"a", "an", "by", "of", "the", "to"}
	strippedCharacters  = strings.NewReplacer(
		" ", "", ",", "", ".", "", ";", "", "'", "", `"`, "",
		"(", "", ")", "", "|", "", `\`, "", "?", "", "!", "", "[", "", "]", "",
	)
	lowerCaser = cases.Lower(language.Und)
)

// NormalizeTitle canonicalizes a title for substring comparison. The result
// is lower case and contains no spaces or common punctuation, so applying it
// twice gives the same value.
func NormalizeTitle(title string) string {
	s := lowerCaser.String(title)

	for _, phrase := range interiorStopPhrases {
		s = strings.ReplaceAll(s, phrase, " ")
	}

	// Only whole leading words are stripped: "anathem" keeps its "an".
	for _, word := range leadingStopWords {
		if rest, ok := strings.CutPrefix(s, word+" "); ok {
			s = rest
		}
	}

	return strippedCharacters.Replace(s)
}

// titlesOverlap reports whether either normalized title contains the other.
// A title that normalizes to nothing never matches.
func titlesOverlap(a, b string) bool {
	na, nb := NormalizeTitle(a), NormalizeTitle(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// authorSet splits a display author list on ", " into lower-cased names.
func authorSet(authors string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, name := range strings.Split(authors, ", ") {
		name = strings.TrimSpace(lowerCaser.String(name))
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

func shareAuthor(a, b string) bool {
	left, right := authorSet(a), authorSet(b)
	for name := range left {
		if _, ok := right[name]; ok {
			return true
		}
	}
	return false
}
