// Package moderation screens seller-supplied listing text against a denied
// keyword set before anything reaches the catalog.
package moderation

import (
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// defaultDeniedTerms is intentionally small; operators extend it via
// NewScreenerWithTerms at wiring time.
var defaultDeniedTerms = []string{
	"weapon",
	"weaponized",
	"firearm",
	"explosive",
	"surveillance implant",
}

// Screener matches listing text against the denied term set.
type Screener struct {
	matcher ahocorasick.AhoCorasick
}

func NewScreener() *Screener {
	return NewScreenerWithTerms(defaultDeniedTerms)
}

func NewScreenerWithTerms(terms []string) *Screener {
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
		DFA:                  true,
	})
	return &Screener{matcher: builder.Build(terms)}
}

// Flagged returns the denied terms found in the text, nil when clean.
func (s *Screener) Flagged(text string) []string {
	matches := s.matcher.FindAll(text)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	var flagged []string
	for _, m := range matches {
		term := strings.ToLower(text[m.Start():m.End()])
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		flagged = append(flagged, term)
	}
	return flagged
}

// Allow reports whether the text passes the screen.
func (s *Screener) Allow(text string) bool {
	return len(s.Flagged(text)) == 0
}
