package images

import "strings"

// Rule rewrites the search query of Word when the session theme is Theme.
type Rule struct {
	Word  string
	Theme string
	Query string
}

// DefaultRules covers words whose literal meaning is a colour but which name
// an object under a given theme.
var DefaultRules = []Rule{
	{Word: "marron", Theme: "automne", Query: "châtaigne marron"},
}

type ruleKey struct {
	word, theme string
}

// Disambiguator is a lookup table of (word, theme) -> query rewrites.
// Matching ignores case and surrounding spaces.
type Disambiguator struct {
	rules map[ruleKey]string
}

func NewDisambiguator(rules []Rule) *Disambiguator {
	d := &Disambiguator{rules: make(map[ruleKey]string, len(rules))}
	for _, r := range rules {
		d.Add(r)
	}
	return d
}

func (d *Disambiguator) Add(r Rule) {
	d.rules[ruleKey{normalize(r.Word), normalize(r.Theme)}] = r.Query
}

// Rewrite returns the query to search for word under theme.
func (d *Disambiguator) Rewrite(word, theme string) string {
	if d != nil {
		if q, ok := d.rules[ruleKey{normalize(word), normalize(theme)}]; ok {
			return q
		}
	}
	return word
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
