// Package responder implements the FAQ keyword matcher for the chat
// assistant. It is a pure function over an ordered ruleset: no state, no
// side effects, deterministic for identical input and rule order.
package responder

import "strings"

// Fallback is returned when no rule matches.
const Fallback = "I'm not sure yet, but I'll learn that soon!"

type Rule struct {
	Question string
	Answer   string
}

// Respond case-folds the input and returns the answer of the first rule
// whose case-folded question is a substring of it. Rule order is caller
// visible and must be stable (rules are loaded in created_at order), so
// when several questions overlap the oldest rule wins.
func Respond(input string, rules []Rule) string {
	folded := strings.ToLower(input)
	for _, rule := range rules {
		if rule.Question == "" {
			continue
		}
		if strings.Contains(folded, strings.ToLower(rule.Question)) {
			return rule.Answer
		}
	}
	return Fallback
}
