// Package phrase expands a multi-word directive key into every spelling a
// configuration author might use for it.
//
// Between each pair of adjacent words the author may write a single space or
// nothing at all, so an n-word phrase has 2^(n-1) spellings:
//
//	Expand("db name")           // ["db name", "dbname"]
//	Expand("maximum job count") // 4 spellings
//
// The result is sorted so that a grammar built from it tries spellings in a
// stable, reproducible order.
package phrase

import (
	"sort"
	"strings"
)

// Expand returns all spellings of phrase, sorted ascending.
// A single-word phrase yields itself; an empty phrase yields nothing.
func Expand(phrase string) []string {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return nil
	}
	result := combine(words)
	sort.Strings(result)
	return result
}

// combine joins words[0] to every expansion of the remaining words, once
// directly and once with a space.
func combine(words []string) []string {
	if len(words) == 1 {
		return []string{words[0]}
	}
	if len(words) == 2 {
		return []string{words[0] + words[1], words[0] + " " + words[1]}
	}
	rest := combine(words[1:])
	result := make([]string, 0, 2*len(rest))
	for _, tail := range rest {
		result = append(result, words[0]+tail, words[0]+" "+tail)
	}
	return result
}

// Spellings expands each phrase and merges the results into one sorted set
// without duplicates. It is used for fields that accept several unrelated
// keys, such as "user" and "db user".
func Spellings(phrases ...string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, p := range phrases {
		for _, s := range Expand(p) {
			if !seen[s] {
				seen[s] = true
				result = append(result, s)
			}
		}
	}
	sort.Strings(result)
	return result
}
