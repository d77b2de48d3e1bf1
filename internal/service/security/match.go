package security

import "github.com/gobwas/glob"

// MatchPermission reports whether the candidate permission name satisfies the
// required pattern. Patterns use glob syntax where "*" matches any run of
// characters, including across "." separators, so "*.users.read" matches both
// "admin.users.read" and "basic.users.read". Matching is case-sensitive and
// performs no normalization. An unparseable pattern matches nothing.
func MatchPermission(candidate, pattern string) bool {
	g, err := glob.Compile(pattern)
	if err != nil {
		return false
	}
	return g.Match(candidate)
}

// MatchAll filters candidates down to the ones satisfying the pattern,
// preserving input order.
func MatchAll(candidates []string, pattern string) []string {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil
	}
	var matched []string
	for _, c := range candidates {
		if g.Match(c) {
			matched = append(matched, c)
		}
	}
	return matched
}
