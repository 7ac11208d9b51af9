package env

import "strings"

// CandidateNames expands a reference into the fully-qualified names tried,
// in order, during container-relative resolution (spec §3.6): given
// container "x.y" and ref "a.b.c", the candidates are "x.y.a.b.c",
// "x.a.b.c", "a.b.c" — each successively shorter prefix of the container,
// joined with the reference, ending with the bare reference itself.
//
// A reference with a leading dot is absolute: the container walk is
// skipped entirely and the only candidate is the reference with the dot
// stripped.
func CandidateNames(container, ref string) []string {
	if strings.HasPrefix(ref, ".") {
		return []string{ref[1:]}
	}
	if container == "" {
		return []string{ref}
	}
	segments := strings.Split(container, ".")
	candidates := make([]string, 0, len(segments)+1)
	for i := len(segments); i >= 0; i-- {
		prefix := strings.Join(segments[:i], ".")
		if prefix == "" {
			candidates = append(candidates, ref)
		} else {
			candidates = append(candidates, prefix+"."+ref)
		}
	}
	return candidates
}
