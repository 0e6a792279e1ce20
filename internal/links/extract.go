// Package links finds community cross-references in free text.
package links

import "regexp"

// refExpr is the platform reference syntax: the literal "r/" followed by a
// community name. A leading slash or host is allowed but not required.
var refExpr = regexp.MustCompile(`r/([A-Za-z0-9_]+)`)

// Extract returns every community name referenced in text, unique and in
// first-seen order. Case is preserved.
func Extract(text string) []string {
	matches := refExpr.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
