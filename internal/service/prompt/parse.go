package prompt

import "strings"

const feelingMarker = "You are feeling "

// LastDoctorLine returns the text of the final [DOC] turn in p, or "" when p
// has none.
func LastDoctorLine(p string) string {
	i := strings.LastIndex(p, TagDoctor)
	if i < 0 {
		return ""
	}
	line := p[i+len(TagDoctor):]
	if j := strings.Index(line, TagPatient); j >= 0 {
		line = line[:j]
	}
	return strings.TrimSpace(line)
}

// EmotionOf returns the persona emotion named in p, or "".
func EmotionOf(p string) string {
	i := strings.Index(p, feelingMarker)
	if i < 0 {
		return ""
	}
	rest := p[i+len(feelingMarker):]
	if j := strings.IndexAny(rest, ". ["); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}

// PersonaOf returns the text before the first [DOC] turn of p.
func PersonaOf(p string) string {
	if i := strings.Index(p, TagDoctor); i >= 0 {
		p = p[:i]
	}
	return strings.TrimSpace(p)
}
