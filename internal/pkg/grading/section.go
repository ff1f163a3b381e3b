package grading

import (
	"strings"

	"github.com/yigit/uniportal/internal/app/models"
)

// UnassignedSection selects students whose section matches none of the course sections
const UnassignedSection = "unassigned"

// NormalizeSection trims and lowercases a section name for comparison
func NormalizeSection(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SectionSet is a set of normalized section names
type SectionSet map[string]struct{}

// NewSectionSet builds a set from section names, ignoring blanks
func NewSectionSet(names ...string) SectionSet {
	set := make(SectionSet, len(names))
	for _, n := range names {
		if key := NormalizeSection(n); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

// SectionsOf collects the names of the given course sections
func SectionsOf(sections []*models.Section) SectionSet {
	names := make([]string, 0, len(sections))
	for _, s := range sections {
		names = append(names, s.Name)
	}
	return NewSectionSet(names...)
}

// Contains reports whether the (raw) section name is in the set
func (s SectionSet) Contains(name string) bool {
	key := NormalizeSection(name)
	if key == "" {
		return false
	}
	_, ok := s[key]
	return ok
}

// Intersects reports whether the two sets share at least one name
func (s SectionSet) Intersects(other SectionSet) bool {
	for k := range s {
		if _, ok := other[k]; ok {
			return true
		}
	}
	return false
}

// SameSection reports whether two raw section names denote the same section.
// Blank names never match, not even each other.
func SameSection(a, b string) bool {
	na, nb := NormalizeSection(a), NormalizeSection(b)
	return na != "" && na == nb
}

// FilterRoster keeps the roster entries whose student section satisfies keep
func FilterRoster(roster []models.RosterEntry, keep func(section string) bool) []models.RosterEntry {
	out := make([]models.RosterEntry, 0, len(roster))
	for _, r := range roster {
		if keep(r.Student.Section) {
			out = append(out, r)
		}
	}
	return out
}

// MarksOf extracts the marks of a roster, skipping entries without marks
func MarksOf(roster []models.RosterEntry) []*models.StudentMark {
	marks := make([]*models.StudentMark, 0, len(roster))
	for _, r := range roster {
		if r.Mark != nil {
			marks = append(marks, r.Mark)
		}
	}
	return marks
}
