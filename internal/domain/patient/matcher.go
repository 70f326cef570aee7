package patient

import (
	"context"
	"strings"
	"time"
)

// Matcher guards against double-registration of the same physical patient
// under slightly different name spellings. A duplicate is an existing live
// patient born on the same UTC day whose name matches by the word-subset
// rule below.
type Matcher struct {
	repo Repository
}

func NewMatcher(repo Repository) *Matcher {
	return &Matcher{repo: repo}
}

// FindDuplicate returns the first matching live patient, or nil when none
// matches. Names with no words after normalization never match anything.
//
// The repository prefilter narrows to patients born in the candidate's day
// range whose name contains at least one candidate word; the word-subset
// rule then decides per row. The first row in store order wins.
func (m *Matcher) FindDuplicate(ctx context.Context, name string, dob time.Time) (*Patient, error) {
	words := normalizeName(name)
	if len(words) == 0 {
		return nil, nil
	}

	from, to := dayRange(dob)
	candidates, err := m.repo.FindCandidates(ctx, from, to, words)
	if err != nil {
		return nil, err
	}
	for _, p := range candidates {
		if namesMatch(words, normalizeName(p.Name)) {
			return p, nil
		}
	}
	return nil, nil
}

// normalizeName lowercases a name and splits it on whitespace into unique
// words, preserving first-occurrence order.
func normalizeName(name string) []string {
	fields := strings.Fields(strings.ToLower(name))
	seen := make(map[string]struct{}, len(fields))
	words := make([]string, 0, len(fields))
	for _, w := range fields {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}

// namesMatch applies the word-subset rule: every word of the shorter name
// (fewer unique words) must appear in the longer one. "Doe S Joe" and
// "Doe Joe" match; "Doe Joe" and "Doe Jane" do not. The relation is
// deliberately not transitive.
func namesMatch(a, b []string) bool {
	shorter, longer := a, b
	if len(b) < len(a) {
		shorter, longer = b, a
	}
	if len(shorter) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(longer))
	for _, w := range longer {
		set[w] = struct{}{}
	}
	for _, w := range shorter {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}

// dayRange widens a date of birth to its UTC day bounds. Stored dates of
// birth may carry a time component; comparisons never should.
func dayRange(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}
