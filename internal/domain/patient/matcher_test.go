package patient

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "John Doe", []string{"john", "doe"}},
		{"extra whitespace", "  John \t Doe  ", []string{"john", "doe"}},
		{"repeated words", "John john JOHN Doe", []string{"john", "doe"}},
		{"empty", "", []string{}},
		{"whitespace only", " \t\n ", []string{}},
		{"single word", "Cher", []string{"cher"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeName(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("normalizeName(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNamesMatch(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"identical", "John Doe", "John Doe", true},
		{"case and order insensitive", "doe JOHN", "John Doe", true},
		{"shorter subset of longer", "Doe Joe", "Doe S Joe", true},
		{"longer contains shorter", "Doe S Joe", "Doe Joe", true},
		{"same length different words", "John Smith", "John Doe", false},
		{"disjoint", "Jane Roe", "John Doe", false},
		{"shorter not contained", "Doe Jane", "Doe S Joe", false},
		{"both empty", "", "", false},
		{"one empty", "", "John Doe", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := namesMatch(normalizeName(tt.a), normalizeName(tt.b))
			if got != tt.want {
				t.Errorf("namesMatch(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDayRange(t *testing.T) {
	dob := time.Date(1990, 1, 15, 15, 30, 0, 0, time.FixedZone("ICT", 7*3600))
	from, to := dayRange(dob)

	wantFrom := time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC)
	if !from.Equal(wantFrom) {
		t.Errorf("expected range start %v, got %v", wantFrom, from)
	}
	if to.Day() != 15 || to.Hour() != 23 || to.Minute() != 59 {
		t.Errorf("expected range end inside the same UTC day, got %v", to)
	}
	if !to.After(from) {
		t.Error("expected end after start")
	}
}

func TestDayRange_CrossesUTCMidnight(t *testing.T) {
	// 01:30 in UTC+7 on the 16th is still the 15th in UTC.
	dob := time.Date(1990, 1, 16, 1, 30, 0, 0, time.FixedZone("ICT", 7*3600))
	from, _ := dayRange(dob)
	if from.Day() != 15 {
		t.Errorf("expected UTC day 15, got %d", from.Day())
	}
}

func seedPatient(t *testing.T, repo *mockPatientRepo, name string, dob time.Time) *Patient {
	t.Helper()
	p := &Patient{Name: name, DOB: dob, Gender: GenderMale}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error seeding patient: %v", err)
	}
	return p
}

func TestFindDuplicate_ExactName(t *testing.T) {
	repo := newMockPatientRepo()
	dob := time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC)
	existing := seedPatient(t, repo, "John Doe", dob)

	m := NewMatcher(repo)
	dup, err := m.FindDuplicate(context.Background(), "John Doe", dob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup == nil || dup.ID != existing.ID {
		t.Errorf("expected the existing patient back, got %+v", dup)
	}
}

func TestFindDuplicate_WordSubset(t *testing.T) {
	repo := newMockPatientRepo()
	dob := time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC)
	existing := seedPatient(t, repo, "John Doe Joe", dob)

	m := NewMatcher(repo)
	dup, err := m.FindDuplicate(context.Background(), "Doe Joe", dob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup == nil || dup.ID != existing.ID {
		t.Errorf("expected subset name to match, got %+v", dup)
	}
}

func TestFindDuplicate_SupersetCandidate(t *testing.T) {
	repo := newMockPatientRepo()
	dob := time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC)
	existing := seedPatient(t, repo, "Doe Joe", dob)

	m := NewMatcher(repo)
	dup, err := m.FindDuplicate(context.Background(), "John Doe Joe", dob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup == nil || dup.ID != existing.ID {
		t.Errorf("expected superset candidate to match, got %+v", dup)
	}
}

func TestFindDuplicate_SameDayDifferentTime(t *testing.T) {
	repo := newMockPatientRepo()
	seedPatient(t, repo, "John Doe", time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC))

	m := NewMatcher(repo)
	dup, err := m.FindDuplicate(context.Background(), "John Doe", time.Date(1990, 1, 15, 18, 45, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup == nil {
		t.Error("expected a time-of-day difference on the same day to still match")
	}
}

func TestFindDuplicate_DifferentDay(t *testing.T) {
	repo := newMockPatientRepo()
	seedPatient(t, repo, "John Doe", time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC))

	m := NewMatcher(repo)
	dup, err := m.FindDuplicate(context.Background(), "John Doe", time.Date(1990, 1, 16, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup != nil {
		t.Errorf("expected no duplicate across days, got %+v", dup)
	}
}

func TestFindDuplicate_PrefilterHitWithoutSubset(t *testing.T) {
	repo := newMockPatientRepo()
	dob := time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC)
	// Shares the word "john" so the prefilter returns it, but the word
	// sets have equal size and differ, so the subset rule rejects it.
	seedPatient(t, repo, "John Doe", dob)

	m := NewMatcher(repo)
	dup, err := m.FindDuplicate(context.Background(), "John Smith", dob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup != nil {
		t.Errorf("expected prefilter candidate to be rejected, got %+v", dup)
	}
}

func TestFindDuplicate_EmptyNameSkipsMatching(t *testing.T) {
	repo := newMockPatientRepo()
	dob := time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC)
	seedPatient(t, repo, "John Doe", dob)

	m := NewMatcher(repo)
	dup, err := m.FindDuplicate(context.Background(), "   ", dob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup != nil {
		t.Errorf("expected empty name to skip matching, got %+v", dup)
	}
	if repo.candidateCalls != 0 {
		t.Errorf("expected no store query for an empty name, got %d", repo.candidateCalls)
	}
}

func TestFindDuplicate_IgnoresSoftDeleted(t *testing.T) {
	repo := newMockPatientRepo()
	dob := time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC)
	existing := seedPatient(t, repo, "John Doe", dob)
	if err := repo.SoftDelete(context.Background(), existing.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := NewMatcher(repo)
	dup, err := m.FindDuplicate(context.Background(), "John Doe", dob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup != nil {
		t.Errorf("expected soft-deleted patients to be invisible, got %+v", dup)
	}
}

func TestFindDuplicate_FirstMatchInStoreOrder(t *testing.T) {
	repo := newMockPatientRepo()
	dob := time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC)
	seedPatient(t, repo, "John Doe", dob)
	newest := seedPatient(t, repo, "John Doe Smith", dob)

	m := NewMatcher(repo)
	dup, err := m.FindDuplicate(context.Background(), "John Doe", dob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The store lists newest first, so the most recent match wins.
	if dup == nil || dup.ID != newest.ID {
		t.Errorf("expected the newest matching patient, got %+v", dup)
	}
}
