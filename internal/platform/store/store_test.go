package store

import (
	"testing"
)

func TestStore_FromPlainTable(t *testing.T) {
	s := &Store{rel: Rel{Table: "patient", Cols: "id, name"}}

	if got := s.from(); got != "patient" {
		t.Errorf("expected from 'patient', got %q", got)
	}
	if got := s.alias(); got != "patient" {
		t.Errorf("expected alias 'patient', got %q", got)
	}
}

func TestStore_FromAliasAndJoin(t *testing.T) {
	s := &Store{rel: Rel{
		Table: "lab_order",
		Alias: "o",
		Cols:  "o.id, o.status",
		Join:  "JOIN patient p ON p.id = o.patient_id",
	}}

	want := "lab_order o JOIN patient p ON p.id = o.patient_id"
	if got := s.from(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got := s.alias(); got != "o" {
		t.Errorf("expected alias 'o', got %q", got)
	}
}

func TestStore_WhereLiveExcludesSoftDeleted(t *testing.T) {
	s := &Store{rel: Rel{Table: "patient"}}

	where, args, idx := s.where(Live, nil)
	if where != " WHERE 1=1 AND patient.deleted_at IS NULL" {
		t.Errorf("unexpected where: %q", where)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
	if idx != 1 {
		t.Errorf("expected next index 1, got %d", idx)
	}
}

func TestStore_WhereAllSeesSoftDeleted(t *testing.T) {
	s := &Store{rel: Rel{Table: "patient"}}

	where, _, _ := s.where(All, nil)
	if where != " WHERE 1=1" {
		t.Errorf("unexpected where: %q", where)
	}
}

func TestStore_WhereWithFilter(t *testing.T) {
	s := &Store{rel: Rel{Table: "test", Alias: "t"}}
	f := NewFilter().Eq("t.is_available", true).Gte("t.price", 20)

	where, args, idx := s.where(Live, f)
	want := " WHERE 1=1 AND t.deleted_at IS NULL AND t.is_available = $1 AND t.price >= $2"
	if where != want {
		t.Errorf("expected %q, got %q", want, where)
	}
	if len(args) != 2 {
		t.Errorf("expected 2 args, got %v", args)
	}
	if idx != 3 {
		t.Errorf("expected next index 3, got %d", idx)
	}
}

func TestStore_WhereJoinedRelationScopesPrimaryOnly(t *testing.T) {
	s := &Store{rel: Rel{
		Table: "lab_order",
		Alias: "o",
		Join:  "JOIN patient p ON p.id = o.patient_id",
	}}
	f := NewFilter().Contains("p.name", "doe")

	where, _, _ := s.where(Live, f)
	want := " WHERE 1=1 AND o.deleted_at IS NULL AND p.name ILIKE $1"
	if where != want {
		t.Errorf("expected %q, got %q", want, where)
	}
}
