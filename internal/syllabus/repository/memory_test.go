package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/eoauman/sylman/internal/syllabus"
)

func TestMemoryRepoCRUD(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	rec := &syllabus.Record{UserID: "u1", SyllabusData: syllabus.Document{Program: syllabus.ProgramBSCS}}
	id, err := repo.Create(ctx, rec)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if id == "" {
		t.Fatalf("expected assigned id")
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.UserID != "u1" || got.SyllabusData.Program != syllabus.ProgramBSCS {
		t.Fatalf("unexpected record: %+v", got)
	}

	data := got.SyllabusData.Clone()
	data.Course.Title = "Databases"
	if err := repo.Update(ctx, id, data, "2026-01-02T03:04:05Z"); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, _ = repo.Get(ctx, id)
	if got.SyllabusData.Course.Title != "Databases" {
		t.Fatalf("update not applied: %+v", got.SyllabusData.Course)
	}
	if got.SyllabusData.LastEdited != "2026-01-02T03:04:05Z" {
		t.Fatalf("lastEdited not stored: %q", got.SyllabusData.LastEdited)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepoUnknownID(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if err := repo.Update(ctx, "nope", &syllabus.Document{}, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
	if err := repo.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
}

func TestMemoryRepoListByUser(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	for _, user := range []string{"u1", "u1", "u2"} {
		if _, err := repo.Create(ctx, &syllabus.Record{UserID: user}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	mine, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 records, got %d", len(mine))
	}
	all, _ := repo.ListAll(ctx)
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	id, _ := repo.Create(ctx, &syllabus.Record{
		UserID:       "u1",
		SyllabusData: syllabus.Document{Policies: map[string]string{"attendance": "original"}},
	})
	got, _ := repo.Get(ctx, id)
	got.SyllabusData.Policies["attendance"] = "mutated"
	again, _ := repo.Get(ctx, id)
	if again.SyllabusData.Policies["attendance"] != "original" {
		t.Fatalf("stored record aliased by reader")
	}
}
