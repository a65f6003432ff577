package service

import (
	"context"
	"errors"
	"testing"

	"github.com/eoauman/sylman/internal/syllabus"
	"github.com/eoauman/sylman/internal/syllabus/repository"
)

func completeDoc() *syllabus.Document {
	return &syllabus.Document{
		Course:  syllabus.CourseInfo{Title: "Operating Systems", Number: "CS401"},
		Program: syllabus.ProgramBSCS,
	}
}

func TestCreateValidatesManualSaves(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", &syllabus.Document{}, false)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Missing) != 3 {
		t.Fatalf("unexpected missing set: %v", verr.Missing)
	}

	id, err := svc.Create(ctx, "u1", completeDoc(), false)
	if err != nil || id == "" {
		t.Fatalf("create failed: %v (id=%q)", err, id)
	}
}

func TestAutosaveSkipsValidation(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	ctx := context.Background()

	// an entirely empty draft persists when flagged as autosave
	id, err := svc.Create(ctx, "u1", &syllabus.Document{}, true)
	if err != nil {
		t.Fatalf("autosave create failed: %v", err)
	}
	if err := svc.Update(ctx, id, &syllabus.Document{}, "", true); err != nil {
		t.Fatalf("autosave update failed: %v", err)
	}
	// the same payload fails a manual save
	if err := svc.Update(ctx, id, &syllabus.Document{}, "", false); err == nil {
		t.Fatalf("expected validation error on manual save")
	}
}

func TestUpdateUnknownIDIsNotFound(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	err := svc.Update(context.Background(), "gone", completeDoc(), "", false)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProgramKeepsEverythingElse(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	ctx := context.Background()

	doc := completeDoc()
	doc.Policies = map[string]string{"attendance": "strict"}
	id, err := svc.Create(ctx, "u1", doc, false)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.UpdateProgram(ctx, id, syllabus.ProgramBSIT); err != nil {
		t.Fatalf("program update failed: %v", err)
	}
	rec, _ := svc.Get(ctx, id)
	if rec.SyllabusData.Program != syllabus.ProgramBSIT {
		t.Fatalf("program not updated: %q", rec.SyllabusData.Program)
	}
	if rec.SyllabusData.Course.Title != "Operating Systems" || rec.SyllabusData.Policies["attendance"] != "strict" {
		t.Fatalf("partial update clobbered other fields: %+v", rec.SyllabusData)
	}

	// an unknown code is a client error, not an internal one
	var verr *ValidationError
	if err := svc.UpdateProgram(ctx, id, "BOGUS"); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for unknown program, got %v", err)
	}
}

func TestCopySeversIdentity(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	ctx := context.Background()

	id, _ := svc.Create(ctx, "u1", completeDoc(), false)
	newID, err := svc.Copy(ctx, id)
	if err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if newID == id {
		t.Fatalf("copy reused source id")
	}

	fresh := completeDoc()
	fresh.Course.Title = "Edited Copy"
	if err := svc.Update(ctx, newID, fresh, "", false); err != nil {
		t.Fatalf("update copy failed: %v", err)
	}
	src, _ := svc.Get(ctx, id)
	if src.SyllabusData.Course.Title != "Operating Systems" {
		t.Fatalf("editing the copy touched the original: %+v", src.SyllabusData.Course)
	}
	cp, _ := svc.Get(ctx, newID)
	if cp.UserID != "u1" {
		t.Fatalf("copy lost the owner: %q", cp.UserID)
	}
}

func TestCopyUnknownID(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	if _, err := svc.Copy(context.Background(), "gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
