package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eoauman/sylman/internal/syllabus"
	"github.com/eoauman/sylman/internal/syllabus/repository"
)

var (
	ErrNotFound = errors.New("not found")
)

// ValidationError rejects client input: required scalar fields missing from a
// non-autosave save, or an unknown program code in the partial update. Autosave
// requests never produce one.
type ValidationError struct {
	Missing []string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Service defines the syllabus business operations used by the handler layer.
type Service interface {
	Create(ctx context.Context, userID string, data *syllabus.Document, autosave bool) (string, error)
	Get(ctx context.Context, id string) (*syllabus.Record, error)
	ListByUser(ctx context.Context, userID string) ([]*syllabus.Record, error)
	ListAll(ctx context.Context) ([]*syllabus.Record, error)
	Update(ctx context.Context, id string, data *syllabus.Document, lastEdited string, autosave bool) error
	UpdateProgram(ctx context.Context, id, program string) error
	Delete(ctx context.Context, id string) error
	Copy(ctx context.Context, id string) (string, error)
}

type syllabusService struct {
	repo repository.Repository
}

// New returns a Service over the given repository.
func New(repo repository.Repository) Service {
	return &syllabusService{repo: repo}
}

func (s *syllabusService) Create(ctx context.Context, userID string, data *syllabus.Document, autosave bool) (string, error) {
	if data == nil {
		data = &syllabus.Document{}
	}
	if !autosave {
		if missing := data.MissingRequired(); len(missing) > 0 {
			return "", &ValidationError{Missing: missing}
		}
	}
	rec := &syllabus.Record{UserID: userID, SyllabusData: *data.Clone()}
	return s.repo.Create(ctx, rec)
}

func (s *syllabusService) Get(ctx context.Context, id string) (*syllabus.Record, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *syllabusService) ListByUser(ctx context.Context, userID string) ([]*syllabus.Record, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *syllabusService) ListAll(ctx context.Context) ([]*syllabus.Record, error) {
	return s.repo.ListAll(ctx)
}

func (s *syllabusService) Update(ctx context.Context, id string, data *syllabus.Document, lastEdited string, autosave bool) error {
	if data == nil {
		data = &syllabus.Document{}
	}
	if !autosave {
		if missing := data.MissingRequired(); len(missing) > 0 {
			return &ValidationError{Missing: missing}
		}
	}
	err := s.repo.Update(ctx, id, data, lastEdited)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// UpdateProgram applies the narrow {programSelect} partial: the stored
// document is reloaded, only the program changes, everything else survives.
func (s *syllabusService) UpdateProgram(ctx context.Context, id, program string) error {
	if !syllabus.ValidProgram(program) {
		return &ValidationError{Reason: fmt.Sprintf("unknown program %q", program)}
	}
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	data := rec.SyllabusData.Clone()
	data.Program = program
	err = s.repo.Update(ctx, id, data, "")
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *syllabusService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Copy clones the source document into a new record with a fresh id. The copy
// keeps the source owner and severs identity: edits to the copy never touch
// the original.
func (s *syllabusService) Copy(ctx context.Context, id string) (string, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	rec := &syllabus.Record{UserID: src.UserID, SyllabusData: *src.SyllabusData.Clone()}
	return s.repo.Create(ctx, rec)
}
