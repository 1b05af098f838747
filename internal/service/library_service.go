package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"paggie/trainer-app/internal/catalog"
	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/repository"
	"paggie/trainer-app/internal/validation"
)

// --- Error Definitions ---
var (
	ErrLibraryUnavailable = errors.New("Biblioteca personalizada indisponível no momento.")
	ErrLibraryDuplicate   = errors.New("Já existe um exercício com este nome nesta categoria.")
)

// LibraryService lists the exercise library of a trainer: the built-in
// catalog followed by the trainer's own items.
type LibraryService interface {
	Items(ctx context.Context, trainerID string) []domain.LibraryItem
	CreateItem(ctx context.Context, trainerID string, item domain.LibraryItem) (*domain.LibraryItem, error)
}

// libraryService implements the LibraryService interface.
type libraryService struct {
	libraryRepo repository.LibraryRepository
	timeout     time.Duration
}

// NewLibraryService creates a library service. Without a repository only
// the built-in catalog is served.
func NewLibraryService(libraryRepo repository.LibraryRepository, timeout time.Duration) LibraryService {
	return &libraryService{
		libraryRepo: libraryRepo,
		timeout:     timeout,
	}
}

// Items never fails: custom items that cannot be loaded are left out.
func (s *libraryService) Items(ctx context.Context, trainerID string) []domain.LibraryItem {
	items := catalog.Builtin()
	if s.libraryRepo == nil || trainerID == "" {
		return items
	}

	ctx, cancel := context.WithTimeout(ctx, s.remoteTimeout())
	defer cancel()
	custom, err := s.libraryRepo.GetByTrainerID(ctx, trainerID)
	if err != nil {
		logrus.WithField("trainer", trainerID).Warnf("custom library items unavailable: %v", err)
		return items
	}
	return append(items, custom...)
}

// CreateItem stores a custom item for trainerID.
func (s *libraryService) CreateItem(ctx context.Context, trainerID string, item domain.LibraryItem) (*domain.LibraryItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)
	if err := validation.First(
		validation.Required(item.Name, "Nome do exercício"),
		validation.TextLength(item.Name, 80, "Nome do exercício"),
		validation.Required(item.Category, "Categoria"),
		validation.TextLength(item.Category, 40, "Categoria"),
	).Err(); err != nil {
		return nil, err
	}
	if item.Category == catalog.AllCategories {
		return nil, &validation.Error{Message: "Categoria inválida."}
	}
	if s.libraryRepo == nil {
		return nil, ErrLibraryUnavailable
	}
	item.TrainerID = trainerID

	ctx, cancel := context.WithTimeout(ctx, s.remoteTimeout())
	defer cancel()
	if err := s.libraryRepo.Create(ctx, &item); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrLibraryDuplicate
		case errors.Is(err, repository.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
			return nil, ErrLibraryUnavailable
		}
		return nil, err
	}
	return &item, nil
}

func (s *libraryService) remoteTimeout() time.Duration {
	if s.timeout <= 0 {
		return 30 * time.Second
	}
	return s.timeout
}
