package service

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/repository"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
	err   error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[primitive.ObjectID]domain.User{}}
}

func (m *memoryUsers) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return primitive.NilObjectID, m.err
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	m.users[user.ID] = *user
	return user.ID, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUsers) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memoryUsers) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	m.users[id] = u
	return nil
}

type memoryProfiles struct {
	mu       sync.Mutex
	profiles map[string]domain.TrainerProfile
	getErr   error
	upErr    error
	upserts  int
}

func newMemoryProfiles() *memoryProfiles {
	return &memoryProfiles{profiles: map[string]domain.TrainerProfile{}}
}

func (m *memoryProfiles) Get(_ context.Context, userID string) (*domain.TrainerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memoryProfiles) Upsert(_ context.Context, p *domain.TrainerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	if m.upErr != nil {
		return m.upErr
	}
	m.profiles[p.ID] = *p
	return nil
}

type memoryLibrary struct {
	mu    sync.Mutex
	items []domain.LibraryItem
	err   error
	n     int
}

func (m *memoryLibrary) Create(_ context.Context, item *domain.LibraryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, it := range m.items {
		if it.TrainerID == item.TrainerID && it.Category == item.Category && it.Name == item.Name {
			return repository.ErrDuplicate
		}
	}
	m.n++
	item.ID = "u-" + string(rune('0'+m.n))
	item.Custom = true
	m.items = append(m.items, *item)
	return nil
}

func (m *memoryLibrary) GetByTrainerID(_ context.Context, trainerID string) ([]domain.LibraryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.LibraryItem{}
	for _, it := range m.items {
		if it.TrainerID == trainerID {
			out = append(out, it)
		}
	}
	return out, nil
}

type memoryArtifacts struct {
	mu        sync.Mutex
	artifacts map[primitive.ObjectID]domain.Artifact
}

func newMemoryArtifacts() *memoryArtifacts {
	return &memoryArtifacts{artifacts: map[primitive.ObjectID]domain.Artifact{}}
}

func (m *memoryArtifacts) Create(_ context.Context, a *domain.Artifact) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	m.artifacts[a.ID] = *a
	return a.ID, nil
}

func (m *memoryArtifacts) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.artifacts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (m *memoryArtifacts) GetByTrainerID(_ context.Context, trainerID string, _ int64) ([]domain.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Artifact{}
	for _, a := range m.artifacts {
		if a.TrainerID == trainerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryArtifacts) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.artifacts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.artifacts, id)
	return nil
}
