package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/instrumentation"
	"paggie/trainer-app/internal/localcache"
	"paggie/trainer-app/internal/repository"
	"paggie/trainer-app/internal/validation"
)

var ErrProfileUserRequired = errors.New("profile user ID is required")

// StorageUsage is the local cache occupancy.
type StorageUsage struct {
	Used      int64   `json:"used"`
	Available int64   `json:"available"`
	Percent   float64 `json:"percent"`
	Full      bool    `json:"full"` // New writes are refused
}

// ProfileService reads and writes trainer profiles. The remote store is
// authoritative; the local cache keeps the last known copy.
type ProfileService interface {
	Load(ctx context.Context, userID string) (*domain.TrainerProfile, error)
	Save(ctx context.Context, userID string, profile domain.TrainerProfile) (*domain.TrainerProfile, error)
	Usage() (StorageUsage, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	cache       *localcache.Cache
	timeout     time.Duration
	metrics     *instrumentation.Instrumentation
}

// NewProfileService creates a profile service. profileRepo and cache may be
// nil; the service then works with whichever store is left.
func NewProfileService(profileRepo repository.ProfileRepository, cache *localcache.Cache, timeout time.Duration, metrics *instrumentation.Instrumentation) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		cache:       cache,
		timeout:     timeout,
		metrics:     metrics,
	}
}

// Load returns the remote profile and refreshes the cache with it. Any
// remote failure falls back to the cached copy. No profile at all is
// (nil, nil).
func (s *profileService) Load(ctx context.Context, userID string) (*domain.TrainerProfile, error) {
	if userID == "" {
		return nil, ErrProfileUserRequired
	}
	log := logrus.WithField("user", userID)

	if s.profileRepo != nil {
		profile, err := s.getRemote(ctx, userID)
		switch {
		case err == nil:
			s.writeCache(userID, profile)
			p := profile.WithDefaults()
			return &p, nil
		case errors.Is(err, repository.ErrNotFound):
			log.Debug("no remote profile")
		default:
			log.Warnf("remote profile unavailable, using local copy: %v", err)
		}
	}

	var cached domain.TrainerProfile
	if err := s.cache.GetJSON(localcache.ProfileKey(userID), &cached); err != nil {
		if !errors.Is(err, localcache.ErrNotFound) {
			log.Warnf("local profile unavailable: %v", err)
		}
		return nil, nil
	}
	cached.ID = userID
	cached = cached.WithDefaults()
	return &cached, nil
}

// Save writes the cache first, then the remote store. Remote failures are
// logged and never returned.
func (s *profileService) Save(ctx context.Context, userID string, profile domain.TrainerProfile) (*domain.TrainerProfile, error) {
	if userID == "" {
		return nil, ErrProfileUserRequired
	}
	profile.Name = strings.TrimSpace(profile.Name)
	if err := validation.First(
		validation.Required(profile.Name, "Nome"),
		validation.TextLength(profile.Name, 100, "Nome"),
	).Err(); err != nil {
		return nil, err
	}
	profile.ID = userID
	profile = profile.WithDefaults()
	profile.UpdatedAt = time.Now().UTC()

	s.writeCache(userID, &profile)

	if s.profileRepo != nil {
		ctx, cancel := s.withTimeout(ctx)
		defer cancel()
		if err := s.profileRepo.Upsert(ctx, &profile); err != nil {
			logrus.WithField("user", userID).Errorf("failed to save remote profile: %v", err)
		}
	}
	return &profile, nil
}

// Usage reports how much of the local cache quota is taken.
func (s *profileService) Usage() (StorageUsage, error) {
	used, err := s.cache.Usage()
	if err != nil {
		return StorageUsage{}, err
	}
	available := s.cache.MaxBytes()
	usage := StorageUsage{Used: used, Available: available}
	if available > 0 {
		usage.Percent = float64(used) / float64(available) * 100
	}
	if err := s.cache.Check(); err != nil {
		if !errors.Is(err, localcache.ErrQuotaExceeded) {
			return StorageUsage{}, err
		}
		usage.Full = true
	}
	return usage, nil
}

func (s *profileService) getRemote(ctx context.Context, userID string) (*domain.TrainerProfile, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.profileRepo.Get(ctx, userID)
}

func (s *profileService) writeCache(userID string, profile *domain.TrainerProfile) {
	if err := s.cache.SetJSON(localcache.ProfileKey(userID), profile); err != nil {
		logrus.WithField("user", userID).Warnf("failed to cache profile: %v", err)
		if s.metrics != nil {
			s.metrics.CounterCacheErrors.Inc()
		}
	}
}

func (s *profileService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
