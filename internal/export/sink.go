package export

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/repository"
	"paggie/trainer-app/internal/storage"
)

// StorageSink writes files to object storage and records their metadata.
type StorageSink struct {
	storage   storage.FileStorage
	artifacts repository.ArtifactRepository
	expiry    time.Duration
	now       func() time.Time
}

// NewStorageSink creates a sink. artifacts may be nil, in which case no
// metadata is recorded.
func NewStorageSink(st storage.FileStorage, artifacts repository.ArtifactRepository, expiry time.Duration) *StorageSink {
	return &StorageSink{
		storage:   st,
		artifacts: artifacts,
		expiry:    expiry,
		now:       time.Now,
	}
}

// ObjectKey is where an export of trainerID is stored.
func ObjectKey(trainerID, filename string, at time.Time) string {
	if trainerID == "" {
		trainerID = "anonymous"
	}
	return fmt.Sprintf("exports/%s/%s_%s", trainerID, at.UTC().Format("20060102T150405"), filename)
}

func (s *StorageSink) Store(ctx context.Context, artifact domain.Artifact, data []byte) (*domain.Artifact, error) {
	artifact.CreatedAt = s.now().UTC()
	artifact.ObjectKey = ObjectKey(artifact.TrainerID, artifact.FileName, artifact.CreatedAt)
	artifact.Size = int64(len(data))

	if err := s.storage.PutObject(ctx, artifact.ObjectKey, artifact.ContentType, data); err != nil {
		return nil, fmt.Errorf("put %s: %w", artifact.ObjectKey, err)
	}

	if s.artifacts != nil {
		if _, err := s.artifacts.Create(ctx, &artifact); err != nil {
			// The file is stored; only the history entry is lost.
			logrus.WithField("key", artifact.ObjectKey).Warnf("failed to record artifact: %v", err)
		}
	}

	url, err := s.storage.GeneratePresignedDownloadURL(ctx, artifact.ObjectKey, s.expiry)
	if err != nil {
		logrus.WithField("key", artifact.ObjectKey).Warnf("failed to create download url: %v", err)
	}
	artifact.URL = url
	return &artifact, nil
}
