package main

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pharmadocs/internal/application"
	"github.com/oksasatya/pharmadocs/internal/domain/repository"
	"github.com/oksasatya/pharmadocs/pkg/helpers"
)

type janitor struct {
	Blobs   repository.BlobRepository
	Objects repository.ObjectStore
	Logger  *logrus.Logger
}

// Handle retries one cleanup job. Already-gone data counts as success; any
// other failure drops the message after logging it.
func (j *janitor) Handle(ctx context.Context, body []byte) error {
	var job application.CleanupJob
	if err := json.Unmarshal(body, &job); err != nil {
		return helpers.Drop(err)
	}
	log := j.Logger.WithFields(logrus.Fields{"blob_id": job.BlobID, "object_key": job.ObjectKey})

	key := job.ObjectKey
	if job.BlobID != "" {
		b, err := j.Blobs.GetByID(ctx, job.BlobID)
		switch {
		case err == nil:
			key = b.ObjectKey
			if err := j.Blobs.Delete(ctx, job.BlobID); err != nil && !errors.Is(err, repository.ErrNotFound) {
				log.WithError(err).Warn("cleanup: delete metadata failed")
				return helpers.Drop(err)
			}
		case errors.Is(err, repository.ErrNotFound):
		default:
			log.WithError(err).Warn("cleanup: lookup failed")
			return helpers.Drop(err)
		}
	}
	if key == "" {
		return nil
	}
	if err := j.Objects.Delete(ctx, key); err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.WithError(err).Warn("cleanup: delete object failed")
		return helpers.Drop(err)
	}
	log.Info("cleanup: blob removed")
	return nil
}
