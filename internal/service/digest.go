package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/wellness-service/internal/engine"
	"github.com/Dan9191/wellness-service/internal/metrics"
	"github.com/Dan9191/wellness-service/internal/models"
	"github.com/Dan9191/wellness-service/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// UserLister enumerates digest recipients
type UserLister interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

// DigestSender delivers a scenario digest to one user
type DigestSender interface {
	SendScenarioDigest(to, username string, scenarios []*models.Scenario) error
}

// DigestJob emails every user with a saved snapshot a summary of it
type DigestJob struct {
	users  UserLister
	store  repository.ScenarioStore
	sender DigestSender
	log    *logrus.Logger
}

// NewDigestJob initializes the digest job
func NewDigestJob(users UserLister, store repository.ScenarioStore, sender DigestSender, log *logrus.Logger) *DigestJob {
	return &DigestJob{users: users, store: store, sender: sender, log: log}
}

// Run sends one digest per user with a snapshot and returns how many were sent.
// A failure for one user does not stop the others.
func (j *DigestJob) Run(ctx context.Context) (int, error) {
	users, err := j.users.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list digest recipients: %w", err)
	}

	sent := 0
	var errs []error
	for _, u := range users {
		set, err := j.store.LoadScenarios(ctx, u.ID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			j.log.WithError(err).WithField("user_id", u.ID).Warn("Skipping digest, snapshot unreadable")
			errs = append(errs, err)
			continue
		}
		for _, sc := range set {
			engine.Recompute(sc)
		}
		if err := j.sender.SendScenarioDigest(u.Email, u.Username, set.Ordered()); err != nil {
			metrics.DigestEmails.WithLabelValues("error").Inc()
			errs = append(errs, err)
			continue
		}
		metrics.DigestEmails.WithLabelValues("ok").Inc()
		sent++
	}

	j.log.Infof("Scenario digest sent to %d users", sent)
	return sent, errors.Join(errs...)
}

// Schedule registers the job on c using a standard five-field cron spec
func (j *DigestJob) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		if _, err := j.Run(context.Background()); err != nil {
			j.log.WithError(err).Error("Scenario digest finished with errors")
		}
	})
	if err != nil {
		return 0, fmt.Errorf("invalid digest schedule %q: %w", spec, err)
	}
	return id, nil
}
