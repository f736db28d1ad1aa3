package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJobPostedAgo(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	job := &Job{CreatedAt: now.Add(-2 * time.Hour)}
	assert.Equal(t, "Today", job.PostedAgo(now))

	job.CreatedAt = now.Add(-30 * time.Hour)
	assert.Equal(t, "1 day ago", job.PostedAgo(now))

	job.CreatedAt = now.Add(-5 * 24 * time.Hour)
	assert.Equal(t, "5 days ago", job.PostedAgo(now))
}
