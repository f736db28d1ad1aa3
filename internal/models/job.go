package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Job types accepted on create/update.
var JobTypes = map[string]bool{
	"full-time": true,
	"part-time": true,
	"contract":  true,
}

// Job is a listed position.
type Job struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Company    string             `bson:"company" json:"company"`
	Location   string             `bson:"location" json:"location"`
	Type       string             `bson:"type" json:"type"`
	Budget     string             `bson:"budget" json:"budget"`
	Skills     []string           `bson:"skills" json:"skills"`
	IsFeatured bool               `bson:"is_featured" json:"is_featured"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`

	// Posted is computed at read time.
	Posted string `bson:"-" json:"posted"`
}

// PostedAgo renders the job's age relative to now.
func (j *Job) PostedAgo(now time.Time) string {
	days := int(now.Sub(j.CreatedAt).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}
