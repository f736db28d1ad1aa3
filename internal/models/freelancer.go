package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Freelancer is a marketplace profile. ClerkID links it to the owning user.
type Freelancer struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClerkID         string             `bson:"clerk_id,omitempty" json:"clerk_id,omitempty"`
	Name            string             `bson:"name" json:"name"`
	Title           string             `bson:"title" json:"title"`
	ProfessionID    primitive.ObjectID `bson:"profession_id,omitempty" json:"profession_id,omitempty"`
	County          string             `bson:"county" json:"county"`
	Constituency    string             `bson:"constituency" json:"constituency"`
	Ward            string             `bson:"ward" json:"ward"`
	Rating          float64            `bson:"rating" json:"rating"`
	ReviewCount     int                `bson:"review_count" json:"review_count"`
	CompletedJobs   int                `bson:"completed_jobs" json:"completed_jobs"`
	Skills          []string           `bson:"skills" json:"skills"`
	Avatar          string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	YearsExperience int                `bson:"years_experience" json:"years_experience"`
	HourlyRate      float64            `bson:"hourly_rate" json:"hourly_rate"`
	Availability    string             `bson:"availability,omitempty" json:"availability,omitempty"`
	IsFeatured      bool               `bson:"is_featured" json:"is_featured"`
	IsActive        bool               `bson:"is_active" json:"is_active"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// AvatarInitials returns up to two uppercase initials for profiles without
// an avatar image.
func (f *Freelancer) AvatarInitials() string {
	return Initials(f.Name)
}

// Initials computes up to two uppercase initials from a display name.
func Initials(name string) string {
	parts := strings.Fields(name)
	if len(parts) >= 2 {
		return strings.ToUpper(parts[0][:1] + parts[1][:1])
	}
	if name == "" {
		return ""
	}
	if len(name) == 1 {
		return strings.ToUpper(name)
	}
	return strings.ToUpper(name[:2])
}
