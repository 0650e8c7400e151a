package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Skill levels accepted for Course.MinimumSkill.
var Skills = []string{"beginner", "intermediate", "advanced"}

// Course belongs to exactly one bootcamp. Bootcamp is fixed at creation.
type Course struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title                string             `json:"title" bson:"title" validate:"required,max=100"`
	Description          string             `json:"description" bson:"description" validate:"required"`
	Weeks                int                `json:"weeks" bson:"weeks" validate:"required,min=1"`
	Tuition              float64            `json:"tuition" bson:"tuition" validate:"min=0"`
	MinimumSkill         string             `json:"minimumSkill" bson:"minimumSkill" validate:"required,skill"`
	ScholarshipAvailable bool               `json:"scholarshipAvailable" bson:"scholarshipAvailable"`
	CreatedAt            time.Time          `json:"createdAt" bson:"createdAt"`
	Bootcamp             primitive.ObjectID `json:"bootcamp" bson:"bootcamp"`
}

// PopulatedCourse is a course whose bootcamp reference has been resolved.
// The outer Bootcamp field shadows Course.Bootcamp when encoded.
type PopulatedCourse struct {
	Course
	Bootcamp *BootcampSummary `json:"bootcamp"`
}
