package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPhoto is stored for bootcamps that never had a photo uploaded.
const DefaultPhoto = "no-photo.jpg"

// Careers lists the accepted values of Bootcamp.Careers.
var Careers = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"Business",
	"Other",
}

// Bootcamp is a training provider with a geocoded location.
// BSON and JSON field names match so query keys work for both.
type Bootcamp struct {
	ID                    primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name                  string             `json:"name" bson:"name" validate:"required,max=50"`
	Slug                  string             `json:"slug,omitempty" bson:"slug,omitempty"`
	Description           string             `json:"description" bson:"description" validate:"required,max=500"`
	Website               string             `json:"website,omitempty" bson:"website,omitempty" validate:"omitempty,http_url"`
	Phone                 string             `json:"phone,omitempty" bson:"phone,omitempty" validate:"max=20"`
	Email                 string             `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Address               string             `json:"address,omitempty" bson:"address,omitempty" validate:"required"`
	Location              *Location          `json:"location,omitempty" bson:"location,omitempty"`
	Careers               []string           `json:"careers" bson:"careers" validate:"required,min=1,dive,career"`
	AverageRating         float64            `json:"averageRating,omitempty" bson:"averageRating,omitempty" validate:"omitempty,min=1,max=10"`
	AverageCost           float64            `json:"averageCost" bson:"averageCost" validate:"min=0"`
	Photo                 string             `json:"photo" bson:"photo"`
	Housing               bool               `json:"housing" bson:"housing"`
	JobAssistance         bool               `json:"jobAssistance" bson:"jobAssistance"`
	JobGuarantee          bool               `json:"jobGuarantee" bson:"jobGuarantee"`
	AcceptingApplications bool               `json:"acceptingApplications" bson:"acceptingApplications"`
	CreatedAt             time.Time          `json:"createdAt" bson:"createdAt"`
}

// Location is a GeoJSON point plus the address parts returned by the geocoder.
type Location struct {
	Type             string    `json:"type" bson:"type"`
	Coordinates      []float64 `json:"coordinates" bson:"coordinates"` // [lng, lat]
	FormattedAddress string    `json:"formattedAddress,omitempty" bson:"formattedAddress,omitempty"`
	Street           string    `json:"street,omitempty" bson:"street,omitempty"`
	City             string    `json:"city,omitempty" bson:"city,omitempty"`
	State            string    `json:"state,omitempty" bson:"state,omitempty"`
	Zipcode          string    `json:"zipcode,omitempty" bson:"zipcode,omitempty"`
	Country          string    `json:"country,omitempty" bson:"country,omitempty"`
}

// NewPoint returns a GeoJSON point location.
func NewPoint(lat, lng float64) *Location {
	return &Location{Type: "Point", Coordinates: []float64{lng, lat}}
}

// LatLng returns the point coordinates, ok is false when the location has none.
func (l *Location) LatLng() (lat, lng float64, ok bool) {
	if l == nil || len(l.Coordinates) != 2 {
		return 0, 0, false
	}
	return l.Coordinates[1], l.Coordinates[0], true
}

// BootcampSummary is attached to courses listed outside a bootcamp.
type BootcampSummary struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
}
