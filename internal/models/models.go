package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account mirrored from the external identity provider. The uuid
// is the provider's subject id and is unique across the collection.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UUID            string             `bson:"uuid" json:"uuid"`
	DisplayName     string             `bson:"displayName" json:"displayName"`
	AccountHandle   string             `bson:"accountHandle" json:"accountHandle"`
	PhotoURL        string             `bson:"photoURL" json:"photoURL"`
	Email           string             `bson:"email" json:"email"`
	CreationTime    time.Time          `bson:"creationTime" json:"creationTime"`
	IsAdministrator bool               `bson:"isAdministrator" json:"isAdministrator"`
}

// UserRef is the partial user projection embedded by populated reads.
type UserRef struct {
	DisplayName   string `bson:"displayName" json:"displayName"`
	AccountHandle string `bson:"accountHandle" json:"accountHandle"`
	PhotoURL      string `bson:"photoURL" json:"photoURL"`
}

// UserHandle is the projection returned by the public user listing.
type UserHandle struct {
	DisplayName   string `bson:"displayName" json:"displayName"`
	AccountHandle string `bson:"accountHandle" json:"accountHandle"`
}

type Follow struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FollowedBy   primitive.ObjectID `bson:"followedBy" json:"followedBy"`
	Following    primitive.ObjectID `bson:"following" json:"following"`
	DateFollowed time.Time          `bson:"dateFollowed" json:"dateFollowed"`
}

// PopulatedFollow carries one resolved side of the relationship, depending on
// whether a following or a followers list was requested.
type PopulatedFollow struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	DateFollowed time.Time          `bson:"dateFollowed" json:"dateFollowed"`
	Following    *UserRef           `bson:"following,omitempty" json:"following,omitempty"`
	FollowedBy   *UserRef           `bson:"followedBy,omitempty" json:"followedBy,omitempty"`
}

type Rating struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserRated primitive.ObjectID `bson:"userRated" json:"userRated"`
	RatedBy   primitive.ObjectID `bson:"ratedBy" json:"ratedBy"`
	Rating    int                `bson:"rating" json:"rating"`
	DateRated time.Time          `bson:"dateRated" json:"dateRated"`
}

type PopulatedRating struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	RatedBy   *UserRef           `bson:"ratedBy,omitempty" json:"ratedBy,omitempty"`
	Rating    int                `bson:"rating" json:"rating"`
	DateRated time.Time          `bson:"dateRated" json:"dateRated"`
}

type ContactTopic struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name string             `bson:"name" json:"name"`
}

// HandlingStaff records which staff member, if any, has claimed a request.
type HandlingStaff struct {
	Claimed bool   `bson:"claimed" json:"claimed"`
	Name    string `bson:"name,omitempty" json:"name,omitempty"`
	Email   string `bson:"email,omitempty" json:"email,omitempty"`
}

type ContactRequest struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	Topic         primitive.ObjectID `bson:"topic" json:"topic"`
	Message       string             `bson:"message" json:"message"`
	RequestDate   time.Time          `bson:"requestDate" json:"requestDate"`
	RequestOpen   bool               `bson:"requestOpen" json:"requestOpen"`
	HandlingStaff HandlingStaff      `bson:"handlingStaff" json:"handlingStaff"`
}

type PopulatedContactRequest struct {
	ID            primitive.ObjectID `bson:"_id" json:"_id"`
	User          *UserRef           `bson:"user,omitempty" json:"user,omitempty"`
	Topic         *ContactTopic      `bson:"topic,omitempty" json:"topic,omitempty"`
	Message       string             `bson:"message" json:"message"`
	RequestDate   time.Time          `bson:"requestDate" json:"requestDate"`
	RequestOpen   bool               `bson:"requestOpen" json:"requestOpen"`
	HandlingStaff HandlingStaff      `bson:"handlingStaff" json:"handlingStaff"`
}

// EventLocation is the geocoded form of a free-text address. Events are never
// persisted with an unresolved location.
type EventLocation struct {
	Lat     float64 `bson:"lat" json:"lat"`
	Lon     float64 `bson:"lon" json:"lon"`
	Address string  `bson:"address" json:"address"`
}

type Event struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Host            primitive.ObjectID `bson:"host" json:"host"`
	Name            string             `bson:"name" json:"name"`
	Location        EventLocation      `bson:"location" json:"location"`
	Category        primitive.ObjectID `bson:"category" json:"category"`
	MaxParticipants int                `bson:"maxParticipants" json:"maxParticipants"`
	Description     string             `bson:"description" json:"description"`
	StartTime       time.Time          `bson:"startTime" json:"startTime"`
}

type PopulatedEvent struct {
	ID              primitive.ObjectID `bson:"_id" json:"_id"`
	Host            *UserRef           `bson:"host,omitempty" json:"host,omitempty"`
	Name            string             `bson:"name" json:"name"`
	Location        EventLocation      `bson:"location" json:"location"`
	Category        *EventCategory     `bson:"category,omitempty" json:"category,omitempty"`
	MaxParticipants int                `bson:"maxParticipants" json:"maxParticipants"`
	Description     string             `bson:"description" json:"description"`
	StartTime       time.Time          `bson:"startTime" json:"startTime"`

	// Set on capacity-limited event detail reads only.
	CurrentlyRegistered *int64 `bson:"-" json:"currentlyRegistered,omitempty"`
}

type EventCategory struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name   string             `bson:"name" json:"name"`
	Header string             `bson:"header" json:"header"`
}

type ReportTopic struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name string             `bson:"name" json:"name"`
}

type EventReport struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Event      primitive.ObjectID `bson:"event" json:"event"`
	ReportedBy primitive.ObjectID `bson:"reportedBy" json:"reportedBy"`
	Topic      primitive.ObjectID `bson:"topic" json:"topic"`
	Reason     string             `bson:"reason" json:"reason"`
	Handled    bool               `bson:"handled" json:"handled"`
	ReportDate time.Time          `bson:"reportDate" json:"reportDate"`
}

type PopulatedEventReport struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	Event      *EventSummary      `bson:"event,omitempty" json:"event,omitempty"`
	ReportedBy *UserRef           `bson:"reportedBy,omitempty" json:"reportedBy,omitempty"`
	Topic      *ReportTopic       `bson:"topic,omitempty" json:"topic,omitempty"`
	Reason     string             `bson:"reason" json:"reason"`
	Handled    bool               `bson:"handled" json:"handled"`
	ReportDate time.Time          `bson:"reportDate" json:"reportDate"`
}

// EventSummary is the partial event projection embedded by populated reads.
type EventSummary struct {
	Name      string        `bson:"name" json:"name"`
	Location  EventLocation `bson:"location" json:"location"`
	StartTime time.Time     `bson:"startTime" json:"startTime"`
}

type FAQTopic struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name string             `bson:"name" json:"name"`
}

type FAQQuestion struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Topic    primitive.ObjectID `bson:"topic" json:"topic"`
	Question string             `bson:"question" json:"question"`
	Answer   string             `bson:"answer" json:"answer"`
}

type PopulatedFAQQuestion struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Topic    *FAQTopic          `bson:"topic,omitempty" json:"topic,omitempty"`
	Question string             `bson:"question" json:"question"`
	Answer   string             `bson:"answer" json:"answer"`
}

type EventRegistration struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Event      primitive.ObjectID `bson:"event" json:"event"`
	User       primitive.ObjectID `bson:"user" json:"user"`
	Registered time.Time          `bson:"registered" json:"registered"`
}

type PopulatedEventRegistration struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	Event      *EventSummary      `bson:"event,omitempty" json:"event,omitempty"`
	User       *UserRef           `bson:"user,omitempty" json:"user,omitempty"`
	Registered time.Time          `bson:"registered" json:"registered"`
}
