package contact

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Person is a player or a contact person at a club or sponsor
type Person struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName string             `json:"first_name" bson:"first_name"`
	LastName  string             `json:"last_name" bson:"last_name"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Position  string             `json:"position,omitempty" bson:"position,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Organization is a club or sponsor
type Organization struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty"`
	League    string             `json:"league,omitempty" bson:"league,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
