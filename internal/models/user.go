package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// User represents a registered user. The password hash never leaves the
// server.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// Identity is the authenticated caller. Handlers that need one receive it as
// an argument from the auth middleware instead of digging it out of the
// request.
type Identity struct {
	ID   primitive.ObjectID
	Role Role
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
