package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultEmoji is assigned to products created without a display emoji.
const DefaultEmoji = "🎁"

// Product is a catalog entry. Stock never goes negative; availability flips
// off when stock reaches zero, but admins may also delist a product with
// stock remaining.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Stock       int                `bson:"stock" json:"stock"`
	Emoji       string             `bson:"emoji" json:"emoji"`
	Image       string             `bson:"image,omitempty" json:"image"`
	Available   bool               `bson:"available" json:"available"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// ProductUpdate carries a partial admin edit. Nil fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Emoji       *string
	Image       *string
	Available   *bool
}
