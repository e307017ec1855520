package model

import (
	"errors"
	"strings"
	"time"
)

// Item is a lost or found report.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	ContactInfo string    `json:"contact_info"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	Type        Type      `json:"type"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Match pairs a candidate item with its similarity score in [0, 100].
// Matches are computed per query and never stored.
type Match struct {
	Item  Item    `json:"item"`
	Score float64 `json:"score"`
}

// Type partitions items into lost and found.
type Type string

// Item types.
const (
	TypeLost  Type = "lost"
	TypeFound Type = "found"
)

// Valid reports whether t is a known item type.
func (t Type) Valid() bool {
	return t == TypeLost || t == TypeFound
}

// Opposite returns the partition a match candidate must come from.
func (t Type) Opposite() Type {
	if t == TypeLost {
		return TypeFound
	}
	return TypeLost
}

// Category is the kind of item being reported.
type Category string

// Item categories.
const (
	CategoryElectronics Category = "electronics"
	CategoryBooks       Category = "books"
	CategoryClothing    Category = "clothing"
	CategoryAccessories Category = "accessories"
	CategoryKeys        Category = "keys"
	CategoryDocuments   Category = "documents"
	CategoryOther       Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryElectronics,
	CategoryBooks,
	CategoryClothing,
	CategoryAccessories,
	CategoryKeys,
	CategoryDocuments,
	CategoryOther,
}

var categoryNames = map[Category]string{
	CategoryElectronics: "Electronics",
	CategoryBooks:       "Books",
	CategoryClothing:    "Clothing",
	CategoryAccessories: "Accessories",
	CategoryKeys:        "Keys",
	CategoryDocuments:   "Documents",
	CategoryOther:       "Other",
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// Display returns the human readable category name.
func (c Category) Display() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// ItemInput is the data a user submits when reporting an item.
// Callers validate it before handing it to a store; stores reject
// input that fails Validate.
type ItemInput struct {
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	ContactInfo string    `json:"contact_info"`
	Type        Type      `json:"type"`
}

// Validate checks that all required fields are present and well-formed.
func (in ItemInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return errors.New("name required")
	case !in.Category.Valid():
		return errors.New("invalid category")
	case strings.TrimSpace(in.Location) == "":
		return errors.New("location required")
	case in.Date.IsZero():
		return errors.New("date required")
	case !in.Type.Valid():
		return errors.New("type must be lost or found")
	}
	return nil
}
