package model

import "time"

// User identifies the authenticated account. It is fetched once when the
// session resolves and stays immutable until logout.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

type ItemType string

const (
	ItemLost  ItemType = "lost"
	ItemFound ItemType = "found"
)

func (t ItemType) Valid() bool { return t == ItemLost || t == ItemFound }

// Opposite returns the other report type. Matches are only ever computed
// between items of opposite type.
func (t ItemType) Opposite() ItemType {
	if t == ItemLost {
		return ItemFound
	}
	return ItemLost
}

type Status string

const (
	StatusActive   Status = "active"
	StatusResolved Status = "resolved"
)

// Categories and Locations are the closed sets shared with the server.
// The client never sends a value outside of these.
var Categories = []string{
	"ID Card",
	"Electronics",
	"Books",
	"Clothing",
	"Accessories",
	"Keys",
	"Wallet",
	"Miscellaneous",
}

var Locations = []string{
	"Main Block",
	"Library",
	"Hostel",
	"Canteen",
	"Sports Complex",
	"Auditorium",
	"Parking",
	"Other",
}

func ValidCategory(s string) bool { return contains(Categories, s) }
func ValidLocation(s string) bool { return contains(Locations, s) }

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// Item is a lost/found report. Mutable only by its owner and only through
// the one-way active -> resolved status transition.
type Item struct {
	ID          string   `json:"id"`
	Type        ItemType `json:"type"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Date        string   `json:"date"` // YYYY-MM-DD
	Description string   `json:"description"`

	// ImageURL is absent (nil) when the report has no photo. An empty
	// string is never a valid value.
	ImageURL *string `json:"image_url,omitempty"`

	UserID      string `json:"user_id,omitempty"`
	UserName    string `json:"user_name,omitempty"`
	UserEmail   string `json:"user_email,omitempty"`
	IsAnonymous bool   `json:"is_anonymous"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`

	// Matches are backend-computed and only delivered embedded in a
	// single-item fetch. Order is the server's; never re-sorted here.
	Matches []Match `json:"matches,omitempty"`
}

// ContactVisible reports whether contact fields may be rendered for this
// item. Anonymity is fixed at creation and hides contact info from every
// viewer, the owner included.
func (it Item) ContactVisible() bool { return !it.IsAnonymous }

// OwnedBy reports whether the given user id owns this item.
func (it Item) OwnedBy(userID string) bool {
	return userID != "" && it.UserID == userID
}

// Resolvable reports whether the viewing user may be offered the resolve
// action. The server remains the authority; this only gates the UI.
func (it Item) Resolvable(viewerID string) bool {
	return it.OwnedBy(viewerID) && it.Status == StatusActive
}

// Match is a derived candidate pairing against an opposite-type item.
// Read-only: the client never creates, mutates, ranks, or filters these.
type Match struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category,omitempty"`
	Location string  `json:"location,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`

	// UserEmail is nil when the matched item was posted anonymously.
	UserEmail *string `json:"user_email,omitempty"`

	// Similarity is in [0,1] and is used verbatim for display.
	Similarity float64 `json:"similarity"`
}

// AdminStats is a read-only aggregate snapshot.
type AdminStats struct {
	TotalLost     int `json:"total_lost"`
	TotalFound    int `json:"total_found"`
	TotalResolved int `json:"total_resolved"`
	TotalMatches  int `json:"total_matches"`
}

// LocationCount is one row of the per-location active-item summary.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}
