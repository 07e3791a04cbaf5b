// Package domain defines the core marketplace types shared by the items
// client, the filter pipeline and the reference listing service.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DateLayout is the wire format of Listing.Date: ISO-8601, UTC, with
// millisecond precision. The fixed width makes string order equal to
// chronological order.
const DateLayout = "2006-01-02T15:04:05.000Z"

// MaxDescriptionLength is the maximum number of characters in a description.
const MaxDescriptionLength = 200

// DefaultUserName is stamped on listings whose creator has no display name.
const DefaultUserName = "John Doe"

// Validation errors returned (joined) by Listing.Validate.
var (
	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrDescriptionTooLong  = fmt.Errorf("description exceeds %d characters", MaxDescriptionLength)
	ErrLocationRequired    = errors.New("location is required")
	ErrCityRequired        = errors.New("city is required")
	ErrPhoneRequired       = errors.New("phone number is required")
)

// Listing is one marketplace item.
type Listing struct {
	ID          uuid.UUID `json:"id"          db:"id"`
	Date        string    `json:"date"        db:"date"`
	Title       string    `json:"title"       db:"title"`
	Description string    `json:"description" db:"description"`
	Location    string    `json:"location"    db:"location"`
	City        string    `json:"city"        db:"city"`
	PhoneNumber string    `json:"phoneNumber" db:"phone_number"`
	UserName    string    `json:"userName"    db:"user_name"`
	UserID      string    `json:"userId"      db:"user_id"`
}

// Draft holds the user-editable fields of a listing.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	City        string `json:"city"`
	PhoneNumber string `json:"phoneNumber"`
}

// Identity is the authenticated user as supplied by the identity provider.
// ID is the provider's unique identifier (an email address for Google sign-in).
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
}

// NewListing builds a listing for submission, stamping a fresh id, the
// creation date and the creator taken from who.
func NewListing(d Draft, who Identity, now time.Time) Listing {
	l := Listing{
		ID:   uuid.New(),
		Date: FormatDate(now),
	}
	return l.WithEdits(d, who)
}

// WithEdits returns a copy of l with every field except ID and Date replaced
// by the draft and the editing identity.
func (l Listing) WithEdits(d Draft, who Identity) Listing {
	l.Title = d.Title
	l.Description = TruncateDescription(d.Description)
	l.Location = d.Location
	l.City = d.City
	l.PhoneNumber = d.PhoneNumber
	l.UserID = who.ID
	l.UserName = who.DisplayName
	if l.UserName == "" {
		l.UserName = DefaultUserName
	}
	return l
}

// Draft returns the editable fields of l.
func (l *Listing) Draft() Draft {
	return Draft{
		Title:       l.Title,
		Description: l.Description,
		Location:    l.Location,
		City:        l.City,
		PhoneNumber: l.PhoneNumber,
	}
}

// Validate checks the fields required before a listing may be submitted.
func (l *Listing) Validate() error {
	var errs []error
	if strings.TrimSpace(l.Title) == "" {
		errs = append(errs, ErrTitleRequired)
	}
	if strings.TrimSpace(l.Description) == "" {
		errs = append(errs, ErrDescriptionRequired)
	}
	if utf8.RuneCountInString(l.Description) > MaxDescriptionLength {
		errs = append(errs, ErrDescriptionTooLong)
	}
	if strings.TrimSpace(l.Location) == "" {
		errs = append(errs, ErrLocationRequired)
	}
	if strings.TrimSpace(l.City) == "" {
		errs = append(errs, ErrCityRequired)
	}
	if strings.TrimSpace(l.PhoneNumber) == "" {
		errs = append(errs, ErrPhoneRequired)
	}
	return errors.Join(errs...)
}

// IsOwner reports whether who created the listing. A zero identity owns nothing.
func IsOwner(l *Listing, who Identity) bool {
	return who.ID != "" && l.UserID == who.ID
}

// PublishedOn renders the creation date as dd/mm/yyyy, or the raw value when
// it cannot be parsed.
func (l *Listing) PublishedOn() string {
	t, err := ParseDate(l.Date)
	if err != nil {
		return l.Date
	}
	return t.Format("02/01/2006")
}

// ShareText renders the plain-text block used when sharing a listing.
func (l *Listing) ShareText() string {
	var b strings.Builder
	b.WriteString("Item Details:\n")
	fmt.Fprintf(&b, "Item published at: %s\n", l.PublishedOn())
	fmt.Fprintf(&b, "Owner Name: %s\n", l.UserName)
	fmt.Fprintf(&b, "Phone: %s\n", l.PhoneNumber)
	fmt.Fprintf(&b, "Title: %s\n", l.Title)
	fmt.Fprintf(&b, "Description: %s\n", l.Description)
	fmt.Fprintf(&b, "Location: %s", l.Location)
	return b.String()
}

// FormatDate formats t in DateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses an ISO-8601 timestamp with optional fractional seconds.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing listing date %q: %w", s, err)
	}
	return t.UTC(), nil
}

// TruncateDescription cuts s to MaxDescriptionLength characters.
func TruncateDescription(s string) string {
	if utf8.RuneCountInString(s) <= MaxDescriptionLength {
		return s
	}
	return string([]rune(s)[:MaxDescriptionLength])
}
