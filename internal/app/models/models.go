package models

import (
	"time"

	"github.com/google/uuid"
)

// UserAuth carries the credential fields the auth domain needs. The password
// field always holds the bcrypt hash, never plain text.
type UserAuth struct {
	ID       string
	Username string
	Email    string
	Password string
	IsSeller bool
}

// Listing is a catalog entry for a robot-related good (hardware kit, URDF
// bundle, firmware image, ...).
type Listing struct {
	ID            uuid.UUID
	SellerID      string
	Username      string
	Slug          string
	Title         string
	Description   string
	PriceCents    int64
	Currency      string
	ThumbnailRef  string
	StripeProduct string
	Featured      bool
	CreatedAt     time.Time
}

// FeaturedListing is the promotional projection of a Listing shared by every
// page that renders the featured rail.
type FeaturedListing struct {
	ListingID    uuid.UUID
	Title        string
	PriceCents   int64
	ThumbnailRef string
}

// AlertSeverity classifies a transient user-facing notification.
type AlertSeverity string

const (
	AlertInfo    AlertSeverity = "info"
	AlertSuccess AlertSeverity = "success"
	AlertError   AlertSeverity = "error"
)

// Alert is one entry in a session's notification queue.
type Alert struct {
	ID        uuid.UUID
	Severity  AlertSeverity
	Message   string
	CreatedAt time.Time
}

// Order mirrors the fields Stripe hands back on checkout completion.
type Order struct {
	ID                      uuid.UUID
	UserID                  string
	UserEmail               string
	StripeCheckoutSessionID string
	StripePaymentIntentID   string
	StripeRefundID          string
	AmountCents             int64
	Currency                string
	Status                  string
	ProductID               string
	Quantity                int64
	ShippingName            string
	ShippingAddressLine1    string
	ShippingAddressLine2    string
	ShippingCity            string
	ShippingState           string
	ShippingPostalCode      string
	ShippingCountry         string
	CreatedAt               time.Time
}

// Artifact is a downloadable file attached to a listing.
type Artifact struct {
	ID          uuid.UUID
	ListingID   uuid.UUID
	Name        string
	ContentType string
	SizeBytes   int64
	StorageRef  string
	CreatedAt   time.Time
}

// APIKey is an opaque credential for programmatic access. Only the prefix and
// the hash are persisted; the full secret is shown once at creation.
type APIKey struct {
	ID         uuid.UUID
	UserID     string
	Label      string
	Prefix     string
	SecretHash string
	CreatedAt  time.Time
	RevokedAt  *time.Time
}
