package agency

import (
	"encoding/json"
	"strings"
	"time"
)

// Role tags assigned by the backend. super_admin bypasses the permission
// map entirely.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleAgent      = "agent"
	RoleOperations = "operations"
	RoleAccounts   = "accounts"
)

// Approval states for a registered agent.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Agent is the authenticated identity. IsActive=false means authenticated
// but not yet authorized for the main application.
type Agent struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"isActive"`
	IsVerified     bool      `json:"isVerified"`
	ApprovalStatus string    `json:"approvalStatus,omitempty"`
	AgencyName     string    `json:"agencyName,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}

// FullName joins the name parts, tolerating either being empty.
func (a Agent) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Ref is a cross-reference to another record. Depending on backend
// population it arrives either as a bare id string or as an embedded
// document; both forms decode into the same value.
type Ref struct {
	ID   string
	Name string
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = id
		r.Name = ""
		return nil
	}
	var doc struct {
		ID        string `json:"id"`
		LegacyID  string `json:"_id"`
		Name      string `json:"name"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	r.ID = doc.ID
	if r.ID == "" {
		r.ID = doc.LegacyID
	}
	r.Name = doc.Name
	if r.Name == "" {
		r.Name = strings.TrimSpace(doc.FirstName + " " + doc.LastName)
	}
	return nil
}

// MarshalJSON always submits the bare id; the backend decides whether to
// populate the reference on the way back.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// Booking statuses used by status transitions and the commission fallback.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// TripDetails is the nested trip document inside a booking.
type TripDetails struct {
	Destination string `json:"destination"`
	TravelDate  string `json:"travelDate"`
	ReturnDate  string `json:"returnDate,omitempty"`
	Travelers   int    `json:"travelers,omitempty"`
}

// Booking is a travel booking. Older records carry the trip fields flat at
// the top level instead of nested under tripDetails; decoding probes both
// shapes.
type Booking struct {
	ID            string      `json:"id"`
	Customer      Ref         `json:"customer"`
	TripDetails   TripDetails `json:"tripDetails"`
	Status        string      `json:"status"`
	Amount        float64     `json:"amount"`
	PaymentStatus string      `json:"paymentStatus,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	CreatedAt     time.Time   `json:"createdAt,omitempty"`
}

func (b *Booking) UnmarshalJSON(data []byte) error {
	type alias Booking
	var decoded struct {
		alias
		LegacyID          string `json:"_id"`
		LegacyDestination string `json:"destination"`
		LegacyTravelDate  string `json:"travel_date"`
		LegacyReturnDate  string `json:"return_date"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*b = Booking(decoded.alias)
	if b.ID == "" {
		b.ID = decoded.LegacyID
	}
	if b.TripDetails.Destination == "" {
		b.TripDetails.Destination = decoded.LegacyDestination
	}
	if b.TripDetails.TravelDate == "" {
		b.TripDetails.TravelDate = decoded.LegacyTravelDate
	}
	if b.TripDetails.ReturnDate == "" {
		b.TripDetails.ReturnDate = decoded.LegacyReturnDate
	}
	return nil
}

// Customer is a client of the agency.
type Customer struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// FullName joins the name parts, tolerating either being empty.
func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Itinerary is a day-by-day plan attached to a booking.
type Itinerary struct {
	ID          string   `json:"id"`
	Booking     Ref      `json:"booking"`
	Title       string   `json:"title"`
	Destination string   `json:"destination,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	Activities  []string `json:"activities,omitempty"`
}

// Lead statuses.
const (
	LeadNew       = "new"
	LeadContacted = "contacted"
	LeadQualified = "qualified"
	LeadConverted = "converted"
	LeadLost      = "lost"
)

// Lead is a prospective customer.
type Lead struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Source    string    `json:"source,omitempty"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Payment records money received against a booking.
type Payment struct {
	ID        string    `json:"id"`
	Booking   Ref       `json:"booking"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method,omitempty"`
	Status    string    `json:"status"`
	Reference string    `json:"reference,omitempty"`
	PaidAt    time.Time `json:"paidAt,omitempty"`
}

// Commission is an agent's cut of a booking. Derived marks records computed
// client-side by the degraded-mode fallback; those are approximations, never
// authoritative.
type Commission struct {
	ID      string  `json:"id"`
	Booking Ref     `json:"booking"`
	Agent   Ref     `json:"agent,omitempty"`
	Amount  float64 `json:"amount"`
	Rate    float64 `json:"rate,omitempty"`
	Status  string  `json:"status,omitempty"`
	Derived bool    `json:"-"`
}

// Document is an uploaded attachment linked to a parent record.
type Document struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	URL         string    `json:"url,omitempty"`
	Category    string    `json:"category"`
	LinkedModel string    `json:"linkedModel,omitempty"`
	LinkedID    string    `json:"linkedId,omitempty"`
	Size        int64     `json:"size,omitempty"`
	UploadedAt  time.Time `json:"uploadedAt,omitempty"`
}

// Notification is one entry of the polled feed.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message,omitempty"`
	Type      string    `json:"type,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// AuditLog is a backend-recorded action, visible to admins only.
type AuditLog struct {
	ID           string         `json:"id"`
	Actor        Ref            `json:"actor"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resourceType,omitempty"`
	ResourceID   string         `json:"resourceId,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"createdAt,omitempty"`
}
