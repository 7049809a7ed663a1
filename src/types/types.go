package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	DATE_FORMAT = "2006-01-02"
	TIME_FORMAT = "15:04"
)

// Timestamps has no DeletedAt: trip data is hard deleted so cascades reach
// every child row.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// DateOnly is a calendar date without a time of day. It is stored as a SQL
// DATE and serialized as "YYYY-MM-DD".
type DateOnly struct {
	time.Time
}

func NewDateOnly(t time.Time) DateOnly {
	return DateOnly{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func ParseDateOnly(s string) (DateOnly, error) {
	t, err := time.Parse(DATE_FORMAT, s)
	if err != nil {
		return DateOnly{}, err
	}
	return DateOnly{t}, nil
}

func (d DateOnly) String() string {
	return d.Format(DATE_FORMAT)
}

// DaysUntil returns the number of whole days from d to other.
func (d DateOnly) DaysUntil(other DateOnly) int {
	return int(other.Sub(d.Time).Hours() / 24)
}

func (DateOnly) GormDataType() string {
	return "date"
}

func (d DateOnly) Value() (driver.Value, error) {
	return d.Format(DATE_FORMAT), nil
}

func (d *DateOnly) Scan(value any) error {
	switch v := value.(type) {
	case time.Time:
		*d = NewDateOnly(v)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	case nil:
		*d = DateOnly{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into DateOnly", value)
}

func (d *DateOnly) parse(s string) error {
	if len(s) < len(DATE_FORMAT) {
		return fmt.Errorf("invalid date %q", s)
	}
	parsed, err := ParseDateOnly(s[:len(DATE_FORMAT)])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDateOnly(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type TripItemRequestParams struct {
	ID     uint `uri:"id" binding:"required"`
	ItemID uint `uri:"itemId" binding:"required"`
}

type JournalEntryRequestParams struct {
	ID      uint `uri:"id" binding:"required"`
	EntryID uint `uri:"entryId" binding:"required"`
}

type JournalImageRequestParams struct {
	ID      uint `uri:"id" binding:"required"`
	EntryID uint `uri:"entryId" binding:"required"`
	ImageID uint `uri:"imageId" binding:"required"`
}

type ShareTokenParams struct {
	Token string `uri:"token" binding:"required,max=80"`
}

type ShareCommentParams struct {
	Token     string `uri:"token" binding:"required,max=80"`
	CommentID uint   `uri:"commentId" binding:"required"`
}

type ChecklistType string

const (
	CHECKLIST_PACKING ChecklistType = "packing"
	CHECKLIST_TASK    ChecklistType = "task"
)

// ShareLinkState is computed from a link's timestamps and never stored.
type ShareLinkState string

const (
	SHARE_LINK_ACTIVE  ShareLinkState = "active"
	SHARE_LINK_REVOKED ShareLinkState = "revoked"
	SHARE_LINK_EXPIRED ShareLinkState = "expired"
)

type RegisterUserRequestBody struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateTripRequestBody struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Destination *string  `json:"destination" binding:"omitempty,max=255"`
	StartDate   *string  `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string  `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Description *string  `json:"description"`
	Budget      *float64 `json:"budget" binding:"omitempty,gte=0"`
}

type UpdateTripRequestBody struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Destination *string  `json:"destination" binding:"omitempty,max=255"`
	StartDate   *string  `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string  `json:"end_date" binding:"omitempty,datetime=2006-01-02,gtedate=StartDate"`
	Description *string  `json:"description"`
	Budget      *float64 `json:"budget" binding:"omitempty,gte=0"`
}

type ItineraryItemRequestBody struct {
	Date      string  `json:"date" binding:"required,datetime=2006-01-02"`
	Time      *string `json:"time" binding:"omitempty,datetime=15:04"`
	Title     string  `json:"title" binding:"required,max=255"`
	Location  *string `json:"location" binding:"omitempty,max=255"`
	Notes     *string `json:"notes"`
	SortOrder int     `json:"sort_order"`
}

type ExpenseRequestBody struct {
	Category *string `json:"category" binding:"omitempty,max=255"`
	Amount   float64 `json:"amount" binding:"gte=0"`
	SpentOn  *string `json:"spent_on" binding:"omitempty,datetime=2006-01-02"`
	Notes    *string `json:"notes"`
}

type CreateChecklistItemRequestBody struct {
	Type    ChecklistType `json:"type" binding:"required,oneof=packing task"`
	Title   string        `json:"title" binding:"required,max=255"`
	DueDate *string       `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateChecklistItemRequestBody struct {
	Title   string  `json:"title" binding:"required,max=255"`
	DueDate *string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

type CreateShareLinkRequestBody struct {
	ExpiresAt *time.Time `json:"expires_at"`
}

type PostCommentRequestBody struct {
	Name  string  `json:"name" binding:"required,max=120"`
	Email *string `json:"email" binding:"omitempty,email,max=190"`
	Body  string  `json:"body" binding:"required,max=1000"`
}

type UpdateCommentRequestBody struct {
	Body string `json:"body" binding:"required,max=1000"`
}

type JournalEntryRequestBody struct {
	EntryDate *string `form:"entry_date" json:"entry_date" binding:"omitempty,datetime=2006-01-02"`
	Title     *string `form:"title" json:"title" binding:"omitempty,max=160"`
	Body      string  `form:"body" json:"body" binding:"max=500000"`
}

type ReorderImagesRequestBody struct {
	OrderedIDs []uint `json:"ordered_ids" binding:"required"`
}

type ConvertCurrencyRequestBody struct {
	From   string  `json:"from" binding:"required,len=3,alpha"`
	To     string  `json:"to" binding:"required,len=3,alpha"`
	Amount *float64 `json:"amount" binding:"required,gte=0"`
}

type WeatherQuery struct {
	City    string `form:"city" binding:"required,max=120"`
	Country string `form:"country" binding:"omitempty,max=120"`
}

type DestinationQuery struct {
	Search  string `form:"search"`
	Type    string `form:"type"`
	Country string `form:"country"`
	Page    int    `form:"page" binding:"omitempty,gte=1"`
}

type ReviewRequestBody struct {
	Comment string `json:"comment" binding:"required,max=1000"`
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
}

// NormalizeCurrency uppercases and trims an ISO currency code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
