package torre

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mbernardes19/torre-matheus/pkg/logging"
)

// Currency is an ISO code accepted by the compensation filters
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyARS Currency = "ARS"
	CurrencyCOP Currency = "COP"
	CurrencyMXN Currency = "MXN"
	CurrencyBRL Currency = "BRL"
)

// Periodicity is the compensation period
type Periodicity string

const (
	PeriodicityHourly  Periodicity = "hourly"
	PeriodicityDaily   Periodicity = "daily"
	PeriodicityWeekly  Periodicity = "weekly"
	PeriodicityMonthly Periodicity = "monthly"
	PeriodicityYearly  Periodicity = "yearly"
)

// Config defines Torre search client settings
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Headers    map[string]string
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Params are the optional query string options of a search.
// Zero strings and nil pointers are left out of the request.
type Params struct {
	Currency       Currency    `json:"currency,omitempty"`
	Periodicity    Periodicity `json:"periodicity,omitempty"`
	Lang           string      `json:"lang,omitempty"`
	Size           *int        `json:"size,omitempty" validate:"omitempty,min=1"`
	ContextFeature string      `json:"contextFeature,omitempty"`
	Offset         *int        `json:"offset,omitempty" validate:"omitempty,min=0"`
	Aggregate      *bool       `json:"aggregate,omitempty"`
	// Before and After carry a pagination cursor from a previous page.
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

// Clone returns a deep copy so a cursor can be set without touching the original.
func (p *Params) Clone() *Params {
	if p == nil {
		return &Params{}
	}
	out := *p
	if p.Size != nil {
		out.Size = Int(*p.Size)
	}
	if p.Offset != nil {
		out.Offset = Int(*p.Offset)
	}
	if p.Aggregate != nil {
		out.Aggregate = Bool(*p.Aggregate)
	}
	return &out
}

// Int returns a pointer to v, for Params.Size and Params.Offset.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for Params.Aggregate.
func Bool(v bool) *bool { return &v }

// ResultPage is one search response. It is never mutated after decoding.
type ResultPage struct {
	Total       int                        `json:"total"`
	Offset      int                        `json:"offset"`
	Size        int                        `json:"size"`
	Results     []Opportunity              `json:"results"`
	Pagination  *Pagination                `json:"pagination,omitempty"`
	Aggregators map[string]json.RawMessage `json:"aggregators,omitempty"`

	// Raw is the response body exactly as received.
	Raw json.RawMessage `json:"-"`
}

// NextCursor returns the forward cursor, if the page has one.
func (p *ResultPage) NextCursor() (string, bool) {
	if p == nil || p.Pagination == nil {
		return "", false
	}
	return p.Pagination.Next.Token()
}

// PreviousCursor returns the backward cursor, if the page has one.
func (p *ResultPage) PreviousCursor() (string, bool) {
	if p == nil || p.Pagination == nil {
		return "", false
	}
	return p.Pagination.Previous.Token()
}

// Pagination holds the cursors bounding a page
type Pagination struct {
	Previous Cursor `json:"previous,omitzero"`
	Next     Cursor `json:"next,omitzero"`
}

type cursorState uint8

const (
	cursorOmitted cursorState = iota
	cursorNull
	cursorToken
)

// Cursor is an opaque page token. It distinguishes a key left out of the
// payload from an explicit null; both mean there is no such page.
type Cursor struct {
	state cursorState
	token string
}

// CursorOf returns a cursor holding token.
func CursorOf(token string) Cursor { return Cursor{state: cursorToken, token: token} }

// NullCursor returns an explicitly null cursor.
func NullCursor() Cursor { return Cursor{state: cursorNull} }

// Token returns the token and whether one is usable. Empty tokens are unusable.
func (c Cursor) Token() (string, bool) {
	if c.state != cursorToken || c.token == "" {
		return "", false
	}
	return c.token, true
}

// IsNull reports an explicit null.
func (c Cursor) IsNull() bool { return c.state == cursorNull }

// IsZero reports a cursor that was omitted from the payload.
func (c Cursor) IsZero() bool { return c.state == cursorOmitted }

func (c Cursor) MarshalJSON() ([]byte, error) {
	if c.state != cursorToken {
		return []byte("null"), nil
	}
	return json.Marshal(c.token)
}

func (c *Cursor) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = NullCursor()
		return nil
	}
	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return err
	}
	*c = CursorOf(token)
	return nil
}

// Opportunity is a loosely typed search hit. Every field except ID may be absent.
type Opportunity struct {
	ID            string         `json:"id"`
	Objective     string         `json:"objective,omitempty"`
	Type          string         `json:"type,omitempty"`
	Organizations []Organization `json:"organizations,omitempty"`
	Locations     []string       `json:"locations,omitempty"`
	Remote        *bool          `json:"remote,omitempty"`
	Compensation  *Compensation  `json:"compensation,omitempty"`
	Commitment    string         `json:"commitment,omitempty"`
	Skills        []Skill        `json:"skills,omitempty"`
	Members       []Member       `json:"members,omitempty"`
	Deadline      string         `json:"deadline,omitempty"`
	Status        string         `json:"status,omitempty"`
	Attachments   []Attachment   `json:"attachments,omitempty"`
}

// Organization is a hiring company; Picture is its logo URL
type Organization struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

// Compensation is a salary range. Each field is independently optional.
type Compensation struct {
	MinAmount   *float64 `json:"minAmount,omitempty"`
	MaxAmount   *float64 `json:"maxAmount,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	Periodicity string   `json:"periodicity,omitempty"`
}

type Skill struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

type Member struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Picture  string `json:"picture,omitempty"`
}

type Attachment struct {
	Address string `json:"address"`
}

// ID is an identifier the backend may send as a JSON string or number.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}
