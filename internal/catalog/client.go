// Package catalog talks to the external catalog and identity services.  The
// booking engine treats both as collaborators: it validates requester
// identity, resolves rooms and properties, and reads the capacity and rate
// figures that feed the availability ledger, but it never owns that data.
package catalog

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "time"

    "github.com/sethvargo/go-retry"
)

// ErrNotFound is returned when the catalog has no record for the id.
var ErrNotFound = errors.New("catalog: not found")

// ErrUnavailable is returned when the collaborator could not be reached or
// kept failing after the retry budget was spent.  Callers must fail closed:
// a booking is rejected, never accepted, on collaborator failure.
var ErrUnavailable = errors.New("catalog: service unavailable")

// Room is the catalog's view of a bookable room type.
//
// Fields:
//  ID          – room identifier.
//  PropertyID  – owning property.
//  Name        – display name.
//  Active      – whether the room is currently bookable.
//  TotalRooms  – authoritative capacity per date.
//  SingleRateCents, DoubleRateCents, BaseRateCents – tiered nightly prices
//      for one, two, and three-or-more occupants respectively.
type Room struct {
    ID              string `json:"id"`
    PropertyID      string `json:"property_id"`
    Name            string `json:"name"`
    Active          bool   `json:"active"`
    TotalRooms      int    `json:"total_rooms"`
    SingleRateCents int64  `json:"single_rate_cents"`
    DoubleRateCents int64  `json:"double_rate_cents"`
    BaseRateCents   int64  `json:"base_rate_cents"`
}

// RateForOccupants returns the nightly price tier for the given occupant
// count: one occupant pays the single rate, two the double rate, anything
// else the base rate.
func (r *Room) RateForOccupants(occupants int) int64 {
    switch occupants {
    case 1:
        return r.SingleRateCents
    case 2:
        return r.DoubleRateCents
    default:
        return r.BaseRateCents
    }
}

// Property is the catalog's view of a listing.  ExtraBedTotal is the size
// of the property-wide shared extra-bed pool.
type Property struct {
    ID           string `json:"id"`
    Name         string `json:"name"`
    Location     string `json:"location"`
    ExtraBedTotal int   `json:"extra_bed_total"`
}

// Identity is the identity service's answer for a requester.
type Identity struct {
    GuestID  string `json:"guest_id"`
    Email    string `json:"email"`
    FullName string `json:"full_name"`
}

// Client calls the catalog and identity HTTP APIs.  Every call carries an
// explicit timeout so a stalled collaborator cannot hang a booking request,
// and transient failures are retried with backoff up to a fixed budget.
type Client struct {
    catalogURL  string
    identityURL string
    httpClient  *http.Client
    maxRetries  uint64
}

// NewClient builds a Client for the given base URLs.  perCallTimeout bounds
// each individual HTTP attempt; maxRetries bounds how many times a failed
// attempt is repeated before the call is reported as ErrUnavailable.
func NewClient(catalogURL, identityURL string, perCallTimeout time.Duration, maxRetries uint64) *Client {
    if perCallTimeout <= 0 {
        perCallTimeout = 3 * time.Second
    }
    return &Client{
        catalogURL:  catalogURL,
        identityURL: identityURL,
        httpClient:  &http.Client{Timeout: perCallTimeout},
        maxRetries:  maxRetries,
    }
}

// Room resolves a room by id.
func (c *Client) Room(ctx context.Context, id string) (*Room, error) {
    var room Room
    if err := c.getJSON(ctx, fmt.Sprintf("%s/internal/rooms/%s", c.catalogURL, id), "", &room); err != nil {
        return nil, err
    }
    return &room, nil
}

// Property resolves a property by id.
func (c *Client) Property(ctx context.Context, id string) (*Property, error) {
    var prop Property
    if err := c.getJSON(ctx, fmt.Sprintf("%s/internal/properties/%s", c.catalogURL, id), "", &prop); err != nil {
        return nil, err
    }
    return &prop, nil
}

// ValidateIdentity checks that the requester id and bearer credential name
// a valid identity.  ErrNotFound means the identity does not check out;
// ErrUnavailable means the service could not answer.
func (c *Client) ValidateIdentity(ctx context.Context, guestID, bearer string) (*Identity, error) {
    var ident Identity
    url := fmt.Sprintf("%s/internal/identities/%s", c.identityURL, guestID)
    if err := c.getJSON(ctx, url, bearer, &ident); err != nil {
        return nil, err
    }
    return &ident, nil
}

// getJSON performs a GET with retry.  A 404 is terminal (the record does
// not exist, retrying will not change that); network errors and 5xx
// responses are retried with fibonacci backoff until the budget runs out.
func (c *Client) getJSON(ctx context.Context, url, bearer string, out interface{}) error {
    backoff := retry.WithMaxRetries(c.maxRetries, retry.NewFibonacci(200*time.Millisecond))
    err := retry.Do(ctx, backoff, func(ctx context.Context) error {
        req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
        if err != nil {
            return err
        }
        if bearer != "" {
            req.Header.Set("Authorization", "Bearer "+bearer)
        }
        resp, err := c.httpClient.Do(req)
        if err != nil {
            return retry.RetryableError(err)
        }
        defer resp.Body.Close()
        switch {
        case resp.StatusCode == http.StatusOK:
            return json.NewDecoder(resp.Body).Decode(out)
        case resp.StatusCode == http.StatusNotFound:
            return ErrNotFound
        case resp.StatusCode >= 500:
            return retry.RetryableError(fmt.Errorf("catalog: status %d", resp.StatusCode))
        default:
            return fmt.Errorf("catalog: unexpected status %d", resp.StatusCode)
        }
    })
    if err == nil {
        return nil
    }
    if errors.Is(err, ErrNotFound) {
        return ErrNotFound
    }
    return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
