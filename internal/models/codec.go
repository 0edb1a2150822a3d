package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed reports persisted data whose shape does not match the model.
var ErrMalformed = errors.New("malformed collection")

// EncodeCabins serializes the whole cabin collection. A nil slice is written
// as an empty array.
func EncodeCabins(cabins []Cabin) ([]byte, error) {
	if cabins == nil {
		cabins = []Cabin{}
	}
	return json.Marshal(cabins)
}

// DecodeCabins parses and validates a cabin collection.
func DecodeCabins(data []byte) ([]Cabin, error) {
	var cabins []Cabin
	if err := json.Unmarshal(data, &cabins); err != nil {
		return nil, fmt.Errorf("%w: cabins: %v", ErrMalformed, err)
	}
	if cabins == nil {
		return nil, fmt.Errorf("%w: cabins: not an array", ErrMalformed)
	}

	seen := make(map[int]struct{}, len(cabins))
	for i, c := range cabins {
		if c.ID <= 0 {
			return nil, fmt.Errorf("%w: cabin #%d: id must be positive, got %d", ErrMalformed, i, c.ID)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: cabin #%d: duplicate id %d", ErrMalformed, i, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return cabins, nil
}

// EncodeReservations serializes the whole reservation collection.
func EncodeReservations(reservations []Reservation) ([]byte, error) {
	if reservations == nil {
		reservations = []Reservation{}
	}
	return json.Marshal(reservations)
}

// DecodeReservations parses and validates a reservation collection.
// Date order is not checked.
func DecodeReservations(data []byte) ([]Reservation, error) {
	var reservations []Reservation
	if err := json.Unmarshal(data, &reservations); err != nil {
		return nil, fmt.Errorf("%w: reservations: %v", ErrMalformed, err)
	}
	if reservations == nil {
		return nil, fmt.Errorf("%w: reservations: not an array", ErrMalformed)
	}

	seen := make(map[string]struct{}, len(reservations))
	for i, r := range reservations {
		if r.ID == "" {
			return nil, fmt.Errorf("%w: reservation #%d: missing id", ErrMalformed, i)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("%w: reservation #%d: duplicate id %q", ErrMalformed, i, r.ID)
		}
		seen[r.ID] = struct{}{}
		if r.StartDate.IsZero() || r.EndDate.IsZero() {
			return nil, fmt.Errorf("%w: reservation %q: missing dates", ErrMalformed, r.ID)
		}
	}
	return reservations, nil
}
