package models

import "fmt"

// UnknownCabinName is shown for reservations whose cabin cannot be found.
const UnknownCabinName = "Unknown cabin"

// Cabin is a rentable unit with a display name and an optional photo.
type Cabin struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image"` // data URI, null when absent
}

// CabinPatch carries the editable cabin fields; nil means "leave as is".
type CabinPatch struct {
	Name        *string
	Image       *string
	RemoveImage bool
}

// Apply returns c with the patch merged in.
func (p CabinPatch) Apply(c Cabin) Cabin {
	if p.Name != nil {
		c.Name = *p.Name
	}
	switch {
	case p.RemoveImage:
		c.Image = nil
	case p.Image != nil:
		img := *p.Image
		c.Image = &img
	}
	return c
}

// HasImage reports whether the cabin carries a photo.
func (c Cabin) HasImage() bool {
	return c.Image != nil && *c.Image != ""
}

// SeedCabins returns n cabins with ids 1..n named "Cabin 1".."Cabin n".
func SeedCabins(n int) []Cabin {
	cabins := make([]Cabin, 0, n)
	for i := 1; i <= n; i++ {
		cabins = append(cabins, Cabin{ID: i, Name: fmt.Sprintf("Cabin %d", i)})
	}
	return cabins
}
