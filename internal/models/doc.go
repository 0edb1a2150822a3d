// Package models defines the CabinKeeper domain records (Cabin, Reservation),
// the civil Date type they use, and the whole-collection JSON codec used for
// the durable blob slots.
package models
