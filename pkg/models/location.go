package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Location is a denormalized reverse-geocoding snapshot captured at
// submission time. Every identified submission creates its own row, even
// when coordinates repeat; tiers the geocoder could not resolve stay nil.
type Location struct {
	bun.BaseModel `bun:"table:locations,alias:l"`

	ID           int64     `bun:",pk,autoincrement" json:"id"`
	Lat          float64   `bun:",notnull" json:"lat"`
	Lon          float64   `bun:",notnull" json:"lon"`
	Region       *string   `json:"region"`
	Province     *string   `json:"province"`
	Municipality *string   `json:"municipality"`
	Barangay     *string   `json:"barangay"`
	CreatedAt    time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
}
