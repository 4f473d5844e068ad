package models

import (
	"time"

	"github.com/uptrace/bun"
)

// RegionalOffice is an NTC regional office. Agents belong to exactly one
// office and reports are scoped by its region code.
type RegionalOffice struct {
	bun.BaseModel `bun:"table:regional_offices,alias:ro"`

	ID        int64     `bun:",pk,autoincrement" json:"id"`
	Region    string    `bun:",unique,notnull" json:"region"`
	Address   string    `json:"address"`
	Email     string    `json:"email"`
	Telephone string    `json:"telephone"`
	Mobile    string    `json:"mobile"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
}
