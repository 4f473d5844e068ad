package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Agent is a platform user: a field tester submitting measurements from an
// assigned device, or a staff member managing their regional office.
// Agents are deactivated, never hard-deleted, while attribution records
// reference them.
type Agent struct {
	bun.BaseModel `bun:"table:agents,alias:a"`

	ID            int64     `bun:",pk,autoincrement" json:"id"`
	Email         string    `bun:",unique,notnull" json:"email"`
	PasswordHash  string    `bun:",notnull" json:"-"`
	FirstName     string    `bun:",notnull" json:"first_name"`
	LastName      string    `bun:",notnull" json:"last_name"`
	OfficeID      int64     `bun:",notnull" json:"office_id"`
	IsFieldTester bool      `bun:",notnull,default:true" json:"is_field_tester"`
	IsStaff       bool      `bun:",notnull,default:false" json:"is_staff"`
	IsActive      bool      `bun:",notnull,default:true" json:"is_active"`
	CreatedAt     time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`

	Office *RegionalOffice `bun:"rel:belongs-to,join:office_id=id" json:"office,omitempty"`
}
