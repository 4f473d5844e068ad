package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DeviceKind discriminates which device table an auth token is bound to.
type DeviceKind string

const (
	KindMobile DeviceKind = "mobile"
	KindRFC    DeviceKind = "rfc"
	KindWeb    DeviceKind = "web" // login token, not bound to a test device
)

// AuthToken is an opaque bearer credential bound to exactly one enrolled
// device and its owning agent. Identity once linked is immutable; revocation
// flips IsActive.
type AuthToken struct {
	bun.BaseModel `bun:"table:auth_tokens,alias:at"`

	ID             int64      `bun:",pk,autoincrement" json:"id"`
	Token          string     `bun:",unique,notnull" json:"token"`
	AgentID        int64      `bun:",notnull" json:"agent_id"`
	DeviceKind     DeviceKind `bun:",notnull" json:"device_kind"`
	MobileDeviceID int64      `bun:",nullzero" json:"mobile_device_id,omitempty"`
	RfcDeviceID    int64      `bun:",nullzero" json:"rfc_device_id,omitempty"`
	IsActive       bool       `bun:",notnull,default:true" json:"is_active"`
	CreatedAt      time.Time  `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`

	Agent        *Agent        `bun:"rel:belongs-to,join:agent_id=id" json:"-"`
	MobileDevice *MobileDevice `bun:"rel:belongs-to,join:mobile_device_id=id" json:"-"`
	RfcDevice    *RfcDevice    `bun:"rel:belongs-to,join:rfc_device_id=id" json:"-"`
}
