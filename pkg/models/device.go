package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MobileDevice is an Android handset enrolled to a field tester.
type MobileDevice struct {
	bun.BaseModel `bun:"table:mobile_devices,alias:md"`

	ID             int64     `bun:",pk,autoincrement" json:"id"`
	AgentID        int64     `bun:",notnull,unique:mobile_devices_agent_serial_key" json:"agent_id"`
	SerialNumber   string    `bun:",notnull,unique:mobile_devices_agent_serial_key" json:"serial_number"`
	IMEI           string    `json:"imei"`
	PhoneModel     string    `json:"phone_model"`
	AndroidVersion string    `json:"android_version"`
	RAM            string    `json:"ram"`
	Storage        string    `json:"storage"`
	IsActive       bool      `bun:",notnull,default:true" json:"is_active"`
	CreatedAt      time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`

	Agent *Agent `bun:"rel:belongs-to,join:agent_id=id" json:"agent,omitempty"`
}

// RfcDevice is the hardware (pc/laptop) used by RFC 6349 test agents.
type RfcDevice struct {
	bun.BaseModel `bun:"table:rfc_devices,alias:rd"`

	ID           int64     `bun:",pk,autoincrement" json:"id"`
	AgentID      int64     `bun:",notnull,unique:rfc_devices_agent_serial_name_key" json:"agent_id"`
	Name         string    `bun:",notnull,unique:rfc_devices_agent_serial_name_key" json:"name"`
	SerialNumber string    `bun:",unique:rfc_devices_agent_serial_name_key" json:"serial_number"`
	Manufacturer string    `json:"manufacturer"`
	Product      string    `json:"product"`
	Version      string    `json:"version"`
	OS           string    `json:"os"`
	Kernel       string    `json:"kernel"`
	RAM          string    `json:"ram"`
	Disk         string    `json:"disk"`
	IsActive     bool      `bun:",notnull,default:true" json:"is_active"`
	CreatedAt    time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`

	Agent *Agent `bun:"rel:belongs-to,join:agent_id=id" json:"agent,omitempty"`
}
