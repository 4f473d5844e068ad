package models

import (
	"time"

	"github.com/uptrace/bun"
)

// SpeedTest links one MobileResult to the device, tester, location and
// client IP that produced it. Exactly one exists per identified result.
type SpeedTest struct {
	bun.BaseModel `bun:"table:speed_tests,alias:st"`

	ID         int64     `bun:",pk,autoincrement" json:"id"`
	TestID     string    `bun:",unique,notnull" json:"test_id"`
	ResultID   int64     `bun:",notnull" json:"result_id"`
	TesterID   int64     `bun:",notnull" json:"tester_id"`
	DeviceID   int64     `bun:",notnull" json:"device_id"`
	LocationID int64     `bun:",notnull" json:"location_id"`
	ClientIP   string    `json:"client_ip"`
	CreatedAt  time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"date_created"`

	Result   *MobileResult `bun:"rel:belongs-to,join:result_id=id" json:"result,omitempty"`
	Tester   *Agent        `bun:"rel:belongs-to,join:tester_id=id" json:"tester,omitempty"`
	Device   *MobileDevice `bun:"rel:belongs-to,join:device_id=id" json:"device,omitempty"`
	Location *Location     `bun:"rel:belongs-to,join:location_id=id" json:"location,omitempty"`
}

// RfcTest is the RFC 6349 counterpart of SpeedTest.
type RfcTest struct {
	bun.BaseModel `bun:"table:rfc_tests,alias:rt"`

	ID         int64     `bun:",pk,autoincrement" json:"id"`
	TestID     string    `bun:",unique,notnull" json:"test_id"`
	ResultID   int64     `bun:",notnull" json:"result_id"`
	TesterID   int64     `bun:",notnull" json:"tester_id"`
	DeviceID   int64     `bun:",notnull" json:"device_id"`
	LocationID int64     `bun:",notnull" json:"location_id"`
	ClientIP   string    `json:"client_ip"`
	CreatedAt  time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"date_created"`

	Result   *RfcResult `bun:"rel:belongs-to,join:result_id=id" json:"result,omitempty"`
	Tester   *Agent     `bun:"rel:belongs-to,join:tester_id=id" json:"tester,omitempty"`
	Device   *RfcDevice `bun:"rel:belongs-to,join:device_id=id" json:"device,omitempty"`
	Location *Location  `bun:"rel:belongs-to,join:location_id=id" json:"location,omitempty"`
}

// PublicSpeedTest records an anonymous mobile submission. It references
// only the raw result: no device, tester or location linkage.
type PublicSpeedTest struct {
	bun.BaseModel `bun:"table:public_speed_tests,alias:pst"`

	ID        int64     `bun:",pk,autoincrement" json:"id"`
	TestID    string    `bun:",unique,notnull" json:"test_id"`
	ResultID  int64     `bun:",notnull" json:"result_id"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"date_created"`

	Result *MobileResult `bun:"rel:belongs-to,join:result_id=id" json:"result,omitempty"`
}

// PublicRfcTest records an anonymous RFC 6349 submission.
type PublicRfcTest struct {
	bun.BaseModel `bun:"table:public_rfc_tests,alias:prt"`

	ID        int64     `bun:",pk,autoincrement" json:"id"`
	TestID    string    `bun:",unique,notnull" json:"test_id"`
	ResultID  int64     `bun:",notnull" json:"result_id"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"date_created"`

	Result *RfcResult `bun:"rel:belongs-to,join:result_id=id" json:"result,omitempty"`
}
