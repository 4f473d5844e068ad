package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Server is a registered test server. The same model covers RFC 6349 test
// servers and web-based speedtest servers; raw results reference the server
// they ran against.
type Server struct {
	bun.BaseModel `bun:"table:servers,alias:s"`

	ID            int64      `bun:",pk,autoincrement" json:"id"`
	UUID          string     `bun:",unique,notnull" json:"uuid"`
	Nickname      string     `json:"nickname"`
	IPAddress     string     `bun:",notnull" json:"ip_address"`
	ServerType    ServerType `bun:",notnull,default:'unknown'" json:"server_type"`
	Lat           float64    `json:"lat"`
	Lon           float64    `json:"lon"`
	City          string     `json:"city"`
	Province      string     `json:"province"`
	Country       string     `bun:",notnull,default:'Philippines'" json:"country"`
	Sponsor       string     `json:"sponsor"`
	Hostname      string     `json:"hostname"`
	URL           string     `json:"url"`
	ContributorID int64      `bun:",nullzero" json:"contributor_id,omitempty"`
	CreatedAt     time.Time  `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`

	Contributor *Agent `bun:"rel:belongs-to,join:contributor_id=id" json:"-"`
}
