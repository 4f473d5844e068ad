package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MobileResult is an immutable mobile speed-test snapshot. The
// (timestamp, server_id) pair is unique: it is the system's only
// de-duplication guarantee for concurrent or repeated submissions.
type MobileResult struct {
	bun.BaseModel `bun:"table:mobile_results,alias:mr"`

	ID             int64     `bun:",pk,autoincrement" json:"id"`
	AndroidVersion string    `json:"android_version"`
	SSID           string    `json:"ssid"`
	BSSID          string    `json:"bssid"`
	RSSI           float64   `json:"rssi"`
	NetworkType    string    `json:"network_type"`
	IMEI           string    `json:"imei"`
	CellID         string    `json:"cell_id"`
	MCC            string    `json:"mcc"`
	MNC            string    `json:"mnc"`
	TAC            string    `json:"tac"`
	SignalQuality  string    `json:"signal_quality"`
	Operator       string    `json:"operator"`
	Lat            float64   `json:"lat"`
	Lon            float64   `json:"lon"`
	Upload         float64   `json:"upload"`
	Download       float64   `json:"download"`
	Jitter         float64   `json:"jitter"`
	Ping           float64   `json:"ping"`
	Timestamp      time.Time `bun:",notnull,unique:mobile_results_timestamp_server_key" json:"timestamp"`
	Success        bool      `bun:",notnull" json:"success"`
	ServerID       int64     `bun:",notnull,unique:mobile_results_timestamp_server_key" json:"server_id"`
	CreatedAt      time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`

	Server *Server `bun:"rel:belongs-to,join:server_id=id" json:"server,omitempty"`
}

// RfcResult is an immutable RFC 6349 TCP throughput test snapshot.
// Same (timestamp, server_id) uniqueness rule as MobileResult.
type RfcResult struct {
	bun.BaseModel `bun:"table:rfc_results,alias:rr"`

	ID                    int64     `bun:",pk,autoincrement" json:"id"`
	Direction             Direction `bun:",notnull,default:'unknown'" json:"direction"`
	MTU                   int       `json:"mtu"`
	BaselineRTT           float64   `json:"baseline_rtt"`
	RTT                   float64   `json:"rtt"`
	AveRTT                float64   `json:"ave_rtt"`
	BB                    float64   `json:"bb"`
	BDP                   float64   `json:"bdp"`
	RWND                  float64   `json:"rwnd"`
	MaxAchievableThpt     int64     `json:"max_achievable_thpt"`
	ActualThpt            int64     `json:"actual_thpt"`
	IdealTransferTime     float64   `json:"ideal_transfer_time"`
	ActualTransferTime    float64   `json:"actual_transfer_time"`
	TransferTimeRatio     float64   `json:"transfer_time_ratio"`
	TCPEfficiency         float64   `json:"tcp_efficiency"`
	BufferDelay           float64   `json:"buffer_delay"`
	TxBytes               float64   `json:"tx_bytes"`
	TransferBytes         int64     `json:"transfer_bytes"`
	RetransmitBytes       int64     `json:"retransmit_bytes"`
	SenderTCPCongestion   string    `json:"sender_tcp_congestion"`
	ReceiverTCPCongestion string    `json:"receiver_tcp_congestion"`
	Lat                   float64   `json:"lat"`
	Lon                   float64   `json:"lon"`
	Location              string    `json:"location"`
	Timestamp             time.Time `bun:",notnull,unique:rfc_results_timestamp_server_key" json:"timestamp"`
	ServerID              int64     `bun:",notnull,unique:rfc_results_timestamp_server_key" json:"server_id"`
	CreatedAt             time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`

	Server *Server `bun:"rel:belongs-to,join:server_id=id" json:"server,omitempty"`
}
