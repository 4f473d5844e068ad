package models

// NTC administrative region codes used for offices, agents and reports.
var RegionChoices = []string{
	"1", "2", "3", "4-A", "4-B", "5", "6", "7", "8", "9", "10", "11", "12", "13",
	"NCR", "CAR", "BARMM", "Central", "unknown", "Demo",
}

func IsValidRegion(code string) bool {
	for _, c := range RegionChoices {
		if c == code {
			return true
		}
	}
	return false
}

type ServerType string

const (
	ServerLocal    ServerType = "local"
	ServerOverseas ServerType = "overseas"
	ServerIX       ServerType = "ix"
	ServerWeb      ServerType = "web-based"
	ServerRFC      ServerType = "rfc"
	ServerUnknown  ServerType = "unknown"
)

type Direction string

const (
	DirectionForward Direction = "forward" // client to test server
	DirectionReverse Direction = "reverse" // test server to client
	DirectionUnknown Direction = "unknown"
)

type NetworkType string

const (
	Network2G      NetworkType = "2g"
	Network3G      NetworkType = "3g"
	Network4G      NetworkType = "4g"
	NetworkLTE     NetworkType = "lte"
	NetworkDSL     NetworkType = "dsl"
	NetworkUnknown NetworkType = "unknown"
)
