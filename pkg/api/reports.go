package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"netmesh-api/pkg/database"
	"netmesh-api/pkg/models"

	"github.com/gin-gonic/gin"
)

// reportFilterFromQuery builds the filter for regional report listings.
// Dates use YYYY-MM-DD; start/length are datatable paging parameters.
func reportFilterFromQuery(c *gin.Context, region string) database.ReportFilter {
	f := database.ReportFilter{
		Region:       region,
		Search:       c.Query("search"),
		ISP:          c.Query("isp"),
		Province:     c.Query("province"),
		Municipality: c.Query("municipality"),
		Barangay:     c.Query("barangay"),
		Descending:   c.Query("order") != "asc",
	}

	if v := c.Query("min_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.MinDate = t
		}
	}
	if v := c.Query("max_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.MaxDate = t
		}
	}

	f.Start, _ = strconv.Atoi(c.DefaultQuery("start", "0"))
	f.Length, _ = strconv.Atoi(c.DefaultQuery("length", "0"))

	return f
}

type reportResponse struct {
	Draw            int `json:"draw"`
	RecordsTotal    int `json:"recordsTotal"`
	RecordsFiltered int `json:"recordsFiltered"`
	Data            any `json:"data"`
}

func (s *Server) listRegionSpeedTests(c *gin.Context) {
	region, ok := staffRegion(c)
	if !ok {
		return
	}

	filter := reportFilterFromQuery(c, region)
	tests, count, err := s.db.ListSpeedTests(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	draw, _ := strconv.Atoi(c.DefaultQuery("draw", "1"))
	respond(c, http.StatusOK, reportResponse{
		Draw:            draw,
		RecordsTotal:    count,
		RecordsFiltered: count,
		Data:            tests,
	})
}

func (s *Server) listRegionRfcTests(c *gin.Context) {
	region, ok := staffRegion(c)
	if !ok {
		return
	}

	filter := reportFilterFromQuery(c, region)
	tests, count, err := s.db.ListRfcTests(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	draw, _ := strconv.Atoi(c.DefaultQuery("draw", "1"))
	respond(c, http.StatusOK, reportResponse{
		Draw:            draw,
		RecordsTotal:    count,
		RecordsFiltered: count,
		Data:            tests,
	})
}

var speedTestCSVHeader = []string{
	"test_id", "date", "tester", "region", "province", "municipality", "barangay",
	"lat", "lon", "download", "upload", "ping", "jitter", "network_type",
	"operator", "ssid", "rssi", "signal_quality", "android_version", "server",
	"client_ip",
}

var rfcTestCSVHeader = []string{
	"test_id", "date", "tester", "region", "province", "municipality", "barangay",
	"lat", "lon", "direction", "mtu", "baseline_rtt", "rtt", "bb", "bdp", "rwnd",
	"max_achievable_thpt", "actual_thpt", "transfer_time_ratio", "tcp_efficiency",
	"buffer_delay", "server", "client_ip",
}

func (s *Server) exportSpeedTestsCSV(c *gin.Context) {
	region, ok := staffRegion(c)
	if !ok {
		return
	}

	filter := reportFilterFromQuery(c, region)
	filter.Start, filter.Length = 0, 0 // exports are never paged
	tests, _, err := s.db.ListSpeedTests(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	startCSV(c, "mobile-tests")
	w := csv.NewWriter(c.Writer)
	w.Write(speedTestCSVHeader)
	for i := range tests {
		w.Write(speedTestCSVRow(&tests[i], region))
	}
	w.Flush()
}

func (s *Server) exportRfcTestsCSV(c *gin.Context) {
	region, ok := staffRegion(c)
	if !ok {
		return
	}

	filter := reportFilterFromQuery(c, region)
	filter.Start, filter.Length = 0, 0
	tests, _, err := s.db.ListRfcTests(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	startCSV(c, "rfc6349-tests")
	w := csv.NewWriter(c.Writer)
	w.Write(rfcTestCSVHeader)
	for i := range tests {
		w.Write(rfcTestCSVRow(&tests[i], region))
	}
	w.Flush()
}

func startCSV(c *gin.Context, name string) {
	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)
}

func speedTestCSVRow(t *models.SpeedTest, region string) []string {
	r := t.Result
	return []string{
		t.TestID,
		t.CreatedAt.Format(time.RFC3339),
		testerName(t.Tester),
		region,
		locTier(t.Location, func(l *models.Location) *string { return l.Province }),
		locTier(t.Location, func(l *models.Location) *string { return l.Municipality }),
		locTier(t.Location, func(l *models.Location) *string { return l.Barangay }),
		formatFloat(r.Lat),
		formatFloat(r.Lon),
		formatFloat(r.Download),
		formatFloat(r.Upload),
		formatFloat(r.Ping),
		formatFloat(r.Jitter),
		r.NetworkType,
		r.Operator,
		r.SSID,
		formatFloat(r.RSSI),
		r.SignalQuality,
		r.AndroidVersion,
		strconv.FormatInt(r.ServerID, 10),
		t.ClientIP,
	}
}

func rfcTestCSVRow(t *models.RfcTest, region string) []string {
	r := t.Result
	return []string{
		t.TestID,
		t.CreatedAt.Format(time.RFC3339),
		testerName(t.Tester),
		region,
		locTier(t.Location, func(l *models.Location) *string { return l.Province }),
		locTier(t.Location, func(l *models.Location) *string { return l.Municipality }),
		locTier(t.Location, func(l *models.Location) *string { return l.Barangay }),
		formatFloat(r.Lat),
		formatFloat(r.Lon),
		string(r.Direction),
		strconv.Itoa(r.MTU),
		formatFloat(r.BaselineRTT),
		formatFloat(r.RTT),
		formatFloat(r.BB),
		formatFloat(r.BDP),
		formatFloat(r.RWND),
		strconv.FormatInt(r.MaxAchievableThpt, 10),
		strconv.FormatInt(r.ActualThpt, 10),
		formatFloat(r.TransferTimeRatio),
		formatFloat(r.TCPEfficiency),
		formatFloat(r.BufferDelay),
		strconv.FormatInt(r.ServerID, 10),
		t.ClientIP,
	}
}

func testerName(a *models.Agent) string {
	if a == nil {
		return ""
	}
	return a.FirstName + " " + a.LastName
}

func locTier(l *models.Location, pick func(*models.Location) *string) string {
	if l == nil {
		return ""
	}
	if v := pick(l); v != nil {
		return *v
	}
	return ""
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
