package database

import (
	"context"
	"fmt"
	"time"

	"netmesh-api/pkg/models"

	"github.com/uptrace/bun"
)

// ReportFilter carries one request's report parameters. It is built per
// request and passed down explicitly; filter state is never shared between
// requests.
type ReportFilter struct {
	Region       string
	Search       string // test_id substring
	ISP          string // operator substring
	Province     string
	Municipality string
	Barangay     string
	MinDate      time.Time
	MaxDate      time.Time
	Descending   bool
	Start        int
	Length       int
}

func (f ReportFilter) apply(q *bun.SelectQuery, alias string) *bun.SelectQuery {
	q = q.Where(`tester__office.region = ?`, f.Region)

	if f.Search != "" {
		q = q.Where(fmt.Sprintf(`LOWER(%s.test_id) LIKE LOWER(?)`, alias), "%"+f.Search+"%")
	}
	if f.ISP != "" {
		q = q.Where(`LOWER(result.operator) LIKE LOWER(?)`, "%"+f.ISP+"%")
	}
	if f.Province != "" {
		q = q.Where(`LOWER(location.province) LIKE LOWER(?)`, "%"+f.Province+"%")
	}
	if f.Municipality != "" {
		q = q.Where(`LOWER(location.municipality) LIKE LOWER(?)`, "%"+f.Municipality+"%")
	}
	if f.Barangay != "" {
		q = q.Where(`LOWER(location.barangay) LIKE LOWER(?)`, "%"+f.Barangay+"%")
	}
	if !f.MinDate.IsZero() {
		max := f.MaxDate
		if max.IsZero() {
			max = time.Now()
		}
		// the range is inclusive of the whole max day
		q = q.Where(fmt.Sprintf(`%s.created_at BETWEEN ? AND ?`, alias),
			f.MinDate, max.AddDate(0, 0, 1))
	}

	order := "ASC"
	if f.Descending {
		order = "DESC"
	}
	q = q.Order(fmt.Sprintf("%s.created_at %s", alias, order))

	if f.Length > 0 {
		q = q.Offset(f.Start).Limit(f.Length)
	}

	return q
}

// ListSpeedTests returns the attribution records matching the filter plus
// the unpaged match count.
func (db *DB) ListSpeedTests(ctx context.Context, filter ReportFilter) ([]models.SpeedTest, int, error) {
	var tests []models.SpeedTest
	q := db.NewSelect().
		Model(&tests).
		Relation("Result").
		Relation("Tester").
		Relation("Tester.Office").
		Relation("Device").
		Relation("Location")

	q = filter.apply(q, "st")

	count, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing speed tests: %v", err)
	}

	return tests, count, nil
}

// ListRfcTests is the RFC 6349 counterpart of ListSpeedTests. The ISP
// filter does not apply: RFC results carry no operator field.
func (db *DB) ListRfcTests(ctx context.Context, filter ReportFilter) ([]models.RfcTest, int, error) {
	filter.ISP = ""

	var tests []models.RfcTest
	q := db.NewSelect().
		Model(&tests).
		Relation("Result").
		Relation("Tester").
		Relation("Tester.Office").
		Relation("Device").
		Relation("Location")

	q = filter.apply(q, "rt")

	count, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing rfc tests: %v", err)
	}

	return tests, count, nil
}
