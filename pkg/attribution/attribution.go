// Package attribution orchestrates the submission flow: store the raw
// measurement and bind it to the device, tester, geocoded location and
// client IP that produced it, or to a lightweight public record for
// anonymous contributions.
//
// Both paths run as a single transaction. For identified submissions the
// location is resolved first, so a geocoding failure stores nothing at all;
// a raw result can never be left behind unattributed.
package attribution

import (
	"context"
	"log/slog"

	"netmesh-api/pkg/apperr"
	"netmesh-api/pkg/database"
	"netmesh-api/pkg/event"
	"netmesh-api/pkg/geocode"
	"netmesh-api/pkg/identity"
	"netmesh-api/pkg/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Service struct {
	db       *database.DB
	geocoder geocode.Resolver
	events   *event.Publisher // nil when amqp is disabled
}

func NewService(db *database.DB, geocoder geocode.Resolver, events *event.Publisher) *Service {
	return &Service{db: db, geocoder: geocoder, events: events}
}

// Outcome reports what one accepted submission produced.
type Outcome struct {
	TestID   string
	Public   bool
	Location *models.Location
}

// SubmitMobile stores a mobile speed-test result and attributes it.
// Anonymous submissions never touch the geocoder and produce a
// PublicSpeedTest; identified ones produce a SpeedTest linking result,
// device, tester, location and client IP under a fresh test identifier.
func (s *Service) SubmitMobile(ctx context.Context, result *models.MobileResult, id identity.Identity, clientIP string) (*Outcome, error) {
	if err := geocode.ValidateCoordinates(result.Lat, result.Lon); err != nil {
		return nil, err
	}
	if _, err := s.db.GetServerByID(ctx, result.ServerID); err != nil {
		return nil, err
	}

	if id.Anonymous {
		test := &models.PublicSpeedTest{TestID: uuid.NewString()}
		err := s.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
			if err := database.InsertMobileResult(ctx, tx, result); err != nil {
				return err
			}
			test.ResultID = result.ID
			return database.InsertPublicSpeedTest(ctx, tx, test)
		})
		if err != nil {
			return nil, err
		}

		s.publish(ctx, event.RoutingPublic, event.TestEvent{
			TestID:    test.TestID,
			TestKind:  "mobile",
			Timestamp: result.Timestamp,
		})

		return &Outcome{TestID: test.TestID, Public: true}, nil
	}

	if id.MobileDevice == nil {
		return nil, apperr.NotFound("device not registered to credential")
	}

	loc, err := s.geocoder.Resolve(ctx, result.Lat, result.Lon)
	if err != nil {
		return nil, err
	}

	test := &models.SpeedTest{
		TestID:   uuid.NewString(),
		TesterID: id.Agent.ID,
		DeviceID: id.MobileDevice.ID,
		ClientIP: clientIP,
	}
	err = s.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := database.InsertMobileResult(ctx, tx, result); err != nil {
			return err
		}
		if err := database.InsertLocation(ctx, tx, loc); err != nil {
			return err
		}
		test.ResultID = result.ID
		test.LocationID = loc.ID
		return database.InsertSpeedTest(ctx, tx, test)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.RoutingAttributed, event.TestEvent{
		TestID:    test.TestID,
		TestKind:  "mobile",
		Region:    s.region(id),
		Timestamp: result.Timestamp,
	})

	return &Outcome{TestID: test.TestID, Location: loc}, nil
}

// SubmitRFC is the RFC 6349 counterpart of SubmitMobile.
func (s *Service) SubmitRFC(ctx context.Context, result *models.RfcResult, id identity.Identity, clientIP string) (*Outcome, error) {
	if err := geocode.ValidateCoordinates(result.Lat, result.Lon); err != nil {
		return nil, err
	}
	if _, err := s.db.GetServerByID(ctx, result.ServerID); err != nil {
		return nil, err
	}

	if id.Anonymous {
		test := &models.PublicRfcTest{TestID: uuid.NewString()}
		err := s.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
			if err := database.InsertRfcResult(ctx, tx, result); err != nil {
				return err
			}
			test.ResultID = result.ID
			return database.InsertPublicRfcTest(ctx, tx, test)
		})
		if err != nil {
			return nil, err
		}

		s.publish(ctx, event.RoutingPublic, event.TestEvent{
			TestID:    test.TestID,
			TestKind:  "rfc6349",
			Timestamp: result.Timestamp,
		})

		return &Outcome{TestID: test.TestID, Public: true}, nil
	}

	if id.RfcDevice == nil {
		return nil, apperr.NotFound("device not registered to credential")
	}

	loc, err := s.geocoder.Resolve(ctx, result.Lat, result.Lon)
	if err != nil {
		return nil, err
	}

	test := &models.RfcTest{
		TestID:   uuid.NewString(),
		TesterID: id.Agent.ID,
		DeviceID: id.RfcDevice.ID,
		ClientIP: clientIP,
	}
	err = s.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := database.InsertRfcResult(ctx, tx, result); err != nil {
			return err
		}
		if err := database.InsertLocation(ctx, tx, loc); err != nil {
			return err
		}
		test.ResultID = result.ID
		test.LocationID = loc.ID
		return database.InsertRfcTest(ctx, tx, test)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.RoutingAttributed, event.TestEvent{
		TestID:    test.TestID,
		TestKind:  "rfc6349",
		Region:    s.region(id),
		Timestamp: result.Timestamp,
	})

	return &Outcome{TestID: test.TestID, Location: loc}, nil
}

func (s *Service) region(id identity.Identity) string {
	if id.Agent != nil && id.Agent.Office != nil {
		return id.Agent.Office.Region
	}
	return ""
}

func (s *Service) publish(ctx context.Context, key string, ev event.TestEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, key, ev); err != nil {
		slog.Warn("Failed to publish test event", "testID", ev.TestID, "error", err)
	}
}
