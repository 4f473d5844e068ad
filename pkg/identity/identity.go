// Package identity maps an opaque bearer credential to the enrolled device
// and owning agent, or to the anonymous identity when no credential is
// presented.
package identity

import (
	"context"

	"netmesh-api/pkg/apperr"
	"netmesh-api/pkg/database"
	"netmesh-api/pkg/models"
)

// Identity is the outcome of resolving a credential. Anonymous is a
// supported first-class state, not an error.
type Identity struct {
	Anonymous bool

	Kind         models.DeviceKind
	Agent        *models.Agent
	MobileDevice *models.MobileDevice
	RfcDevice    *models.RfcDevice
}

type Resolver struct {
	db *database.DB
}

func NewResolver(db *database.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve is a pure lookup: an empty token yields the anonymous identity; a
// token that maps to no active device/agent binding fails with not-found.
func (r *Resolver) Resolve(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{Anonymous: true}, nil
	}

	at, err := r.db.GetActiveToken(ctx, token)
	if err != nil {
		return Identity{}, err
	}

	if at.Agent == nil || !at.Agent.IsActive {
		return Identity{}, apperr.NotFound("device not registered to credential")
	}

	id := Identity{Kind: at.DeviceKind, Agent: at.Agent}
	switch at.DeviceKind {
	case models.KindMobile:
		if at.MobileDevice == nil || !at.MobileDevice.IsActive {
			return Identity{}, apperr.NotFound("device not registered to credential")
		}
		id.MobileDevice = at.MobileDevice
	case models.KindRFC:
		if at.RfcDevice == nil || !at.RfcDevice.IsActive {
			return Identity{}, apperr.NotFound("device not registered to credential")
		}
		id.RfcDevice = at.RfcDevice
	case models.KindWeb:
		// web login token: agent identity only, no test device
	default:
		return Identity{}, apperr.NotFound("device not registered to credential")
	}

	return id, nil
}
