package handler

import (
	"errors"

	identitydomain "band-manager-go/internal/domain/identity"
	inventorydomain "band-manager-go/internal/domain/inventory"
	musicdomain "band-manager-go/internal/domain/music"
	rosterdomain "band-manager-go/internal/domain/roster"
	scheduledomain "band-manager-go/internal/domain/schedule"
	"band-manager-go/pkg/logger"
)

type Handlers struct {
	Identity  *identitydomain.Service
	Roster    *rosterdomain.Service
	Schedule  *scheduledomain.Service
	Music     *musicdomain.Service
	Inventory *inventorydomain.Service

	log logger.Logger
}

func New(identity *identitydomain.Service, roster *rosterdomain.Service, schedule *scheduledomain.Service, music *musicdomain.Service, inventory *inventorydomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Identity:  identity,
		Roster:    roster,
		Schedule:  schedule,
		Music:     music,
		Inventory: inventory,
		log:       log,
	}
}

func isForbidden(err error) bool {
	return errors.Is(err, identitydomain.ErrUnauthorized)
}
