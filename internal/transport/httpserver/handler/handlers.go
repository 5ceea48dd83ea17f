package handler

import (
	branchdomain "church-app-go/internal/domain/branch"
	churchdomain "church-app-go/internal/domain/church"
	familydomain "church-app-go/internal/domain/family"
	groupdomain "church-app-go/internal/domain/group"
	memberdomain "church-app-go/internal/domain/member"
	outboxdomain "church-app-go/internal/domain/outbox"
	pastordomain "church-app-go/internal/domain/pastor"
	"church-app-go/pkg/logger"
)

type Handlers struct {
	Churches *churchdomain.Service
	Branches *branchdomain.Service
	Members  *memberdomain.Service
	Families *familydomain.Service
	Groups   *groupdomain.Service
	Pastors  *pastordomain.Service
	Outbox   *outboxdomain.Service
	log      logger.Logger
}

func New(
	churches *churchdomain.Service,
	branches *branchdomain.Service,
	members *memberdomain.Service,
	families *familydomain.Service,
	groups *groupdomain.Service,
	pastors *pastordomain.Service,
	outbox *outboxdomain.Service,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Churches: churches,
		Branches: branches,
		Members:  members,
		Families: families,
		Groups:   groups,
		Pastors:  pastors,
		Outbox:   outbox,
		log:      log,
	}
}
