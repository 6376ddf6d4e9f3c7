package app

import (
	"context"
	"fmt"

	"github.com/neetprep/service_layer/internal/app/services/plans"
	"github.com/neetprep/service_layer/internal/app/services/questions"
	"github.com/neetprep/service_layer/internal/app/services/sessions"
	"github.com/neetprep/service_layer/internal/app/storage"
	"github.com/neetprep/service_layer/internal/app/storage/memory"
	"github.com/neetprep/service_layer/internal/app/system"
	"github.com/neetprep/service_layer/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Questions storage.QuestionStore
	Sessions  storage.SessionStore
	Querier   storage.Querier

	// LookupCache is optional; lookups go straight to the database without it.
	LookupCache sessions.Cache
}

// Application ties domain services together and manages their lifecycle.
type Application struct {
	manager *system.Manager
	log     *logger.Logger

	Cron      *system.CronService
	Questions *questions.Service
	Sessions  *sessions.Service
	Plans     *plans.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}

	var mem *memory.Store
	if stores.Questions == nil || stores.Sessions == nil || stores.Querier == nil {
		mem = memory.New()
		log.Warn("one or more stores not configured; using in-memory storage")
	}
	if stores.Questions == nil {
		stores.Questions = mem
	}
	if stores.Sessions == nil {
		stores.Sessions = mem
	}
	if stores.Querier == nil {
		stores.Querier = mem
	}

	planService := plans.New(stores.Sessions, log.Named("plans"))
	questionService := questions.New(stores.Questions, log.Named("questions"))
	sessionService := sessions.New(stores.Querier, stores.Sessions, log.Named("sessions")).
		WithQuota(planService)
	if stores.LookupCache != nil {
		sessionService.WithCache(stores.LookupCache)
	}

	manager := system.NewManager()
	for _, name := range []string{"questions", "sessions", "plans"} {
		if err := manager.Register(system.NoopService{ServiceName: name}); err != nil {
			return nil, fmt.Errorf("register %s service: %w", name, err)
		}
	}

	cronService := system.NewCronService(log.Named("cron"))
	if err := manager.Register(cronService); err != nil {
		return nil, fmt.Errorf("register %s: %w", cronService.Name(), err)
	}

	return &Application{
		manager:   manager,
		log:       log,
		Cron:      cronService,
		Questions: questionService,
		Sessions:  sessionService,
		Plans:     planService,
	}, nil
}

// Attach registers an additional lifecycle-managed service. Call before Start.
func (a *Application) Attach(service system.Service) error {
	return a.manager.Register(service)
}

// Start begins all registered services.
func (a *Application) Start(ctx context.Context) error {
	return a.manager.Start(ctx)
}

// Stop stops all services.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}
