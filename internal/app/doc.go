// Package app composes the NEET prep service layer.
//
// # Package Structure
//
//	internal/app/
//	├── application.go      # Application struct, wiring, and lifecycle
//	├── core/service/       # Shared error kinds
//	├── domain/             # Domain models (pure data structures)
//	│   ├── plan/           # Subscription limits and quotas
//	│   ├── question/       # Question bank
//	│   └── session/        # Practice sessions and the lookup contract
//	├── storage/            # Store interfaces and the select chain
//	│   ├── cache/          # Redis and in-process lookup caches
//	│   ├── memory/         # In-memory implementation for tests and local runs
//	│   ├── postgres/       # PostgreSQL implementation for production
//	│   └── querytest/      # Select-chain test double
//	├── services/           # questions, sessions, plans
//	├── httpapi/            # HTTP API handlers and routing
//	├── system/             # Lifecycle manager and cron jobs
//	└── metrics/            # Prometheus collectors
//
// # Dependency Direction
//
//	cmd/appserver/
//	      │
//	      ▼
//	internal/app/httpapi ──► internal/app (Application)
//	                               │
//	                               ▼
//	                      internal/app/services
//	                               │
//	                               ▼
//	              internal/app/storage ◄── storage/postgres, storage/memory
//
// Domain packages import nothing from the layers above them. Stores
// report missing rows with the error kinds from core/service so handlers
// can map them to HTTP statuses without knowing the backend.
package app
