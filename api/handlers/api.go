package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ssm-mz/dispatch-api/api"
	"github.com/ssm-mz/dispatch-api/api/scheduler"
	"github.com/ssm-mz/dispatch-api/audit"
	"github.com/ssm-mz/dispatch-api/comms"
	"github.com/ssm-mz/dispatch-api/config"
	"github.com/ssm-mz/dispatch-api/databases"
	"github.com/ssm-mz/dispatch-api/dispatch"
	"github.com/ssm-mz/dispatch-api/feed"
	"github.com/ssm-mz/dispatch-api/triage"
)

// App stores the router and the wired services, so they can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Client    databases.ClientHelper
	Directory *databases.Directory
	Seed      *databases.Seed

	Dispatch   *dispatch.Coordinator
	Ledger     *comms.Ledger
	Audit      *audit.Service
	Auth       *api.Auth
	Feed       *feed.Hub
	Classifier triage.Classifier
	Scheduler  *scheduler.Scheduler
	Registry   *prometheus.Registry
}

// stores picks the Mongo collections when DB_URI is set and in-process stores otherwise
type stores struct {
	incidents      databases.IncidentDatabase
	ambulances     databases.AmbulanceDatabase
	audit          databases.AuditDatabase
	communications databases.CommunicationDatabase
}

// Initialize is invoked by main to connect the stores, wire the services and create a router
func (a *App) Initialize() error {
	seed, err := databases.LoadSeed(a.Config.SeedFile)
	if err != nil {
		zap.S().With(err).Error("failed to load directory seed")
		return err
	}
	a.Seed = seed
	a.Directory = databases.NewDirectory(seed)

	s, err := a.connect()
	if err != nil {
		return err
	}

	if a.Config.OpenAIKey != "" {
		a.Classifier = triage.NewOpenAIClassifier(a.Config.OpenAIKey, a.Config.OpenAIBaseURL, a.Config.TriageModel)
	} else {
		zap.S().Warn("OPENAI_API_KEY not set, free-text triage is disabled")
	}
	a.Wire(s.incidents, s.ambulances, s.audit, s.communications)

	a.Scheduler = scheduler.NewScheduler(a.Dispatch, a.Audit, a.Config.SweepSpec)
	return a.Scheduler.Start()
}

func (a *App) connect() (*stores, error) {
	if a.Config.URL == "" {
		zap.S().Warn("DB_URI not set, using in-memory stores")
		return &stores{
			incidents:      databases.NewMemoryIncidentDatabase(),
			ambulances:     databases.NewMemoryAmbulanceDatabase(a.Seed.Ambulances...),
			audit:          databases.NewMemoryAuditDatabase(),
			communications: databases.NewMemoryCommunicationDatabase(),
		}, nil
	}

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return nil, err
	}
	ctx, cancel := api.WithJobTimeout(context.Background())
	defer cancel()
	if err = client.Connect(ctx); err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return nil, err
	}
	a.Client = client
	zap.S().Info("ssm-dispatch-api has connected to the database")

	db := databases.NewDatabase(&a.Config, client)
	s := &stores{
		incidents:      databases.NewIncidentDatabase(db),
		ambulances:     databases.NewAmbulanceDatabase(db),
		audit:          databases.NewAuditDatabase(db),
		communications: databases.NewCommunicationDatabase(db),
	}
	added, err := databases.SeedRoster(ctx, s.ambulances, a.Seed.Ambulances)
	if err != nil {
		zap.S().With(err).Error("failed to seed the ambulance roster")
		return nil, err
	}
	zap.S().Infow("ambulance roster ready", "added", added)
	return s, nil
}

// Wire builds the services over the given stores and creates the router
func (a *App) Wire(incidents databases.IncidentDatabase, ambulances databases.AmbulanceDatabase,
	auditDB databases.AuditDatabase, communications databases.CommunicationDatabase) {
	if a.Directory == nil {
		a.Directory = databases.NewDirectory(a.Seed)
	}
	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a.Audit = audit.NewService(auditDB, a.Config.AuditCapacity)
	a.Feed = feed.NewHub(a.Config.FeedPingInterval)
	a.Dispatch = dispatch.New(incidents, ambulances, a.Directory, a.Audit, a.Config.AcceptTimeout)
	a.Dispatch.Feed = a.Feed
	a.Dispatch.Metrics = dispatch.NewMetrics(a.Registry)
	a.Ledger = comms.NewLedger(communications, a.Audit)
	a.Auth = api.NewAuth(a.Directory, a.Audit, a.Config.SessionTTL)

	a.Router = a.New()
}

// Close stops background work and disconnects from the database
func (a *App) Close(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Dispatch != nil {
		a.Dispatch.Close()
	}
	if a.Client != nil {
		if err := a.Client.Disconnect(ctx); err != nil {
			zap.S().With(err).Error("failed to disconnect from database")
		}
	}
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := api.New()
	r.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	m := api.NewHTTPMetrics(a.Registry)
	r.Use(m.Middleware)

	inc := Incident{Dispatch: a.Dispatch}
	tri := Triage{Classifier: a.Classifier}
	com := Communication{Dispatch: a.Dispatch, Ledger: a.Ledger}
	dir := Directory{Directory: a.Directory, Dispatch: a.Dispatch}
	trail := AuditTrail{Service: a.Audit}

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(a.requestTimeout()))

	apiCreate.Handle("/auth/token", a.Auth.Middleware(http.HandlerFunc(a.Auth.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", a.Auth.Middleware(http.HandlerFunc(a.Auth.RevokeToken))).Methods("DELETE")
	apiCreate.Handle("/me", a.Auth.Middleware(http.HandlerFunc(dir.MeHandler))).Methods("GET")

	apiCreate.Handle("/incidents", a.Auth.Middleware(http.HandlerFunc(inc.IncidentsHandler))).Methods("GET")
	apiCreate.Handle("/incidents", a.Auth.Middleware(http.HandlerFunc(inc.CreateIncidentHandler))).Methods("POST")
	apiCreate.Handle("/incidents/{incident_id}", a.Auth.Middleware(http.HandlerFunc(inc.IncidentByIDHandler))).Methods("GET")
	apiCreate.Handle("/incidents/{incident_id}/nearest-units", a.Auth.Middleware(http.HandlerFunc(inc.NearestUnitsHandler))).Methods("GET")
	apiCreate.Handle("/incidents/{incident_id}/nearest-hospitals", a.Auth.Middleware(http.HandlerFunc(inc.NearestHospitalsHandler))).Methods("GET")
	apiCreate.Handle("/incidents/{incident_id}/dispatch", a.Auth.Middleware(http.HandlerFunc(inc.DispatchHandler))).Methods("POST")
	apiCreate.Handle("/incidents/{incident_id}/accept", a.Auth.Middleware(http.HandlerFunc(inc.AcceptHandler))).Methods("POST")
	apiCreate.Handle("/incidents/{incident_id}/arrive", a.Auth.Middleware(http.HandlerFunc(inc.ArriveHandler))).Methods("POST")
	apiCreate.Handle("/incidents/{incident_id}/evacuate", a.Auth.Middleware(http.HandlerFunc(inc.EvacuateHandler))).Methods("POST")
	apiCreate.Handle("/incidents/{incident_id}/hospital", a.Auth.Middleware(http.HandlerFunc(inc.HospitalHandler))).Methods("POST")
	apiCreate.Handle("/incidents/{incident_id}/finalize", a.Auth.Middleware(http.HandlerFunc(inc.FinalizeHandler))).Methods("POST")
	apiCreate.Handle("/incidents/{incident_id}/communications", a.Auth.Middleware(http.HandlerFunc(com.CommunicationsHandler))).Methods("GET")
	apiCreate.Handle("/incidents/{incident_id}/communications", a.Auth.Middleware(http.HandlerFunc(com.CreateCommunicationHandler))).Methods("POST")
	apiCreate.Handle("/sos", a.Auth.Middleware(http.HandlerFunc(inc.SOSHandler))).Methods("POST")
	apiCreate.Handle("/field/mission", a.Auth.Middleware(http.HandlerFunc(inc.FieldMissionHandler))).Methods("GET")

	apiCreate.Handle("/triage/protocol", a.Auth.Middleware(http.HandlerFunc(tri.ProtocolHandler))).Methods("GET")
	apiCreate.Handle("/triage/structured", a.Auth.Middleware(http.HandlerFunc(tri.StructuredHandler))).Methods("POST")
	apiCreate.Handle("/triage/analyze", a.Auth.Middleware(http.HandlerFunc(tri.AnalyzeHandler))).Methods("POST")

	apiCreate.Handle("/ambulances", a.Auth.Middleware(http.HandlerFunc(dir.AmbulancesHandler))).Methods("GET")
	apiCreate.Handle("/companies", a.Auth.Middleware(http.HandlerFunc(dir.CompaniesHandler))).Methods("GET")
	apiCreate.Handle("/resources", a.Auth.Middleware(http.HandlerFunc(dir.ResourcesHandler))).Methods("GET")
	apiCreate.Handle("/employees", a.Auth.Middleware(http.HandlerFunc(dir.EmployeesHandler))).Methods("GET")

	apiCreate.Handle("/audit", a.Auth.Middleware(http.HandlerFunc(trail.AuditHandler))).Methods("GET")
	apiCreate.Handle("/audit/export", a.Auth.Middleware(http.HandlerFunc(trail.ExportHandler))).Methods("GET")

	apiCreate.Handle("/feed", a.Auth.Middleware(a.Feed)).Methods("GET")

	return r
}

func (a *App) requestTimeout() time.Duration {
	if a.Config.RequestTimeout <= 0 {
		return 15 * time.Second
	}
	return a.Config.RequestTimeout
}
