package main

import (
	"context"
	"net/http"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/upkeephq/upkeep/internal/app"
	"github.com/upkeephq/upkeep/internal/config"
	"github.com/upkeephq/upkeep/internal/controllers"
	"github.com/upkeephq/upkeep/internal/repositories"
	"github.com/upkeephq/upkeep/internal/routes"
	"github.com/upkeephq/upkeep/internal/services"
	"github.com/upkeephq/upkeep/internal/utils"
)

func main() {
	// 1) Config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.AppName)

	// 2) Core application (DB pool)
	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to initialize app")
	}
	defer application.Close()

	// 3) Repositories
	buildingRepo := repositories.NewBuildingRepository(application.DB)
	unitRepo := repositories.NewUnitRepository(application.DB)
	tenantRepo := repositories.NewTenantRepository(application.DB)
	staffRepo := repositories.NewStaffRepository(application.DB)
	requestRepo := repositories.NewRequestRepository(application.DB)
	metricsRepo := repositories.NewMetricsRepository(application.DB)

	// 4) Services
	buildingSvc := services.NewBuildingService(buildingRepo, unitRepo)
	unitSvc := services.NewUnitService(unitRepo, buildingRepo, tenantRepo)
	tenantSvc := services.NewTenantService(tenantRepo, unitRepo, requestRepo)
	staffSvc := services.NewStaffService(staffRepo)
	requestSvc := services.NewRequestService(requestRepo, tenantRepo, unitRepo, buildingRepo, staffRepo)
	metricsSvc := services.NewMetricsService(metricsRepo, staffRepo)

	notifier := services.NewNotifier(cfg)
	slaMonitor := services.NewSLAMonitorService(requestRepo, notifier)

	// 5) Controllers
	healthCtrl := controllers.NewHealthController(application)
	requestCtrl := controllers.NewRequestController(requestSvc)
	buildingCtrl := controllers.NewBuildingController(buildingSvc)
	unitCtrl := controllers.NewUnitController(unitSvc)
	tenantCtrl := controllers.NewTenantController(tenantSvc)
	staffCtrl := controllers.NewStaffController(staffSvc)
	metricsCtrl := controllers.NewMetricsController(metricsSvc)

	// 6) Router
	router := mux.NewRouter()
	router.HandleFunc(routes.Health, healthCtrl.HealthCheckHandler).Methods(http.MethodGet)

	router.HandleFunc(routes.Requests, requestCtrl.CreateRequestHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Requests, requestCtrl.ListRequestsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.RequestByID, requestCtrl.GetRequestHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.RequestByID, requestCtrl.UpdateRequestHandler).Methods(http.MethodPut)
	router.HandleFunc(routes.RequestByID, requestCtrl.DeleteRequestHandler).Methods(http.MethodDelete)
	router.HandleFunc(routes.RequestAssign, requestCtrl.AssignStaffHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.RequestNotes, requestCtrl.AddNoteHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.RequestComplete, requestCtrl.CompleteAssignmentHandler).Methods(http.MethodPost)

	router.HandleFunc(routes.Buildings, buildingCtrl.CreateBuildingHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Buildings, buildingCtrl.ListBuildingsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.BuildingByID, buildingCtrl.GetBuildingHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.BuildingByID, buildingCtrl.UpdateBuildingHandler).Methods(http.MethodPut)
	router.HandleFunc(routes.BuildingByID, buildingCtrl.DeleteBuildingHandler).Methods(http.MethodDelete)

	router.HandleFunc(routes.Units, unitCtrl.CreateUnitHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Units, unitCtrl.ListUnitsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.UnitByID, unitCtrl.GetUnitHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.UnitByID, unitCtrl.UpdateUnitHandler).Methods(http.MethodPut)
	router.HandleFunc(routes.UnitByID, unitCtrl.DeleteUnitHandler).Methods(http.MethodDelete)

	router.HandleFunc(routes.Tenants, tenantCtrl.CreateTenantHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Tenants, tenantCtrl.ListTenantsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.TenantByID, tenantCtrl.GetTenantHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.TenantByID, tenantCtrl.UpdateTenantHandler).Methods(http.MethodPut)
	router.HandleFunc(routes.TenantByID, tenantCtrl.DeleteTenantHandler).Methods(http.MethodDelete)

	router.HandleFunc(routes.Staff, staffCtrl.CreateStaffHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Staff, staffCtrl.ListStaffHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.StaffByID, staffCtrl.GetStaffHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.StaffByID, staffCtrl.UpdateStaffHandler).Methods(http.MethodPut)
	router.HandleFunc(routes.StaffByID, staffCtrl.DeleteStaffHandler).Methods(http.MethodDelete)

	router.HandleFunc(routes.MetricsOverview, metricsCtrl.OverviewHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.MetricsRequestsByStatus, metricsCtrl.RequestsByStatusHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.MetricsRequestsByPriority, metricsCtrl.RequestsByPriorityHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.MetricsRequestsOverTime, metricsCtrl.RequestsOverTimeHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.MetricsBuildingPerformance, metricsCtrl.BuildingPerformanceHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.MetricsStaffPerformance, metricsCtrl.StaffPerformanceHandler).Methods(http.MethodGet)

	// 7) SLA breach sweep
	c := cron.New()
	_, slaErr := c.AddFunc("@every "+cfg.SLACheckInterval.String(), func() {
		if e := slaMonitor.RunSLACheck(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("SLA breach sweep failed")
		}
	})
	if slaErr != nil {
		utils.Logger.WithError(slaErr).Fatal("Failed to schedule SLA sweep cron")
	}
	c.Start()

	// 8) CORS
	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSAllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on :%s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Server error:", err)
	}
}
