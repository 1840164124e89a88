package main

import (
	"trimly/internal/availability/handler"
	"trimly/internal/availability/service"
	bookingsrepo "trimly/internal/bookings/repository"
	timeoffrepo "trimly/internal/timeoff/repository"
	rulesrepo "trimly/internal/workinghours/repository"
	"trimly/pkg/app"
	"trimly/pkg/config"
)

const ServiceName = "availability"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Availability service")
	availabilityService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAvailabilityHandler(availabilityService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.AvailabilityService {
	ruleRepo := rulesrepo.NewMongoRuleRepository(cfg)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	timeOffRepo := timeoffrepo.NewMongoTimeOffRepository(cfg)

	availabilityService := service.NewAvailabilityService(
		ruleRepo,
		bookingRepo,
		timeOffRepo,
		cfg,
	)

	cfg.Log.Info("Availability service initialized",
		"database", cfg.MongoDatabaseName,
		"timezone", cfg.ShopTimeZone,
	)
	return availabilityService
}
