package main

import (
	timeoffhandler "trimly/internal/timeoff/handler"
	timeoffrepo "trimly/internal/timeoff/repository"
	timeoffservice "trimly/internal/timeoff/service"
	ruleshandler "trimly/internal/workinghours/handler"
	rulesrepo "trimly/internal/workinghours/repository"
	rulesservice "trimly/internal/workinghours/service"
	"trimly/internal/workinghours/validator"
	"trimly/pkg/app"
	"trimly/pkg/config"
)

const ServiceName = "schedule"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Schedule service")
	ruleService, timeOffService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		ruleshandler.NewRuleHandler(ruleService, cfg.Log),
		timeoffhandler.NewTimeOffHandler(timeOffService, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) (rulesservice.RuleService, timeoffservice.TimeOffService) {
	ruleValidator := validator.NewRuleValidator(cfg.Log)
	ruleRepo := rulesrepo.NewMongoRuleRepository(cfg)
	ruleService := rulesservice.NewRuleService(ruleRepo, ruleValidator, cfg)

	timeOffRepo := timeoffrepo.NewMongoTimeOffRepository(cfg)
	timeOffService := timeoffservice.NewTimeOffService(timeOffRepo, cfg)

	cfg.Log.Info("Schedule service initialized", "database", cfg.MongoDatabaseName)
	return ruleService, timeOffService
}
