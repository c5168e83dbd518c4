package climate

import (
	"database/sql"
	"net/http"

	"climate-server/internal/config"
	"climate-server/internal/modules/climate/controller"
	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/service"
)

func RegisterFeature(mux *http.ServeMux, db *sql.DB, cfg config.Config) {
	climateRepository := repository.NewRepository(db, cfg.Driver)
	climateService := service.NewService(climateRepository, service.Options{
		Window:  cfg.TobsWindow,
		Station: cfg.TobsStation,
		Since:   cfg.TobsSince,
	})
	climateController := controller.NewClimateController(climateService)
	climateController.RegisterRoutes(mux)
}
