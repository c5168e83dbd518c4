package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/views"
	"climate-server/internal/utils"
)

var indexRoutes = []views.Route{
	{Path: "/api/v1.0/precipitation", Description: "precipitation by date"},
	{Path: "/api/v1.0/stations", Description: "station codes"},
	{Path: "/api/v1.0/tobs", Description: "temperature observations for the most active station over its last year"},
	{Path: "/api/v1.0/<start_date>", Description: "min, max and average temperature from start_date"},
	{Path: "/api/v1.0/<start_date>/<end_date>", Description: "min, max and average temperature between the two dates, inclusive"},
}

// writeQueryError maps a repository error onto the response status.
func writeQueryError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, repository.ErrStoreUnavailable) {
		slog.Warn(op+": store unavailable", "path", r.URL.Path, "error", err)
		utils.WriteError(w, http.StatusServiceUnavailable, "data store unavailable")
		return
	}
	slog.Error(op+" failed", "path", r.URL.Path, "error", err)
	utils.WriteError(w, http.StatusInternalServerError, "failed to query "+op)
}
