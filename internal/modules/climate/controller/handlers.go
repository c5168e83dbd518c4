package controller

import (
	"bytes"
	"log/slog"
	"net/http"

	"climate-server/internal/modules/climate/views"
	"climate-server/internal/utils"
)

func (c *climateControllerImpl) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		utils.WriteError(w, http.StatusNotFound, "no route for "+r.URL.Path)
		return
	}
	data := &views.IndexData{
		Title:      "Hawaii Climate API",
		Routes:     indexRoutes,
		DateFormat: "YYYY-MM-DD",
	}
	var buf bytes.Buffer
	if err := views.RenderIndex(&buf, data); err != nil {
		slog.Error("index template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("index: write response failed", "error", err)
	}
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	out, err := c.service.Precipitation(r.Context())
	if err != nil {
		writeQueryError(w, r, "precipitation", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	out, err := c.service.Stations(r.Context())
	if err != nil {
		writeQueryError(w, r, "stations", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	out, err := c.service.RecentTemperatures(r.Context())
	if err != nil {
		writeQueryError(w, r, "temperatures", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (c *climateControllerImpl) handleSummary(w http.ResponseWriter, r *http.Request) {
	out, err := c.service.Summary(r.Context(), r.PathValue("start_date"))
	if err != nil {
		writeQueryError(w, r, "temperature summary", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (c *climateControllerImpl) handleSummaryRange(w http.ResponseWriter, r *http.Request) {
	out, err := c.service.SummaryRange(r.Context(), r.PathValue("start_date"), r.PathValue("end_date"))
	if err != nil {
		writeQueryError(w, r, "temperature summary", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, out)
}
