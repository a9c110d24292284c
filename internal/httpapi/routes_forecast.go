package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) handleForecast(c *gin.Context) {
	weeks, err := queryInt(c, "weeks")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	forecast, err := a.service.Forecast(c.Request.Context(), weeks)
	if err != nil {
		a.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, forecast)
}

func (a *API) handleForecastSummary(c *gin.Context) {
	weeks, err := queryInt(c, "weeks")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := a.service.ForecastSummary(c.Request.Context(), weeks)
	if err != nil {
		a.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
