package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"staffing/internal/service"
)

func (a *API) handleAvailability(c *gin.Context) {
	startDate, err := queryDate(c, "startDate")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	endDate, err := queryDate(c, "endDate")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	minHours, err := queryInt(c, "minHours")
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := a.service.Availability(c.Request.Context(), service.AvailabilityRequest{
		StartDate:  startDate,
		EndDate:    endDate,
		SkillIDs:   queryCSV(c, "skillIds"),
		RoleID:     strings.TrimSpace(c.Query("roleId")),
		PracticeID: strings.TrimSpace(c.Query("practiceId")),
		MinHours:   minHours,
	})
	if err != nil {
		a.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
