package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) handleImportSnapshot(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxSnapshotBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body too large (max %d bytes)", maxSnapshotBodyBytes))
			return
		}
		writeError(c, http.StatusBadRequest, "could not read request body")
		return
	}

	if err := a.service.ImportSnapshot(c.Request.Context(), body); err != nil {
		a.writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) handleExportSnapshot(c *gin.Context) {
	payload, err := a.service.ExportSnapshot(c.Request.Context())
	if err != nil {
		a.writeServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}
