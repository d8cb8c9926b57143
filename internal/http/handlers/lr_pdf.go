package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	intconfig "lrbackend/internal/config"
	"lrbackend/internal/domain"
	"lrbackend/internal/http/middleware"
	"lrbackend/internal/repositories"
	"lrbackend/internal/services"
	"lrbackend/internal/utils"

	"github.com/gin-gonic/gin"
)

const pdfRenderTimeout = 30 * time.Second

// GetLRPDF renders the two-copy consignment note and streams it inline. The
// endpoint answers plain text on failure so a browser hitting it directly
// sees a readable message instead of a JSON blob.
func GetLRPDF(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "Consignment not found")
		return
	}

	svc := services.LRDocService{
		Repo:      repositories.ConsignmentRepository{DB: intconfig.DB},
		RequestID: requestID,
		LogoPath:  intconfig.LogoPath(),
		TmpDir:    intconfig.TmpDir(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pdfRenderTimeout)
	defer cancel()

	pdf, filename, err := svc.GeneratePDF(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			c.String(http.StatusNotFound, "Consignment not found")
			return
		}
		utils.LogEvent(requestID, "lrdoc", "deliver", "render failed: "+err.Error())
		c.String(http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
