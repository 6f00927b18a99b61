package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"identity_wallet/internal/audit" // Audit trail

	"github.com/gin-gonic/gin" // Gin web framework
)

// AuditTrailHandler returns one page of the audit trail in creation order.
// Pages outside the stored range come back empty.
func AuditTrailHandler(trail *audit.Trail) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.Param("page"))
		if err != nil {
			page = 0 // Unparseable pages are simply out of range
		}
		events, totalPages, err := trail.Page(c.Request.Context(), page, audit.DefaultPageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"events":      events,                // Events on this page
			"page":        page,                  // Requested page
			"page_size":   audit.DefaultPageSize, // Page size
			"total_pages": totalPages,            // Total pages
		})
	}
}
