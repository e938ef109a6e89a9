package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	esgdomain "github.com/utkalworks/floorops/internal/esg/domain"
)

func (s *Server) GetESGOverview(c *gin.Context) {
	period := esgdomain.ParsePeriod(c.Query("period"))

	resp, err := s.esgSvc.Overview(c.Request.Context(), period)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetESGChart(c *gin.Context) {
	period := esgdomain.ParsePeriod(c.Query("period"))

	resp, err := s.esgSvc.Chart(c.Request.Context(), period)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetFactorSummary(c *gin.Context) {
	resp, err := s.esgSvc.FactorSummary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetESGReport(c *gin.Context) {
	period := esgdomain.ParsePeriod(c.Query("period"))

	pdfBytes, err := s.esgSvc.Report(c.Request.Context(), period)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("esg-report-%s.pdf", period)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
