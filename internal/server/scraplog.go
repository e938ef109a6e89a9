package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	scrapdomain "github.com/utkalworks/floorops/internal/scraplog/domain"
)

type createScrapLogRequest struct {
	ScrapType       string   `json:"scrap_type"`
	EstimatedWeight *float64 `json:"estimated_weight"`
	Yard            *string  `json:"yard"`
}

func (s *Server) CreateScrapLog(c *gin.Context) {
	var req createScrapLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.scrapSvc.Create(c.Request.Context(), scrapdomain.CreateRequest{
		ScrapType:       strings.TrimSpace(req.ScrapType),
		EstimatedWeight: req.EstimatedWeight,
		Yard:            req.Yard,
		LoggedBy:        s.employeeID(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListScrapLogs(c *gin.Context) {
	limit, err := parseOptionalInt(c.Query("limit"))
	if err != nil {
		AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
		return
	}

	resp, err := s.scrapSvc.List(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DispatchScrapLog(c *gin.Context) {
	resp, err := s.scrapSvc.Dispatch(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
