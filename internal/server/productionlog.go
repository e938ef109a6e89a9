package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	factordomain "github.com/utkalworks/floorops/internal/emissionfactor/domain"
	proddomain "github.com/utkalworks/floorops/internal/productionlog/domain"
)

type submitProductionLogRequest struct {
	LogDate      string                    `json:"log_date"`
	ShiftType    *string                   `json:"shift_type"`
	StageEntries []factordomain.StageEntry `json:"stage_entries"`
	WasteKg      float64                   `json:"waste_kg"`
	Notes        *string                   `json:"notes"`
}

func (s *Server) SubmitProductionLog(c *gin.Context) {
	var req submitProductionLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.prodSvc.Submit(c.Request.Context(), proddomain.SubmitRequest{
		LogDate:      strings.TrimSpace(req.LogDate),
		ShiftType:    req.ShiftType,
		StageEntries: req.StageEntries,
		WasteKg:      req.WasteKg,
		Notes:        req.Notes,
		LoggedBy:     s.employeeID(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

type emissionPreviewRequest struct {
	StageEntries []factordomain.StageEntry `json:"stage_entries"`
}

func (s *Server) PreviewEmissions(c *gin.Context) {
	var req emissionPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.prodSvc.Preview(c.Request.Context(), req.StageEntries)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProductionLogs(c *gin.Context) {
	var query struct {
		Date  string `form:"date"`
		Limit string `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	limit, err := parseOptionalInt(query.Limit)
	if err != nil {
		AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
		return
	}

	resp, err := s.prodSvc.List(c.Request.Context(), proddomain.ListRequest{
		Date:  strings.TrimSpace(query.Date),
		Limit: limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProductionLogsToday(c *gin.Context) {
	resp, err := s.prodSvc.Today(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
