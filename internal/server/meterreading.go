package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	meterdomain "github.com/utkalworks/floorops/internal/meterreading/domain"
)

type recordMeterReadingRequest struct {
	MeterType    string   `json:"meter_type"`
	MeterID      string   `json:"meter_id"`
	ReadingValue *float64 `json:"reading_value"`
	PhotoData    *string  `json:"photo_data"`
	OCRRaw       *string  `json:"ocr_raw"`
}

func (s *Server) RecordMeterReading(c *gin.Context) {
	var req recordMeterReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.meterSvc.Record(c.Request.Context(), meterdomain.RecordRequest{
		MeterType:    strings.TrimSpace(req.MeterType),
		MeterID:      strings.TrimSpace(req.MeterID),
		ReadingValue: req.ReadingValue,
		PhotoData:    req.PhotoData,
		OCRRaw:       req.OCRRaw,
		RecordedBy:   s.employeeID(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListMeterReadings(c *gin.Context) {
	var query struct {
		MeterType string `form:"meter_type"`
		MeterID   string `form:"meter_id"`
		Limit     string `form:"limit"`
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

	resp, err := s.meterSvc.List(c.Request.Context(), meterdomain.ListRequest{
		MeterType: strings.TrimSpace(query.MeterType),
		MeterID:   strings.TrimSpace(query.MeterID),
		Limit:     limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLatestReadings(c *gin.Context) {
	resp, err := s.meterSvc.Latest(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMeterSeries(c *gin.Context) {
	resp, err := s.meterSvc.Series(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
