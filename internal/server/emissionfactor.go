package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	factordomain "github.com/utkalworks/floorops/internal/emissionfactor/domain"
)

type upsertEmissionFactorRequest struct {
	ElectricityKWhPerUnit *float64 `json:"electricity_kwh_per_unit"`
	WaterKLPerUnit        *float64 `json:"water_kl_per_unit"`
	DirectCO2KgPerUnit    *float64 `json:"direct_co2_kg_per_unit"`
	Notes                 *string  `json:"notes"`
}

func (s *Server) ListEmissionFactors(c *gin.Context) {
	resp, err := s.factorSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpsertEmissionFactor(c *gin.Context) {
	var req upsertEmissionFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.factorSvc.UpsertFactor(c.Request.Context(), factordomain.UpsertFactorRequest{
		Stage:                 strings.TrimSpace(c.Param("stage")),
		ElectricityKWhPerUnit: req.ElectricityKWhPerUnit,
		WaterKLPerUnit:        req.WaterKLPerUnit,
		DirectCO2KgPerUnit:    req.DirectCO2KgPerUnit,
		Notes:                 req.Notes,
		UpdatedBy:             s.employeeID(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type setEmissionConfigRequest struct {
	Value string `json:"value"`
}

func (s *Server) SetEmissionConfig(c *gin.Context) {
	var req setEmissionConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.factorSvc.SetConfig(c.Request.Context(), factordomain.SetConfigRequest{
		Key:   strings.TrimSpace(c.Param("key")),
		Value: req.Value,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
