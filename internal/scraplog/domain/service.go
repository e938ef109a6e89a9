package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*ScrapResponse, error)
	Dispatch(ctx context.Context, id string) (*ScrapResponse, error)
	List(ctx context.Context, limit int) ([]ScrapResponse, error)
	WeightBetween(ctx context.Context, start, end time.Time) (float64, error)
}

type CreateRequest struct {
	ScrapType       string   `json:"scrap_type"`
	EstimatedWeight *float64 `json:"estimated_weight"`
	Yard            *string  `json:"yard,omitempty"`
	LoggedBy        string   `json:"-"`
}

type ScrapResponse struct {
	ID              string     `json:"id"`
	ScrapType       string     `json:"scrap_type"`
	EstimatedWeight *float64   `json:"estimated_weight"`
	Yard            *string    `json:"yard"`
	Status          string     `json:"status"`
	LoggedBy        string     `json:"logged_by"`
	CreatedAt       time.Time  `json:"created_at"`
	DispatchedAt    *time.Time `json:"dispatched_at"`
}

var (
	ErrScrapTypeRequired = errors.New("scrap_type_required")
	ErrInvalidScrapType  = errors.New("invalid_scrap_type")
	ErrNotFound          = errors.New("not_found")
	ErrAlreadyDispatched = errors.New("already_dispatched")
	ErrInvalidID         = errors.New("invalid_id")
)
