// README: Shared handler utilities: DTOs, JSON helpers, error mapping.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hail/internal/http/middleware"
	"hail/internal/modules/chat"
	"hail/internal/modules/fare"
	"hail/internal/modules/location"
	"hail/internal/modules/ride"
	"hail/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

// writeDomainError maps the module sentinels onto HTTP statuses. Conflict and
// invalid-state both arrive as 409 but keep their distinct messages so a
// caller can tell a lost race from a stale view.
func writeDomainError(c *gin.Context, err error) {
	switch err {
	case ride.ErrBadRequest, chat.ErrBadRequest, location.ErrBadRequest, fare.ErrBadCoordinates:
		writeError(c, http.StatusBadRequest, err.Error())
	case ride.ErrNotAllowed, chat.ErrNotAllowed, location.ErrNotAllowed:
		writeError(c, http.StatusForbidden, err.Error())
	case ride.ErrNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case ride.ErrInvalidState, ride.ErrConflict:
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// mustActor aborts with 401 when the auth middleware did not run.
func mustActor(c *gin.Context) (types.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "unauthenticated")
		c.Abort()
	}
	return actor, ok
}

type rideResponse struct {
	ID               string   `json:"id"`
	PassengerID      string   `json:"passenger_id"`
	DriverID         *string  `json:"driver_id"`
	Status           string   `json:"status"`
	PickupLatitude   float64  `json:"pickup_latitude"`
	PickupLongitude  float64  `json:"pickup_longitude"`
	PickupAddress    string   `json:"pickup_address"`
	DropoffLatitude  float64  `json:"dropoff_latitude"`
	DropoffLongitude float64  `json:"dropoff_longitude"`
	DropoffAddress   string   `json:"dropoff_address"`
	DistanceKm       float64  `json:"distance_km"`
	DurationMinutes  int      `json:"duration_minutes"`
	TrafficFactor    float64  `json:"traffic_factor"`
	EstimatedFare    float64  `json:"estimated_fare"`
	ActualFare       *float64 `json:"actual_fare"`
	Currency         string   `json:"currency"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}

func toRideResponse(r *ride.Ride) rideResponse {
	resp := rideResponse{
		ID:               string(r.ID),
		PassengerID:      string(r.PassengerID),
		Status:           string(r.Status),
		PickupLatitude:   r.Pickup.Lat,
		PickupLongitude:  r.Pickup.Lng,
		PickupAddress:    r.Pickup.Address,
		DropoffLatitude:  r.Dropoff.Lat,
		DropoffLongitude: r.Dropoff.Lng,
		DropoffAddress:   r.Dropoff.Address,
		DistanceKm:       r.DistanceKm,
		DurationMinutes:  r.DurationMinutes,
		TrafficFactor:    r.TrafficFactor,
		EstimatedFare:    r.EstimatedFare.Float(),
		Currency:         r.EstimatedFare.Currency,
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        r.UpdatedAt.Format(time.RFC3339),
	}
	if r.DriverID != nil {
		d := string(*r.DriverID)
		resp.DriverID = &d
	}
	if r.ActualFare != nil {
		f := r.ActualFare.Float()
		resp.ActualFare = &f
	}
	return resp
}

type bidResponse struct {
	ID        string  `json:"id"`
	RideID    string  `json:"ride_id"`
	DriverID  string  `json:"driver_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

func toBidResponse(b *ride.Bid) bidResponse {
	return bidResponse{
		ID:        string(b.ID),
		RideID:    string(b.RideID),
		DriverID:  string(b.DriverID),
		Amount:    b.Amount.Float(),
		Currency:  b.Amount.Currency,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

type estimateResponse struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes int     `json:"duration_minutes"`
	TrafficFactor   float64 `json:"traffic_factor"`
	TrafficStatus   string  `json:"traffic_status"`
	EstimatedFare   float64 `json:"estimated_fare"`
	Currency        string  `json:"currency"`
}

func toEstimateResponse(e fare.Estimate) estimateResponse {
	return estimateResponse{
		DistanceKm:      e.DistanceKm,
		DurationMinutes: e.DurationMinutes,
		TrafficFactor:   e.TrafficFactor,
		TrafficStatus:   e.TrafficStatus,
		EstimatedFare:   e.EstimatedFare.Float(),
		Currency:        e.EstimatedFare.Currency,
	}
}
