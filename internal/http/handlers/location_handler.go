// README: Driver location handlers.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hail/internal/modules/location"
	"hail/internal/types"
)

type LocationHandler struct {
	location *location.Service
}

func NewLocationHandler(svc *location.Service) *LocationHandler {
	return &LocationHandler{location: svc}
}

type positionResponse struct {
	DriverID    string  `json:"driver_id"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	VehicleType string  `json:"vehicle_type"`
	UpdatedAt   string  `json:"updated_at"`
}

func toPositionResponse(p location.Position) positionResponse {
	return positionResponse{
		DriverID:    string(p.DriverID),
		Latitude:    p.Point.Lat,
		Longitude:   p.Point.Lng,
		VehicleType: string(p.VehicleType),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

type reportLocationReq struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	VehicleType string  `json:"vehicle_type"`
}

func (h *LocationHandler) Report(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req reportLocationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := h.location.Report(c.Request.Context(), location.Update{
		Actor:       actor,
		Point:       types.Point{Lat: req.Latitude, Lng: req.Longitude},
		VehicleType: location.VehicleType(req.VehicleType),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPositionResponse(p))
}

// List returns the live driver board. With lat, lng and radius_km query
// parameters it narrows to drivers within the radius of the given point.
func (h *LocationHandler) List(c *gin.Context) {
	if _, ok := mustActor(c); !ok {
		return
	}

	var keep map[types.ID]struct{}
	if c.Query("lat") != "" || c.Query("lng") != "" || c.Query("radius_km") != "" {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		radius, errRad := strconv.ParseFloat(c.Query("radius_km"), 64)
		if errLat != nil || errLng != nil || errRad != nil {
			writeError(c, http.StatusBadRequest, "invalid nearby query")
			return
		}
		ids, err := h.location.Nearby(c.Request.Context(), types.Point{Lat: lat, Lng: lng}, radius)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		keep = make(map[types.ID]struct{}, len(ids))
		for _, id := range ids {
			keep[id] = struct{}{}
		}
	}

	positions, err := h.location.List(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]positionResponse, 0, len(positions))
	for _, p := range positions {
		if keep != nil {
			if _, ok := keep[p.DriverID]; !ok {
				continue
			}
		}
		out = append(out, toPositionResponse(p))
	}
	c.JSON(http.StatusOK, out)
}
