// README: Ride handlers: quoting, creation, listing, claims, bids, and trip transitions.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hail/internal/modules/fare"
	"hail/internal/modules/ride"
	"hail/internal/types"
)

type RideHandler struct {
	rides *ride.Service
}

func NewRideHandler(svc *ride.Service) *RideHandler {
	return &RideHandler{rides: svc}
}

// Coordinate fields carry no binding tags: zero is a valid latitude and
// longitude, so range checks belong to Point.Valid in the service.
type coordsReq struct {
	PickupLatitude   float64 `json:"pickup_latitude"`
	PickupLongitude  float64 `json:"pickup_longitude"`
	PickupAddress    string  `json:"pickup_address"`
	DropoffLatitude  float64 `json:"dropoff_latitude"`
	DropoffLongitude float64 `json:"dropoff_longitude"`
	DropoffAddress   string  `json:"dropoff_address"`
}

func (r coordsReq) points() (types.Point, types.Point) {
	pickup := types.Point{Lat: r.PickupLatitude, Lng: r.PickupLongitude, Address: r.PickupAddress}
	dropoff := types.Point{Lat: r.DropoffLatitude, Lng: r.DropoffLongitude, Address: r.DropoffAddress}
	return pickup, dropoff
}

func (h *RideHandler) Estimate(c *gin.Context) {
	var req coordsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid coordinates")
		return
	}
	pickup, dropoff := req.points()
	est, err := h.rides.Estimate(pickup, dropoff)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEstimateResponse(est))
}

func (h *RideHandler) Create(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req coordsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	pickup, dropoff := req.points()
	r, err := h.rides.Create(c.Request.Context(), ride.CreateCommand{
		Actor:   actor,
		Pickup:  pickup,
		Dropoff: dropoff,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRideResponse(r))
}

func (h *RideHandler) List(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	rides, err := h.rides.List(c.Request.Context(), actor)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]rideResponse, 0, len(rides))
	for _, r := range rides {
		out = append(out, toRideResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

func (h *RideHandler) Get(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	rideID := types.ID(c.Param("id"))
	r, err := h.rides.Get(c.Request.Context(), actor, rideID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	resp := gin.H{"ride": toRideResponse(r)}
	// The passenger reviewing offers gets the bid ledger inline.
	if actor.Role == types.RolePassenger && r.PassengerID == actor.ID {
		bids, err := h.rides.Bids(c.Request.Context(), actor, rideID)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		out := make([]bidResponse, 0, len(bids))
		for _, b := range bids {
			out = append(out, toBidResponse(b))
		}
		resp["bids"] = out
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RideHandler) Accept(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	r, err := h.rides.Accept(c.Request.Context(), ride.AcceptCommand{
		Actor:  actor,
		RideID: types.ID(c.Param("id")),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRideResponse(r))
}

func (h *RideHandler) Start(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	r, err := h.rides.Start(c.Request.Context(), ride.StartCommand{
		Actor:  actor,
		RideID: types.ID(c.Param("id")),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRideResponse(r))
}

func (h *RideHandler) Complete(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	r, err := h.rides.Complete(c.Request.Context(), ride.CompleteCommand{
		Actor:  actor,
		RideID: types.ID(c.Param("id")),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRideResponse(r))
}

type placeBidReq struct {
	Amount float64 `json:"amount" binding:"required"`
}

func (h *RideHandler) PlaceBid(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req placeBidReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	b, err := h.rides.PlaceBid(c.Request.Context(), ride.PlaceBidCommand{
		Actor:  actor,
		RideID: types.ID(c.Param("id")),
		Amount: types.MoneyFromFloat(req.Amount, fare.Currency),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBidResponse(b))
}

type acceptBidReq struct {
	BidID string `json:"bid_id" binding:"required"`
}

func (h *RideHandler) AcceptBid(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req acceptBidReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	r, err := h.rides.AcceptBid(c.Request.Context(), ride.AcceptBidCommand{
		Actor:  actor,
		RideID: types.ID(c.Param("id")),
		BidID:  types.ID(req.BidID),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRideResponse(r))
}
