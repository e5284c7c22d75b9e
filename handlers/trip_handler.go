package handlers

import (
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/NomadCrew/lunch-break-planner/errors"
	"github.com/NomadCrew/lunch-break-planner/logger"
	"github.com/NomadCrew/lunch-break-planner/pkg/manifest"
	"github.com/NomadCrew/lunch-break-planner/types"
	"github.com/gin-gonic/gin"
)

// TripHandler handles HTTP requests related to trips and exposes the trip functionality.
type TripHandler struct {
	tripService TripServiceInterface
	now         func() time.Time
}

// NewTripHandler creates a new TripHandler with the given dependencies.
func NewTripHandler(tripService TripServiceInterface) *TripHandler {
	return &TripHandler{
		tripService: tripService,
		now:         time.Now,
	}
}

// CreateTripRequest represents the request body for creating a trip.
// availableSeats is taken as sent.
type CreateTripRequest struct {
	Destination    string `json:"destination" binding:"required"`
	DriverName     string `json:"driverName" binding:"required"`
	AvailableSeats int    `json:"availableSeats"`
	DepartureTime  string `json:"departureTime" binding:"required"`
}

// UpdateTripRequest joins or leaves a trip.
type UpdateTripRequest struct {
	TripID        string           `json:"tripId" binding:"required"`
	PassengerName string           `json:"passengerName" binding:"required"`
	Action        types.TripAction `json:"action" binding:"required,oneof=join leave" enums:"join,leave"`
}

// DeleteTripRequest identifies the trip to delete.
type DeleteTripRequest struct {
	TripID string `json:"tripId" binding:"required"`
}

// ListTripsHandler godoc
// @Summary List trips
// @Description Returns every trip in creation order
// @Tags trips
// @Produce json
// @Success 200 {object} types.TripListResponse
// @Router /trips [get]
func (h *TripHandler) ListTripsHandler(c *gin.Context) {
	trips := h.tripService.ListTrips(c.Request.Context())
	c.JSON(http.StatusOK, types.TripListResponse{Trips: trips})
}

// CreateTripHandler godoc
// @Summary Create a new trip
// @Description Creates a trip with no passengers
// @Tags trips
// @Accept json
// @Produce json
// @Param request body CreateTripRequest true "Trip details"
// @Success 201 {object} types.TripResponse "Created trip"
// @Failure 400 {object} types.ErrorResponse "Invalid request body"
// @Failure 429 {object} types.ErrorResponse "Too many requests"
// @Router /trips [post]
func (h *TripHandler) CreateTripHandler(c *gin.Context) {
	var req CreateTripRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	trip := h.tripService.CreateTrip(c.Request.Context(), types.TripInput{
		Destination:    req.Destination,
		DriverName:     req.DriverName,
		AvailableSeats: req.AvailableSeats,
		DepartureTime:  req.DepartureTime,
	})

	c.JSON(http.StatusCreated, types.TripResponse{Trip: trip})
}

// UpdateTripHandler godoc
// @Summary Join or leave a trip
// @Description Adds or removes a passenger. Joining twice or leaving a trip one is not on changes nothing.
// @Tags trips
// @Accept json
// @Produce json
// @Param request body UpdateTripRequest true "Passenger update"
// @Success 200 {object} types.TripResponse "Updated trip"
// @Failure 400 {object} types.ErrorResponse "No seats available or invalid request body"
// @Failure 404 {object} types.ErrorResponse "Trip not found"
// @Failure 429 {object} types.ErrorResponse "Too many requests"
// @Router /trips [patch]
func (h *TripHandler) UpdateTripHandler(c *gin.Context) {
	var req UpdateTripRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	trip, err := h.tripService.UpdatePassenger(c.Request.Context(), req.TripID, req.PassengerName, req.Action)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.TripResponse{Trip: trip})
}

// DeleteTripHandler godoc
// @Summary Delete a trip
// @Description Removes the trip. Deleting an unknown trip also succeeds.
// @Tags trips
// @Accept json
// @Produce json
// @Param request body DeleteTripRequest true "Trip to delete"
// @Success 200 {object} types.SuccessResponse
// @Failure 400 {object} types.ErrorResponse "Invalid request body"
// @Failure 429 {object} types.ErrorResponse "Too many requests"
// @Router /trips [delete]
func (h *TripHandler) DeleteTripHandler(c *gin.Context) {
	var req DeleteTripRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	if !h.tripService.DeleteTrip(c.Request.Context(), req.TripID) {
		logger.GetLogger().Debugw("Delete of unknown trip", "tripID", req.TripID)
	}

	c.JSON(http.StatusOK, types.SuccessResponse{Success: true})
}

// GetTripHandler godoc
// @Summary Get a trip
// @Tags trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} types.TripResponse
// @Failure 404 {object} types.ErrorResponse "Trip not found"
// @Router /trips/{id} [get]
func (h *TripHandler) GetTripHandler(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.TripResponse{Trip: trip})
}

// ManifestHandler godoc
// @Summary Download a trip manifest
// @Description Renders the driver, departure time and passenger list as a PDF
// @Tags trips
// @Produce application/pdf
// @Param id path string true "Trip ID"
// @Success 200 {file} binary
// @Failure 404 {object} types.ErrorResponse "Trip not found"
// @Router /trips/{id}/manifest.pdf [get]
func (h *TripHandler) ManifestHandler(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	data, filename, err := manifest.Build(trip, h.now())
	if err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ServerError, "Failed to render manifest"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return false
	}
	return true
}
