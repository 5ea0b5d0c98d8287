package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/storeapi/backend/internal/model"
	"github.com/storeapi/backend/internal/service"
)

type CarService interface {
	ListCars(ctx context.Context, filter model.CarFilter) ([]model.Car, error)
	GetCar(ctx context.Context, carID int64) (*model.Car, error)
	CreateCar(ctx context.Context, in model.CarInput) (*model.Car, error)
	UpdateCar(ctx context.Context, carID int64, in model.CarInput) (*model.Car, error)
	DeleteCar(ctx context.Context, carID int64) error
	AddTrip(ctx context.Context, carID int64, in model.TripInput) (*model.Trip, error)
	ListTrips(ctx context.Context, carID int64) ([]model.Trip, error)
}

type CarHandler struct {
	svc CarService
}

func NewCarHandler(svc CarService) *CarHandler {
	return &CarHandler{svc: svc}
}

// ListCars godoc
// @Summary List cars
// @Tags car
// @Produce json
// @Param size query string false "Exact size"
// @Param doors query int false "Minimum number of doors"
// @Success 200 {array} model.Car
// @Failure 422 {object} model.ErrorResponse
// @Router /api/cars [get]
func (h *CarHandler) ListCars(c *gin.Context) {
	filter := model.CarFilter{Size: c.Query("size")}
	if raw := c.Query("doors"); raw != "" {
		doors, err := strconv.Atoi(raw)
		if err != nil {
			writeInvalidInput(c)
			return
		}
		filter.MinDoors = doors
	}

	cars, err := h.svc.ListCars(c.Request.Context(), filter)
	if err != nil {
		writeCarError(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

// GetCar godoc
// @Summary Get a car
// @Tags car
// @Produce json
// @Param id path int true "Car ID"
// @Success 200 {object} model.Car
// @Failure 404 {object} model.ErrorResponse
// @Router /api/cars/{id} [get]
func (h *CarHandler) GetCar(c *gin.Context) {
	carID, ok := idParam(c)
	if !ok {
		return
	}

	car, err := h.svc.GetCar(c.Request.Context(), carID)
	if err != nil {
		writeCarError(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

// CreateCar godoc
// @Summary Add a car
// @Tags car
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CarInput true "Car"
// @Success 201 {object} model.Car
// @Failure 401 {object} model.ErrorResponse
// @Failure 422 {object} model.ErrorResponse
// @Router /api/car [post]
func (h *CarHandler) CreateCar(c *gin.Context) {
	var req model.CarInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidInput(c)
		return
	}

	car, err := h.svc.CreateCar(c.Request.Context(), req)
	if err != nil {
		writeCarError(c, err)
		return
	}
	c.JSON(http.StatusCreated, car)
}

// UpdateCar godoc
// @Summary Replace a car's fields
// @Tags car
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Car ID"
// @Param request body model.CarInput true "Car"
// @Success 200 {object} model.Car
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 422 {object} model.ErrorResponse
// @Router /api/car/{id} [put]
func (h *CarHandler) UpdateCar(c *gin.Context) {
	carID, ok := idParam(c)
	if !ok {
		return
	}
	var req model.CarInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidInput(c)
		return
	}

	car, err := h.svc.UpdateCar(c.Request.Context(), carID, req)
	if err != nil {
		writeCarError(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

// DeleteCar godoc
// @Summary Delete a car and its trips
// @Tags car
// @Security BearerAuth
// @Param id path int true "Car ID"
// @Success 204
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/car/{id} [delete]
func (h *CarHandler) DeleteCar(c *gin.Context) {
	carID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteCar(c.Request.Context(), carID); err != nil {
		writeCarError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddTrip godoc
// @Summary Record a trip for a car
// @Tags car
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Car ID"
// @Param request body model.TripInput true "Trip"
// @Success 201 {object} model.Trip
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 422 {object} model.ErrorResponse
// @Router /api/cars/{id}/trips [post]
func (h *CarHandler) AddTrip(c *gin.Context) {
	carID, ok := idParam(c)
	if !ok {
		return
	}
	var req model.TripInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidInput(c)
		return
	}

	trip, err := h.svc.AddTrip(c.Request.Context(), carID, req)
	if err != nil {
		writeCarError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

// ListTrips godoc
// @Summary List a car's trips
// @Tags car
// @Produce json
// @Param id path int true "Car ID"
// @Success 200 {array} model.Trip
// @Failure 404 {object} model.ErrorResponse
// @Router /api/cars/{id}/trips [get]
func (h *CarHandler) ListTrips(c *gin.Context) {
	carID, ok := idParam(c)
	if !ok {
		return
	}

	trips, err := h.svc.ListTrips(c.Request.Context(), carID)
	if err != nil {
		writeCarError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

func writeCarError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrCarNotFound) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Detail: "Car not found"})
		return
	}
	writePostError(c, err)
}
