package service

import (
	"context"
	"errors"
	"strings"

	"github.com/storeapi/backend/internal/db"
	"github.com/storeapi/backend/internal/logger"
	"github.com/storeapi/backend/internal/model"
)

const (
	defaultFuel         = "electric"
	defaultTransmission = "auto"
)

type CarRepo interface {
	ListCars(ctx context.Context, filter model.CarFilter) ([]model.Car, error)
	GetCar(ctx context.Context, carID int64) (*model.Car, error)
	CreateCar(ctx context.Context, in model.CarInput) (*model.Car, error)
	UpdateCar(ctx context.Context, carID int64, in model.CarInput) (*model.Car, error)
	DeleteCar(ctx context.Context, carID int64) error
	CreateTrip(ctx context.Context, carID int64, in model.TripInput) (*model.Trip, error)
	ListTrips(ctx context.Context, carID int64) ([]model.Trip, error)
}

type CarService struct {
	repo   CarRepo
	logger *logger.Logger
}

func NewCarService(repo CarRepo, logger *logger.Logger) *CarService {
	return &CarService{repo: repo, logger: logger}
}

func (s *CarService) ListCars(ctx context.Context, filter model.CarFilter) ([]model.Car, error) {
	if filter.MinDoors < 0 {
		return nil, ErrInvalidInput
	}
	filter.Size = strings.TrimSpace(filter.Size)
	return s.repo.ListCars(ctx, filter)
}

func (s *CarService) GetCar(ctx context.Context, carID int64) (*model.Car, error) {
	car, err := s.repo.GetCar(ctx, carID)
	return car, carNotFound(err)
}

func (s *CarService) CreateCar(ctx context.Context, in model.CarInput) (*model.Car, error) {
	in, err := normalizeCar(in)
	if err != nil {
		return nil, err
	}
	car, err := s.repo.CreateCar(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("car created", "car_id", car.ID)
	return car, nil
}

func (s *CarService) UpdateCar(ctx context.Context, carID int64, in model.CarInput) (*model.Car, error) {
	in, err := normalizeCar(in)
	if err != nil {
		return nil, err
	}
	car, err := s.repo.UpdateCar(ctx, carID, in)
	return car, carNotFound(err)
}

func (s *CarService) DeleteCar(ctx context.Context, carID int64) error {
	if err := s.repo.DeleteCar(ctx, carID); err != nil {
		return carNotFound(err)
	}
	s.logger.Debug("car deleted", "car_id", carID)
	return nil
}

func (s *CarService) AddTrip(ctx context.Context, carID int64, in model.TripInput) (*model.Trip, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" || in.Start < 0 || in.End < in.Start {
		return nil, ErrInvalidInput
	}
	trip, err := s.repo.CreateTrip(ctx, carID, in)
	return trip, carNotFound(err)
}

func (s *CarService) ListTrips(ctx context.Context, carID int64) ([]model.Trip, error) {
	if _, err := s.repo.GetCar(ctx, carID); err != nil {
		return nil, carNotFound(err)
	}
	return s.repo.ListTrips(ctx, carID)
}

func normalizeCar(in model.CarInput) (model.CarInput, error) {
	in.Size = strings.TrimSpace(in.Size)
	if in.Size == "" || in.Doors <= 0 {
		return in, ErrInvalidInput
	}
	if strings.TrimSpace(in.Fuel) == "" {
		in.Fuel = defaultFuel
	}
	if strings.TrimSpace(in.Transmission) == "" {
		in.Transmission = defaultTransmission
	}
	return in, nil
}

func carNotFound(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrCarNotFound
	}
	return err
}
