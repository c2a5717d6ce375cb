package controllers

import (
	"context"
	"errors"

	"github.com/mygroup/mygroup-backend/internal/auth"
	"github.com/mygroup/mygroup-backend/internal/geo"
)

type stubAuthService struct {
	login    *auth.LoginResponse
	current  *auth.CurrentUserResponse
	err      error
	gotLogin auth.LoginRequest
	gotUser  int64
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.gotLogin = req
	return s.login, s.err
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID int64) (*auth.CurrentUserResponse, error) {
	s.gotUser = userID
	return s.current, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, userID int64) (*auth.LogoutResponse, error) {
	s.gotUser = userID
	return &auth.LogoutResponse{Message: "logout successful"}, s.err
}

type stubRegisterService struct {
	register *auth.RegisterResponse
	step1    *auth.RegisterStep1Response
	err      error
	gotStep2 auth.RegisterStep2Request
	calls    int
}

func (s *stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	s.calls++
	return s.register, s.err
}

func (s *stubRegisterService) RegisterStep1(ctx context.Context, req auth.RegisterStep1Request) (*auth.RegisterStep1Response, error) {
	s.calls++
	return s.step1, s.err
}

func (s *stubRegisterService) RegisterStep2(ctx context.Context, req auth.RegisterStep2Request) (*auth.RegisterResponse, error) {
	s.calls++
	s.gotStep2 = req
	return s.register, s.err
}

type stubUniquenessService struct {
	taken map[string]bool
	err   error
}

func (s stubUniquenessService) UniqueMobile(ctx context.Context, mobile string) (*auth.ExistsResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &auth.ExistsResponse{Exists: s.taken[mobile]}, nil
}

func (s stubUniquenessService) UniqueEmail(ctx context.Context, email string) (*auth.ExistsResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &auth.ExistsResponse{Exists: s.taken[email]}, nil
}

type stubGeoService struct {
	meta      *geo.RegisterMetadata
	states    []geo.StateDTO
	districts []geo.DistrictDTO
	gotID     int64
}

func (s *stubGeoService) RegisterMetadata(ctx context.Context) (*geo.RegisterMetadata, error) {
	if s.meta == nil {
		return nil, errors.New("not seeded")
	}
	return s.meta, nil
}

func (s *stubGeoService) States(ctx context.Context, countryID int64) ([]geo.StateDTO, error) {
	s.gotID = countryID
	return s.states, nil
}

func (s *stubGeoService) Districts(ctx context.Context, stateID int64) ([]geo.DistrictDTO, error) {
	s.gotID = stateID
	return s.districts, nil
}

func strPtr(value string) *string {
	return &value
}
