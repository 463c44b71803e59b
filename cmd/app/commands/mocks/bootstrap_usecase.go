// Package mocks provides mock implementations for testing CLI commands.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/strichliste/bootstrap/internal/bootstrap/usecase"
)

// MockBootstrapUseCase is a mock implementation of BootstrapUseCase.
type MockBootstrapUseCase struct {
	mock.Mock
}

// Run mocks the Run method of BootstrapUseCase.
func (m *MockBootstrapUseCase) Run(ctx context.Context, input usecase.RunInput) (*usecase.RunOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RunOutput), args.Error(1)
}

// SetupDevice mocks the SetupDevice method of BootstrapUseCase.
func (m *MockBootstrapUseCase) SetupDevice(ctx context.Context, location string) (string, error) {
	args := m.Called(ctx, location)
	return args.String(0), args.Error(1)
}

// RenderSchema mocks the RenderSchema method of BootstrapUseCase.
func (m *MockBootstrapUseCase) RenderSchema(ctx context.Context, templatePath, outputPath string) error {
	args := m.Called(ctx, templatePath, outputPath)
	return args.Error(0)
}
