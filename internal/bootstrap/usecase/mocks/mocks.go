// Package mocks provides mock implementations for testing the bootstrap use cases.
package mocks

import (
	"context"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/strichliste/bootstrap/internal/bootstrap/domain"
)

// MockRecordRepository is a mock implementation of RecordRepository.
type MockRecordRepository struct {
	mock.Mock
}

// Save mocks the Save method of RecordRepository.
func (m *MockRecordRepository) Save(ctx context.Context, record *domain.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// Load mocks the Load method of RecordRepository.
func (m *MockRecordRepository) Load(ctx context.Context) (*domain.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

// MockArtifactWriter is a mock implementation of ArtifactWriter.
type MockArtifactWriter struct {
	mock.Mock
}

// Write mocks the Write method of ArtifactWriter.
func (m *MockArtifactWriter) Write(ctx context.Context, path string, content []byte, perm os.FileMode) error {
	args := m.Called(ctx, path, content, perm)
	return args.Error(0)
}

// MockCredentialHasher is a mock implementation of CredentialHasher.
type MockCredentialHasher struct {
	mock.Mock
}

// Hash mocks the Hash method of CredentialHasher.
func (m *MockCredentialHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

// Algorithm mocks the Algorithm method of CredentialHasher.
func (m *MockCredentialHasher) Algorithm() string {
	args := m.Called()
	return args.String(0)
}

// MockTokenMinter is a mock implementation of TokenMinter.
type MockTokenMinter struct {
	mock.Mock
}

// Mint mocks the Mint method of TokenMinter.
func (m *MockTokenMinter) Mint(secret string, role domain.Role) (string, error) {
	args := m.Called(secret, role)
	return args.String(0), args.Error(1)
}

// MintAll mocks the MintAll method of TokenMinter.
func (m *MockTokenMinter) MintAll(secret string, roles []domain.Role) (map[domain.Role]string, error) {
	args := m.Called(secret, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Role]string), args.Error(1)
}

// Verify mocks the Verify method of TokenMinter.
func (m *MockTokenMinter) Verify(secret, token string) (domain.Role, error) {
	args := m.Called(secret, token)
	return args.Get(0).(domain.Role), args.Error(1)
}
