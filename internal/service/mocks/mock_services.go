package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"portfolio/internal/model"
	"portfolio/internal/service"
	"portfolio/internal/storage"
)

type MockProjectService struct {
	mock.Mock
}

var _ service.ProjectService = (*MockProjectService)(nil)

func (m *MockProjectService) List(ctx context.Context) ([]model.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectService) ByCategory(ctx context.Context, category string) ([]model.Project, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

type MockContactService struct {
	mock.Mock
}

var _ service.ContactService = (*MockContactService)(nil)

func (m *MockContactService) Submit(ctx context.Context, in service.ContactInput) (*model.Message, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockContactService) List(ctx context.Context) ([]model.Message, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MockContactService) UpdateStatus(ctx context.Context, id, status string) (model.MessageStatus, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(model.MessageStatus), args.Error(1)
}

type MockUploadService struct {
	mock.Mock
}

var _ service.UploadService = (*MockUploadService)(nil)

func (m *MockUploadService) Upload(ctx context.Context, kind string, r io.Reader, originalFilename, contentType string, size int64) (*service.Upload, error) {
	args := m.Called(ctx, kind, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Upload), args.Error(1)
}

func (m *MockUploadService) Open(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.ObjectInfo), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockUploadService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockUploadService) Presign(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
