package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	portssvc "github.com/tmtrack/time_tracker_app/internal/core/ports/services"
	"github.com/tmtrack/time_tracker_app/internal/dto"
	"github.com/tmtrack/time_tracker_app/internal/handlers"
	"github.com/tmtrack/time_tracker_app/internal/middleware"
)

// --- Mock TimesheetService ---
type MockTimesheetService struct {
	mock.Mock
}

func (m *MockTimesheetService) CreateTimesheet(ctx context.Context, requestingUserID string, req dto.CreateTimesheetRequest) (*domain.Timesheet, error) {
	args := m.Called(ctx, requestingUserID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Timesheet), args.Error(1)
}
func (m *MockTimesheetService) ListMyTimesheets(ctx context.Context, requestingUserID string, filter dto.TimesheetFilter) ([]domain.Timesheet, error) {
	args := m.Called(ctx, requestingUserID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Timesheet), args.Error(1)
}
func (m *MockTimesheetService) GetTimesheet(ctx context.Context, requestingUserID, timesheetID string) (*domain.Timesheet, error) {
	args := m.Called(ctx, requestingUserID, timesheetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Timesheet), args.Error(1)
}
func (m *MockTimesheetService) UpdateTimesheet(ctx context.Context, requestingUserID, timesheetID string, req dto.UpdateTimesheetRequest) (*domain.Timesheet, error) {
	args := m.Called(ctx, requestingUserID, timesheetID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Timesheet), args.Error(1)
}
func (m *MockTimesheetService) DeleteTimesheet(ctx context.Context, requestingUserID, timesheetID string) error {
	args := m.Called(ctx, requestingUserID, timesheetID)
	return args.Error(0)
}

var _ portssvc.TimesheetSvcFacade = (*MockTimesheetService)(nil)

// --- Test Suite ---
type TimesheetHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockTimesheetService
	jwtSecret   string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *TimesheetHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "ttr-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *TimesheetHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockService = new(MockTimesheetService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterTimesheetRoutes(v1, suite.mockService)
}

func (suite *TimesheetHandlerTestSuite) doRequest(method, url, userID string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *TimesheetHandlerTestSuite) TestCreateTimesheet_Success() {
	userID := uuid.NewString()
	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	reqBody := dto.CreateTimesheetRequest{
		ProjectID:       uuid.NewString(),
		TaskName:        "Fence repair",
		StartTime:       start,
		EndTime:         start.Add(90 * time.Minute),
		DurationMinutes: 90,
	}
	created := &domain.Timesheet{
		TimesheetID:     uuid.NewString(),
		UserID:          userID,
		ProjectID:       reqBody.ProjectID,
		TaskName:        reqBody.TaskName,
		StartTime:       reqBody.StartTime,
		EndTime:         reqBody.EndTime,
		DurationMinutes: 90,
	}

	suite.mockService.On("CreateTimesheet",
		mock.Anything,
		userID,
		mock.MatchedBy(func(r dto.CreateTimesheetRequest) bool {
			return r.TaskName == "Fence repair" && r.DurationMinutes == 90
		}),
	).Return(created, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/timesheets", userID, reqBody)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TimesheetResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.TimesheetID, resp.TimesheetID)
	suite.Equal(userID, resp.UserID)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TimesheetHandlerTestSuite) TestCreateTimesheet_MissingFields() {
	userID := uuid.NewString()

	w := suite.doRequest(http.MethodPost, "/api/v1/timesheets", userID, gin.H{"taskName": "Missing the rest"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreateTimesheet")
}

func (suite *TimesheetHandlerTestSuite) TestCreateTimesheet_NoToken() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/timesheets", bytes.NewReader(nil))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreateTimesheet")
}

func (suite *TimesheetHandlerTestSuite) TestCreateTimesheet_ExpiredToken() {
	claims := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	suite.Require().NoError(err)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/timesheets", bytes.NewReader(nil))
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "Token has expired")
	suite.mockService.AssertNotCalled(suite.T(), "CreateTimesheet")
}

func (suite *TimesheetHandlerTestSuite) TestListMyTimesheets_FilterParsing() {
	userID := uuid.NewString()
	projectID := uuid.NewString()

	suite.mockService.On("ListMyTimesheets",
		mock.Anything,
		userID,
		mock.MatchedBy(func(f dto.TimesheetFilter) bool {
			if f.ProjectID != projectID || f.StartDate == nil || f.EndDate == nil {
				return false
			}
			// A bare endDate covers the whole day.
			return f.StartDate.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) &&
				f.EndDate.After(time.Date(2026, 4, 2, 23, 59, 0, 0, time.UTC))
		}),
	).Return([]domain.Timesheet{}, nil).Once()

	url := fmt.Sprintf("/api/v1/timesheets?startDate=2026-04-01&endDate=2026-04-02&projectId=%s", projectID)
	w := suite.doRequest(http.MethodGet, url, userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListTimesheetsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Empty(resp.Timesheets)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TimesheetHandlerTestSuite) TestListMyTimesheets_BadDate() {
	userID := uuid.NewString()

	w := suite.doRequest(http.MethodGet, "/api/v1/timesheets?startDate=yesterday", userID, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "ListMyTimesheets")
}

func (suite *TimesheetHandlerTestSuite) TestGetTimesheet_NotFound() {
	userID := uuid.NewString()
	timesheetID := uuid.NewString()

	suite.mockService.On("GetTimesheet", mock.Anything, userID, timesheetID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/timesheets/"+timesheetID, userID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TimesheetHandlerTestSuite) TestUpdateTimesheet_Forbidden() {
	userID := uuid.NewString()
	timesheetID := uuid.NewString()
	taskName := "Not mine"

	suite.mockService.On("UpdateTimesheet", mock.Anything, userID, timesheetID, mock.Anything).
		Return(nil, apperrors.ErrForbidden).Once()

	w := suite.doRequest(http.MethodPut, "/api/v1/timesheets/"+timesheetID, userID,
		dto.UpdateTimesheetRequest{TaskName: &taskName})

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TimesheetHandlerTestSuite) TestDeleteTimesheet_Success() {
	userID := uuid.NewString()
	timesheetID := uuid.NewString()

	suite.mockService.On("DeleteTimesheet", mock.Anything, userID, timesheetID).
		Return(nil).Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/timesheets/"+timesheetID, userID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestTimesheetHandler(t *testing.T) {
	suite.Run(t, new(TimesheetHandlerTestSuite))
}
