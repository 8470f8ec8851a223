package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"explore-with-me/internal/handler"
	"explore-with-me/internal/model"
	"explore-with-me/internal/service/mocks"
	apperrors "explore-with-me/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupRequestRouter(serviceMock *mocks.RequestServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.NewRequestHandler(serviceMock).RegisterRoutes(router)
	return router
}

func TestRequestHandler_CreateRequest_Created(t *testing.T) {
	serviceMock := mocks.NewRequestServiceMock()
	serviceMock.On("Create", mock.Anything, int64(2), int64(100)).
		Return(&model.RequestResponse{ID: 7, EventID: 100, RequesterID: 2, Status: "PENDING"}, nil)

	router := setupRequestRouter(serviceMock)

	req := httptest.NewRequest(http.MethodPost, "/users/2/requests?eventId=100", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"PENDING"`)
}

func TestRequestHandler_CreateRequest_MissingEventID(t *testing.T) {
	serviceMock := mocks.NewRequestServiceMock()
	router := setupRequestRouter(serviceMock)

	req := httptest.NewRequest(http.MethodPost, "/users/2/requests", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	serviceMock.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestHandler_CreateRequest_DuplicateConflict(t *testing.T) {
	serviceMock := mocks.NewRequestServiceMock()
	serviceMock.On("Create", mock.Anything, int64(2), int64(100)).
		Return(nil, apperrors.Conflictf("participation request already exists"))

	router := setupRequestRouter(serviceMock)

	req := httptest.NewRequest(http.MethodPost, "/users/2/requests?eventId=100", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRequestHandler_CancelRequest_OK(t *testing.T) {
	serviceMock := mocks.NewRequestServiceMock()
	serviceMock.On("Cancel", mock.Anything, int64(2), int64(7)).
		Return(&model.RequestResponse{ID: 7, Status: "CANCELED"}, nil)

	router := setupRequestRouter(serviceMock)

	req := httptest.NewRequest(http.MethodPatch, "/users/2/requests/7/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"CANCELED"`)
}

func TestRequestHandler_ChangeRequestStatus_OK(t *testing.T) {
	serviceMock := mocks.NewRequestServiceMock()
	serviceMock.On("ChangeStatus", mock.Anything, int64(1), int64(100),
		model.StatusUpdateRequest{RequestIDs: []int64{7, 8}, Status: "CONFIRMED"}).
		Return(&model.StatusUpdateResult{
			Confirmed: []model.RequestResponse{{ID: 7, Status: "CONFIRMED"}, {ID: 8, Status: "CONFIRMED"}},
			Rejected:  []model.RequestResponse{},
		}, nil)

	router := setupRequestRouter(serviceMock)

	body := `{"requestIds": [7, 8], "status": "CONFIRMED"}`
	req := httptest.NewRequest(http.MethodPatch, "/users/1/events/100/requests", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"confirmedRequests"`)
	assert.Contains(t, w.Body.String(), `"rejectedRequests"`)
}

func TestRequestHandler_ChangeRequestStatus_EmptyIDs(t *testing.T) {
	serviceMock := mocks.NewRequestServiceMock()
	router := setupRequestRouter(serviceMock)

	body := `{"requestIds": [], "status": "CONFIRMED"}`
	req := httptest.NewRequest(http.MethodPatch, "/users/1/events/100/requests", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	serviceMock.AssertNotCalled(t, "ChangeStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestHandler_ChangeRequestStatus_CapacityConflict(t *testing.T) {
	serviceMock := mocks.NewRequestServiceMock()
	serviceMock.On("ChangeStatus", mock.Anything, int64(1), int64(100), mock.Anything).
		Return(nil, apperrors.Conflictf("participant limit reached"))

	router := setupRequestRouter(serviceMock)

	body := `{"requestIds": [7], "status": "CONFIRMED"}`
	req := httptest.NewRequest(http.MethodPatch, "/users/1/events/100/requests", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRequestHandler_ListEventRequests_OK(t *testing.T) {
	serviceMock := mocks.NewRequestServiceMock()
	serviceMock.On("ListByEvent", mock.Anything, int64(1), int64(100)).
		Return([]model.RequestResponse{{ID: 7, EventID: 100, Status: "PENDING"}}, nil)

	router := setupRequestRouter(serviceMock)

	req := httptest.NewRequest(http.MethodGet, "/users/1/events/100/requests", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
