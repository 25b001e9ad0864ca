package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vitalis/internal/domain"
	"vitalis/internal/handler"
	"vitalis/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newReportHandler() (*handler.ReportHandler, *mocks.MockReportService) {
	mockSvc := new(mocks.MockReportService)
	h := handler.NewReportHandler(mockSvc)
	return h, mockSvc
}

func TestReportHandler_GetByID_Success(t *testing.T) {
	h, mockSvc := newReportHandler()

	report := &domain.LabReport{
		ID:       uuid.New(),
		FileName: "report.pdf",
		Status:   domain.ExtractionStatusCompleted,
	}
	mockSvc.On("GetByID", mock.Anything, report.ID).Return(report, nil)
	mockSvc.On("GetDownloadURL", mock.Anything, report.ID).
		Return("https://test-bucket.s3.amazonaws.com/reports/x/report.pdf?X-Amz-Signature=sig", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reports/"+report.ID.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: report.ID.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	assert.True(t, ok)
	assert.Contains(t, data["download_url"], "X-Amz-Signature")
	assert.NotNil(t, data["report"])
	mockSvc.AssertExpectations(t)
}

func TestReportHandler_GetByID_InvalidID(t *testing.T) {
	h, mockSvc := newReportHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reports/not-a-uuid", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestReportHandler_GetByID_NotFound(t *testing.T) {
	h, mockSvc := newReportHandler()

	id := uuid.New()
	mockSvc.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reports/"+id.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandler_List_Success(t *testing.T) {
	h, mockSvc := newReportHandler()

	reports := []domain.LabReport{{ID: uuid.New(), FileName: "a.pdf"}}
	mockSvc.On("List", mock.Anything, 0, 20).Return(reports, 1, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reports", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
}

func TestReportHandler_Retry_NotRetryable(t *testing.T) {
	h, mockSvc := newReportHandler()

	id := uuid.New()
	mockSvc.On("Retry", mock.Anything, id).Return(nil, domain.ErrReportNotRetryable)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/reports/"+id.String()+"/retry", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Retry(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "REPORT_NOT_RETRYABLE", resp.Error.Code)
}

func TestReportHandler_Delete_Success(t *testing.T) {
	h, mockSvc := newReportHandler()

	id := uuid.New()
	mockSvc.On("Delete", mock.Anything, id).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/reports/"+id.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestReportHandler_Delete_NotFound(t *testing.T) {
	h, mockSvc := newReportHandler()

	id := uuid.New()
	mockSvc.On("Delete", mock.Anything, id).Return(domain.ErrNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/reports/"+id.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandler_Upload_MissingFile(t *testing.T) {
	h, mockSvc := newReportHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/reports", http.NoBody)
	c.Request.Header.Set("Content-Type", "multipart/form-data")

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}
