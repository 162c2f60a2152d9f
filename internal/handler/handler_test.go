package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"synthdata-wizard-api/internal/client"
	"synthdata-wizard-api/internal/domain"
	"synthdata-wizard-api/internal/metrics"
	"synthdata-wizard-api/internal/service"
	"synthdata-wizard-api/internal/wizard"
)

// mockExporter implements client.ExportClient
type mockExporter struct {
	ExportFunc func(ctx context.Context, spec *domain.ExportSpec) (*domain.ExportResult, error)
}

func (m *mockExporter) Export(ctx context.Context, spec *domain.ExportSpec) (*domain.ExportResult, error) {
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, spec)
	}
	return &domain.ExportResult{Payload: []byte("a;b\r\n"), ContentType: "application/octet-stream"}, nil
}

// mockDetector implements client.DetectionClient
type mockDetector struct {
	DetectColumnsFunc func(ctx context.Context, filename string, file io.Reader) (*domain.ColumnList, error)
	DetectColumnFunc  func(ctx context.Context, filename string, file io.Reader, column string) (*domain.ColumnDetection, error)
	FitCurveFunc      func(ctx context.Context, req domain.CurveFitRequest) (*domain.CurveFit, error)
}

func (m *mockDetector) DetectColumns(ctx context.Context, filename string, file io.Reader) (*domain.ColumnList, error) {
	if m.DetectColumnsFunc != nil {
		return m.DetectColumnsFunc(ctx, filename, file)
	}
	return &domain.ColumnList{Columns: []string{}}, nil
}

func (m *mockDetector) DetectColumn(ctx context.Context, filename string, file io.Reader, column string) (*domain.ColumnDetection, error) {
	if m.DetectColumnFunc != nil {
		return m.DetectColumnFunc(ctx, filename, file, column)
	}
	return &domain.ColumnDetection{}, nil
}

func (m *mockDetector) FitCurve(ctx context.Context, req domain.CurveFitRequest) (*domain.CurveFit, error) {
	if m.FitCurveFunc != nil {
		return m.FitCurveFunc(ctx, req)
	}
	return &domain.CurveFit{}, nil
}

type testEnv struct {
	router   *gin.Engine
	service  service.WizardService
	exporter *mockExporter
	detector *mockDetector
	archive  *client.MockS3Client
	hub      *EventHub
}

// setupTestEnv wires the handlers to a real wizard service over mocked collaborators
func setupTestEnv(t *testing.T, withArchive bool) *testEnv {
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		exporter: &mockExporter{},
		detector: &mockDetector{},
		hub:      NewEventHub(zap.NewNop()),
	}
	var archive client.ExportArchive
	if withArchive {
		env.archive = client.NewMockS3Client()
		archive = env.archive
	}

	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	env.service = service.NewWizardService(
		wizard.NewManager(clock),
		nil,
		env.exporter,
		env.detector,
		archive,
		env.hub,
		clock,
		service.SessionOptions{AutosaveDebounce: 800 * time.Millisecond, SaveTimeout: time.Second},
		metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop()),
		zap.NewNop(),
	)

	sessionHandler := NewSessionHandler(env.service)
	detectionHandler := NewDetectionHandler(env.service)
	eventsHandler := NewEventsHandler(env.service, env.hub, zap.NewNop())

	r := gin.New()
	sessions := r.Group("/sessions")
	sessions.POST("", sessionHandler.CreateSession)
	sessions.GET("/:sessionId", sessionHandler.GetSession)
	sessions.DELETE("/:sessionId", sessionHandler.CloseSession)
	sessions.GET("/:sessionId/events", eventsHandler.Subscribe)
	sessions.POST("/:sessionId/fields", sessionHandler.AddField)
	sessions.PATCH("/:sessionId/fields/:fieldId", sessionHandler.PatchField)
	sessions.DELETE("/:sessionId/fields/:fieldId", sessionHandler.RemoveField)
	sessions.PUT("/:sessionId/fields/:fieldId/position", sessionHandler.MoveField)
	sessions.GET("/:sessionId/fields/:fieldId/mode", sessionHandler.GetMode)
	sessions.PUT("/:sessionId/fields/:fieldId/mode", sessionHandler.EnterMode)
	sessions.PUT("/:sessionId/fields/:fieldId/values", sessionHandler.SaveValues)
	sessions.GET("/:sessionId/fields/:fieldId/values", sessionHandler.GetValues)
	sessions.POST("/:sessionId/fields/:fieldId/detection", sessionHandler.DetectField)
	sessions.PATCH("/:sessionId/options", sessionHandler.UpdateOptions)
	sessions.POST("/:sessionId/sheets", sessionHandler.AddSheet)
	sessions.PATCH("/:sessionId/sheets/:sheetId", sessionHandler.RenameSheet)
	sessions.POST("/:sessionId/sheets/:sheetId/toggle", sessionHandler.ToggleSheetField)
	sessions.GET("/:sessionId/export-spec", sessionHandler.GetExportSpec)
	sessions.POST("/:sessionId/export", sessionHandler.Export)
	r.POST("/detect-distribution", detectionHandler.DetectColumns)
	r.POST("/fit-distribution", detectionHandler.FitCurve)
	env.router = r

	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// newSession opens a session and returns its view
func (e *testEnv) newSession(t *testing.T) wizard.View {
	w := e.do(t, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var view wizard.View
	decodeData(t, w, &view)
	return view
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.NotNil(t, env.Error, w.Body.String())
	return env.Error.Code
}

// multipartBody builds a form with a "file" part and extra fields
func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}
