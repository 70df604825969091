package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type fakeAnalyzer struct {
	result *models.AnalysisResult
	err    error
	calls  int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ models.AnalysisRequest) (*models.AnalysisResult, error) {
	f.calls++
	return f.result, f.err
}

func testResult(overall float64) *models.AnalysisResult {
	return &models.AnalysisResult{
		Scores:              models.Scores{Overall: overall},
		Skills:              models.SkillGap{Technical: []string{"Go"}},
		ProfessionalSummary: "Backend engineer.",
		Benchmarking:        models.Benchmarking{Level: models.LevelSenior},
	}
}

type testServer struct {
	app      *fiber.App
	analyzer *fakeAnalyzer
	store    services.SessionStore
}

func newTestServer(t *testing.T, maxFileSize int64) *testServer {
	t.Helper()

	logger := zap.NewNop()
	extractor := services.NewDocumentExtractor(services.NewPDFParserService(), services.NewDOCXParserService(), logger)
	analyzer := &fakeAnalyzer{result: testResult(72)}
	store := services.NewSessionStore(extractor, analyzer, time.Hour, logger)
	theater := services.NewProgressTheater(services.DefaultStepInterval)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app,
		NewUploadHandler(extractor, maxFileSize, logger),
		NewAnalysisHandler(analyzer, theater, logger),
		NewSessionHandler(store, theater, true, maxFileSize, logger),
	)

	return &testServer{app: app, analyzer: analyzer, store: store}
}

func multipartRequest(t *testing.T, method, url, field, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, url, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, url string, payload any) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, 1<<20)

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPipelineSteps(t *testing.T) {
	srv := newTestServer(t, 1<<20)

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/pipeline/steps", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[struct {
		Steps []services.PipelineStep `json:"steps"`
	}](t, resp)
	assert.Len(t, body.Steps, 5)
}

func TestExtract(t *testing.T) {
	srv := newTestServer(t, 1<<20)

	resp, err := srv.app.Test(multipartRequest(t, http.MethodPost, "/api/v1/extract", "resume", "cv.txt", []byte("Experienced engineer.")))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[models.ExtractResponse](t, resp)
	assert.Equal(t, "Experienced engineer.", body.ResumeText)
	assert.Equal(t, "txt", body.FileType)
	assert.Equal(t, "cv.txt", body.Filename)
	assert.Equal(t, 21, body.Characters)
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		content    []byte
		maxSize    int64
		wantStatus int
		wantCode   string
		wantError  string
	}{
		{
			name:       "unsupported",
			filename:   "photo.png",
			content:    []byte("png"),
			maxSize:    1 << 20,
			wantStatus: fiber.StatusUnsupportedMediaType,
			wantCode:   string(apperrors.KindUnsupportedFormat),
			wantError:  "Unsupported format (PDF/DOCX/TXT only).",
		},
		{
			name:       "broken pdf",
			filename:   "cv.pdf",
			content:    []byte("not a pdf"),
			maxSize:    1 << 20,
			wantStatus: fiber.StatusUnprocessableEntity,
			wantCode:   string(apperrors.KindExtractionFailed),
			wantError:  "File extraction failed.",
		},
		{
			name:       "too large",
			filename:   "cv.txt",
			content:    bytes.Repeat([]byte("a"), 64),
			maxSize:    16,
			wantStatus: fiber.StatusRequestEntityTooLarge,
			wantCode:   "FILE_TOO_LARGE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.maxSize)

			resp, err := srv.app.Test(multipartRequest(t, http.MethodPost, "/api/v1/extract", "resume", tt.filename, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decode[models.ErrorResponse](t, resp)
			assert.Equal(t, tt.wantCode, body.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body.Error)
			}
		})
	}
}

func TestExtract_MissingFile(t *testing.T) {
	srv := newTestServer(t, 1<<20)

	resp, err := srv.app.Test(multipartRequest(t, http.MethodPost, "/api/v1/extract", "cv", "cv.txt", []byte("x")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_FILE", decode[models.ErrorResponse](t, resp).Code)
}

func TestAnalyze(t *testing.T) {
	srv := newTestServer(t, 1<<20)

	resp, err := srv.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/analyze", map[string]string{
		"resume_text":     "Experienced engineer.",
		"job_description": "Need a backend engineer.",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[models.AnalysisResult](t, resp)
	assert.Equal(t, 72.0, body.Scores.Overall)
	assert.Equal(t, models.LevelSenior, body.Benchmarking.Level)
}

func TestAnalyze_Validation(t *testing.T) {
	srv := newTestServer(t, 1<<20)

	resp, err := srv.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/analyze", map[string]string{
		"resume_text":     "  ",
		"job_description": "Need a backend engineer.",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decode[models.ErrorResponse](t, resp)
	assert.Equal(t, string(apperrors.KindValidation), body.Code)
	assert.Equal(t, "Resume and Job Description are required.", body.Error)
	assert.Zero(t, srv.analyzer.calls)
}

func TestAnalyze_ServiceFailureHidesCause(t *testing.T) {
	srv := newTestServer(t, 1<<20)
	srv.analyzer.result = nil
	srv.analyzer.err = apperrors.NewAnalysisFailedError("analysis service call failed", errors.New("api key leaked-secret rejected"))

	resp, err := srv.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/analyze", map[string]string{
		"resume_text":     "cv",
		"job_description": "jd",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "leaked-secret")
	assert.Contains(t, string(raw), "ML Pipeline Execution Error. Check connection.")
}

func TestSessionFlow(t *testing.T) {
	srv := newTestServer(t, 1<<20)

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decode[models.SessionResponse](t, resp)
	assert.Equal(t, string(models.StatusIdle), created.Status)

	base := "/api/v1/sessions/" + created.ID

	resp, err = srv.app.Test(multipartRequest(t, http.MethodPost, base+"/upload", "resume", "resume.txt", []byte("Experienced engineer.")))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = srv.app.Test(jsonRequest(t, http.MethodPut, base+"/job-description", map[string]string{
		"job_description": "Need a backend engineer.",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = srv.app.Test(jsonRequest(t, http.MethodPost, base+"/analyze", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	state := decode[models.SessionStateResponse](t, resp)
	assert.Equal(t, models.StatusSucceeded, state.Status)
	assert.Equal(t, "Experienced engineer.", state.ResumeText)
	assert.Equal(t, "Need a backend engineer.", state.JobDescription)
	require.NotNil(t, state.Result)
	assert.Equal(t, 72.0, state.Result.Scores.Overall)
	assert.Nil(t, state.Progress)

	resp, err = srv.app.Test(httptest.NewRequest(http.MethodDelete, base+"/result", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	state = decode[models.SessionStateResponse](t, resp)
	assert.Nil(t, state.Result)
	assert.Equal(t, models.StatusIdle, state.Status)

	resp, err = srv.app.Test(httptest.NewRequest(http.MethodDelete, base, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = srv.app.Test(httptest.NewRequest(http.MethodGet, base, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSessionAnalyze_BodyOverridesTexts(t *testing.T) {
	srv := newTestServer(t, 1<<20)
	session := srv.store.Create()

	resp, err := srv.app.Test(jsonRequest(t, http.MethodPost, "/api/v1/sessions/"+session.ID().String()+"/analyze", map[string]string{
		"resume_text":     "Typed resume.",
		"job_description": "Typed JD.",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	snap := session.Snapshot()
	assert.Equal(t, "Typed resume.", snap.ResumeText)
	assert.Equal(t, "Typed JD.", snap.JobDescription)
}

func TestSession_FailureIsRecorded(t *testing.T) {
	srv := newTestServer(t, 1<<20)
	srv.analyzer.result = nil
	srv.analyzer.err = apperrors.NewAnalysisFailedError("analysis service call failed", nil)
	session := srv.store.Create()
	session.SetResumeText("cv")
	session.SetJobDescription("jd")

	url := "/api/v1/sessions/" + session.ID().String()
	resp, err := srv.app.Test(jsonRequest(t, http.MethodPost, url+"/analyze", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	resp, err = srv.app.Test(httptest.NewRequest(http.MethodGet, url, nil))
	require.NoError(t, err)
	state := decode[models.SessionStateResponse](t, resp)
	assert.Equal(t, models.StatusFailed, state.Status)
	assert.Equal(t, string(apperrors.KindAnalysisFailed), state.ErrorCode)
}

func TestSession_NotFound(t *testing.T) {
	srv := newTestServer(t, 1<<20)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/v1/sessions/nope", nil),
		jsonRequest(t, http.MethodPut, "/api/v1/sessions/6f1c1a52-7d0e-4a43-9b0a-3c2b5d0e8f11/resume", map[string]string{"resume_text": "x"}),
		jsonRequest(t, http.MethodPost, "/api/v1/sessions/6f1c1a52-7d0e-4a43-9b0a-3c2b5d0e8f11/analyze", nil),
	} {
		resp, err := srv.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, req.URL.Path)
		assert.Equal(t, string(apperrors.KindNotFound), decode[models.ErrorResponse](t, resp).Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := map[apperrors.Kind]int{
		apperrors.KindUnsupportedFormat: fiber.StatusUnsupportedMediaType,
		apperrors.KindExtractionFailed:  fiber.StatusUnprocessableEntity,
		apperrors.KindValidation:        fiber.StatusBadRequest,
		apperrors.KindAnalysisFailed:    fiber.StatusBadGateway,
		apperrors.KindSessionBusy:       fiber.StatusConflict,
		apperrors.KindNotFound:          fiber.StatusNotFound,
		apperrors.KindInternal:          fiber.StatusInternalServerError,
	}

	for kind, want := range tests {
		assert.Equal(t, want, statusFor(kind), string(kind))
	}
}

func TestInvalidPayload(t *testing.T) {
	srv := newTestServer(t, 1<<20)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_PAYLOAD", decode[models.ErrorResponse](t, resp).Code)
}
