package deepface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func testConfig(url string) Config {
	config := DefaultConfig()
	config.BaseURL = url
	config.Timeout = 5 * time.Second
	config.BaseBackoff = 10 * time.Millisecond
	return config
}

func TestClient_Represent(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse interface{}
		serverStatus   int
		wantErr        bool
		wantErrContain string
		validateResp   func(*testing.T, *RepresentResponse)
	}{
		{
			name: "successful response with single face",
			serverResponse: RepresentResponse{
				Results: []RepresentResult{
					{
						Embedding:  make([]float64, 128),
						FacialArea: FacialArea{X: 10, Y: 20, W: 100, H: 100},
					},
				},
			},
			serverStatus: http.StatusOK,
			validateResp: func(t *testing.T, resp *RepresentResponse) {
				require.NotNil(t, resp)
				assert.Len(t, resp.Results, 1)
				assert.Len(t, resp.Results[0].Embedding, 128)
				assert.Equal(t, FacialArea{X: 10, Y: 20, W: 100, H: 100}, resp.Results[0].FacialArea)
			},
		},
		{
			name: "successful response with multiple faces",
			serverResponse: RepresentResponse{
				Results: []RepresentResult{
					{Embedding: make([]float64, 128), FacialArea: FacialArea{X: 10, Y: 20, W: 100, H: 100}},
					{Embedding: make([]float64, 128), FacialArea: FacialArea{X: 150, Y: 30, W: 90, H: 90}},
				},
			},
			serverStatus: http.StatusOK,
			validateResp: func(t *testing.T, resp *RepresentResponse) {
				assert.Len(t, resp.Results, 2)
			},
		},
		{
			name:           "bad request 400",
			serverResponse: map[string]string{"error": "invalid image format"},
			serverStatus:   http.StatusBadRequest,
			wantErr:        true,
			wantErrContain: "status 400",
		},
		{
			name:           "service unavailable 503",
			serverResponse: map[string]string{"error": "service temporarily unavailable"},
			serverStatus:   http.StatusServiceUnavailable,
			wantErr:        true,
			wantErrContain: "deepface service unavailable",
		},
		{
			name:           "invalid json response",
			serverResponse: "not a valid json",
			serverStatus:   http.StatusOK,
			wantErr:        true,
			wantErrContain: "invalid response",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/represent", r.URL.Path)
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var req RepresentRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.True(t, strings.HasPrefix(req.Img, "data:image/png;base64,"))
				assert.Equal(t, "Dlib", req.ModelName)
				assert.Equal(t, "opencv", req.DetectorBackend)
				assert.True(t, req.EnforceDetection)

				w.WriteHeader(tt.serverStatus)
				if str, ok := tt.serverResponse.(string); ok {
					_, _ = w.Write([]byte(str))
				} else {
					_ = json.NewEncoder(w).Encode(tt.serverResponse)
				}
			}))
			defer server.Close()

			config := testConfig(server.URL)
			config.RetryCount = 0

			resp, err := NewClient(config).Represent(context.Background(), pngMagic)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrContain)
				return
			}

			require.NoError(t, err)
			tt.validateResp(t, resp)
		})
	}
}

func TestClient_RetryOnFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(RepresentResponse{Results: []RepresentResult{}})
	}))
	defer server.Close()

	resp, err := NewClient(testConfig(server.URL)).Represent(context.Background(), pngMagic)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, int32(3), attempts.Load(), "expected exactly 3 attempts")
}

func TestClient_RetryExhaustion(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	config := testConfig(server.URL)
	config.RetryCount = 2

	_, err := NewClient(config).Represent(context.Background(), pngMagic)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeepFaceUnavailable)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, int32(3), attempts.Load(), "expected initial attempt + 2 retries")
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid request"})
	}))
	defer server.Close()

	_, err := NewClient(testConfig(server.URL)).Represent(context.Background(), pngMagic)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(RepresentResponse{})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(testConfig(server.URL)).Represent(ctx, pngMagic)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_ContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(RepresentResponse{})
	}))
	defer server.Close()

	config := testConfig(server.URL)
	config.Timeout = 50 * time.Millisecond
	config.RetryCount = 0

	_, err := NewClient(config).Represent(context.Background(), pngMagic)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeepFaceUnavailable)
}

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 0, want: time.Second},
		{attempt: 1, want: time.Second},
		{attempt: 2, want: 2 * time.Second},
		{attempt: 3, want: 4 * time.Second},
		{attempt: 10, want: maxBackoff},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, calculateBackoff(time.Second, tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestIsClientError(t *testing.T) {
	assert.True(t, isClientError(&StatusError{StatusCode: 400}))
	assert.True(t, isClientError(&StatusError{StatusCode: 422}))
	assert.False(t, isClientError(&StatusError{StatusCode: 500}))
	assert.False(t, isClientError(assert.AnError))
	assert.False(t, isClientError(nil))
}
