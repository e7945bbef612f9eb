package deepface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_ExtractFaces(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      interface{}
		wantFaces int
		wantErr   bool
		check     func(*testing.T, *Provider)
	}{
		{
			name:   "single face",
			status: http.StatusOK,
			body: RepresentResponse{Results: []RepresentResult{
				{Embedding: []float64{0.1, 0.2, 0.3}, FacialArea: FacialArea{X: 5, Y: 6, W: 200, H: 200}, FaceConfidence: 0.97},
			}},
			wantFaces: 1,
		},
		{
			name:   "two faces",
			status: http.StatusOK,
			body: RepresentResponse{Results: []RepresentResult{
				{Embedding: []float64{0.1}, FacialArea: FacialArea{W: 80, H: 80}},
				{Embedding: []float64{0.2}, FacialArea: FacialArea{W: 60, H: 60}},
			}},
			wantFaces: 2,
		},
		{
			name:   "results without embeddings are skipped",
			status: http.StatusOK,
			body: RepresentResponse{Results: []RepresentResult{
				{FacialArea: FacialArea{W: 80, H: 80}},
			}},
			wantFaces: 0,
		},
		{
			name:   "no face is an empty result",
			status: http.StatusBadRequest,
			body: map[string]string{
				"error": "Exception while representing: Face could not be detected in numpy array. Please confirm that the picture is a face photo",
			},
			wantFaces: 0,
		},
		{
			name:    "other client errors propagate",
			status:  http.StatusBadRequest,
			body:    map[string]string{"error": "you must pass img"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.body)
			}))
			defer server.Close()

			config := testConfig(server.URL)
			config.RetryCount = 0
			p := NewProvider(config)

			faces, err := p.ExtractFaces(context.Background(), pngMagic)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, faces)
			assert.Len(t, faces, tt.wantFaces)
		})
	}
}

func TestProvider_ExtractFaces_MapsFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(RepresentResponse{Results: []RepresentResult{
			{Embedding: []float64{0.5, -0.5}, FacialArea: FacialArea{X: 1, Y: 2, W: 100, H: 120}},
		}})
	}))
	defer server.Close()

	p := NewProvider(testConfig(server.URL))
	faces, err := p.ExtractFaces(context.Background(), pngMagic)
	require.NoError(t, err)
	require.Len(t, faces, 1)

	face := faces[0]
	assert.Equal(t, []float64{0.5, -0.5}, face.Embedding)
	assert.Equal(t, 1.0, face.BoundingBox.X)
	assert.Equal(t, 120.0, face.BoundingBox.Height)
	assert.InDelta(t, calculateConfidence(12000), face.Confidence, 1e-9)
	assert.Equal(t, "deepface", p.Name())
}

func TestCalculateConfidence(t *testing.T) {
	assert.Equal(t, 0.5, calculateConfidence(100))
	assert.InDelta(t, 0.7, calculateConfidence(minFaceArea), 1e-9)
	assert.InDelta(t, 0.99, calculateConfidence(maxFaceArea*4), 1e-9)
}

func TestCalculateQuality(t *testing.T) {
	assert.Equal(t, 0.4, calculateQuality(100))
	assert.InDelta(t, 0.6, calculateQuality(minFaceArea), 1e-9)
	assert.InDelta(t, 0.95, calculateQuality(maxFaceArea), 1e-9)
}
