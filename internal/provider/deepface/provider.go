package deepface

import (
	"context"
	"fmt"
	"math"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/provider"
)

const (
	// minFaceArea is the minimum face area (in pixels²) for reliable detection
	minFaceArea = 2500 // 50x50 pixels
	// maxFaceArea is used for confidence scaling
	maxFaceArea = 250000 // 500x500 pixels
)

// Provider implements provider.FaceProvider using DeepFace API
type Provider struct {
	client *Client
}

// NewProvider creates a new DeepFace provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

func (p *Provider) Name() string {
	return "deepface"
}

// ExtractFaces calls /represent and converts every result. DeepFace reports a
// missing face as a 4xx when detection is enforced; that becomes an empty
// result rather than an error.
func (p *Provider) ExtractFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	resp, err := p.client.Represent(ctx, image)
	if err != nil {
		if isNoFaceError(err) {
			return []provider.DetectedFace{}, nil
		}
		return nil, fmt.Errorf("extract faces: %w", err)
	}

	faces := make([]provider.DetectedFace, 0, len(resp.Results))
	for _, result := range resp.Results {
		if len(result.Embedding) == 0 {
			continue
		}

		faceArea := float64(result.FacialArea.W * result.FacialArea.H)
		confidence := result.FaceConfidence
		if confidence == 0 {
			confidence = calculateConfidence(faceArea)
		}

		faces = append(faces, provider.DetectedFace{
			BoundingBox: provider.BoundingBox{
				X:      float64(result.FacialArea.X),
				Y:      float64(result.FacialArea.Y),
				Width:  float64(result.FacialArea.W),
				Height: float64(result.FacialArea.H),
			},
			Confidence:   confidence,
			QualityScore: calculateQuality(faceArea),
			Embedding:    result.Embedding,
		})
	}

	return faces, nil
}

// calculateConfidence estimates confidence from face area for detectors that
// do not report one.
func calculateConfidence(faceArea float64) float64 {
	if faceArea < minFaceArea {
		return 0.5
	}
	// Scale from 0.7 to 0.99 based on face area
	normalized := math.Min(1.0, (faceArea-minFaceArea)/(maxFaceArea-minFaceArea))
	return 0.7 + (normalized * 0.29)
}

// calculateQuality estimates quality score based on face area
func calculateQuality(faceArea float64) float64 {
	if faceArea < minFaceArea {
		return 0.4
	}
	// Scale from 0.6 to 0.95 based on face area
	normalized := math.Min(1.0, (faceArea-minFaceArea)/(maxFaceArea-minFaceArea))
	return 0.6 + (normalized * 0.35)
}

// Ensure Provider implements provider.FaceProvider
var _ provider.FaceProvider = (*Provider)(nil)
