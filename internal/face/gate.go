package face

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/provider"
)

// GatedProvider asks a detector whether the image holds a face before paying
// for embedding extraction.
type GatedProvider struct {
	detector provider.FaceDetector
	next     provider.FaceProvider
}

func NewGatedProvider(detector provider.FaceDetector, next provider.FaceProvider) *GatedProvider {
	return &GatedProvider{detector: detector, next: next}
}

func (g *GatedProvider) Name() string {
	return g.next.Name() + "+detector"
}

func (g *GatedProvider) ExtractFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	detected, err := g.detector.DetectFaces(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("detector: %w", err)
	}
	if len(detected) == 0 {
		return []provider.DetectedFace{}, nil
	}

	return g.next.ExtractFaces(ctx, image)
}

var _ provider.FaceProvider = (*GatedProvider)(nil)
