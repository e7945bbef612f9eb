package mock

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/imaging"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/provider"
)

// EmbeddingDimension matches the dlib recognizer so mock data can be mixed
// with real profiles in development.
const EmbeddingDimension = 128

// Provider implements provider.FaceProvider for tests and development.
// The embedding is a pure function of the decoded pixels: the same picture
// always maps to the same vector and different pictures land far apart.
// A single-colour image is treated as containing no face.
type Provider struct{}

// New creates a mock provider
func New() *Provider {
	return &Provider{}
}

func (p *Provider) Name() string {
	return "mock"
}

func (p *Provider) ExtractFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	faces, pixels, err := p.detect(ctx, image)
	if err != nil || len(faces) == 0 {
		return faces, err
	}

	faces[0].Embedding = generateEmbedding(pixels)
	return faces, nil
}

// DetectFaces reports the same face ExtractFaces would, without an embedding.
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	faces, _, err := p.detect(ctx, image)
	return faces, err
}

func (p *Provider) detect(ctx context.Context, image []byte) ([]provider.DetectedFace, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	img, _, err := imaging.Decode(image)
	if err != nil {
		return nil, nil, domain.ErrInvalidImage.WithError(err)
	}

	if imaging.IsUniform(img) {
		return []provider.DetectedFace{}, nil, nil
	}

	b := img.Bounds()
	return []provider.DetectedFace{
		{
			BoundingBox: provider.BoundingBox{
				X:      float64(b.Dx()) * 0.1,
				Y:      float64(b.Dy()) * 0.1,
				Width:  float64(b.Dx()) * 0.8,
				Height: float64(b.Dy()) * 0.8,
			},
			Confidence:   0.99,
			QualityScore: 0.95,
		},
	}, imaging.Pixels(img), nil
}

// generateEmbedding expands SHA-256 of the pixels into a unit vector.
func generateEmbedding(pixels []byte) []float64 {
	embedding := make([]float64, EmbeddingDimension)

	var block [sha256.Size]byte
	var counter [8]byte
	for i := 0; i < EmbeddingDimension; i++ {
		if i%sha256.Size == 0 {
			binary.BigEndian.PutUint64(counter[:], uint64(i/sha256.Size))
			h := sha256.New()
			h.Write(counter[:])
			h.Write(pixels)
			copy(block[:], h.Sum(nil))
		}
		embedding[i] = (float64(block[i%sha256.Size])/255.0)*2 - 1
	}

	norm := 0.0
	for _, v := range embedding {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	if norm == 0 {
		return embedding
	}
	for i := range embedding {
		embedding[i] /= norm
	}

	return embedding
}

var (
	_ provider.FaceProvider = (*Provider)(nil)
	_ provider.FaceDetector = (*Provider)(nil)
)
