package rekognition

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/provider"
)

// MaxImageSize is the largest inline image DetectFaces accepts (5MB).
const MaxImageSize = 5 * 1024 * 1024

// Detector counts faces with the Rekognition DetectFaces API. It returns
// boxes and confidences only; embeddings come from the configured provider.
type Detector struct {
	api    API
	config Config
}

var _ provider.FaceDetector = (*Detector)(nil)

// NewDetector creates a detector backed by a real Rekognition client.
func NewDetector(ctx context.Context, cfg Config) (*Detector, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create rekognition client: %w", err)
	}
	return NewDetectorWithAPI(client, cfg), nil
}

func NewDetectorWithAPI(api API, cfg Config) *Detector {
	return &Detector{api: api, config: cfg}
}

// DetectFaces detects faces in an image using AWS Rekognition DetectFaces API
// Returns an empty slice if no faces are detected (not an error)
func (d *Detector) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if len(image) == 0 || len(image) > MaxImageSize {
		return nil, domain.ErrInvalidImage.WithError(
			fmt.Errorf("%w: size %d bytes, limit %d", ErrInvalidImage, len(image), MaxImageSize))
	}

	output, err := d.api.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image:      &types.Image{Bytes: image},
		Attributes: []types.Attribute{types.AttributeDefault},
	})
	if err != nil {
		err = parseAPIError(err)
		if errors.Is(err, ErrInvalidImage) {
			return nil, domain.ErrInvalidImage.WithError(err)
		}
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	faces := make([]provider.DetectedFace, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		confidence := float64(aws.ToFloat32(detail.Confidence))
		if confidence < d.config.MinConfidence {
			continue
		}

		var box provider.BoundingBox
		if detail.BoundingBox != nil {
			box = provider.BoundingBox{
				X:      float64(aws.ToFloat32(detail.BoundingBox.Left)),
				Y:      float64(aws.ToFloat32(detail.BoundingBox.Top)),
				Width:  float64(aws.ToFloat32(detail.BoundingBox.Width)),
				Height: float64(aws.ToFloat32(detail.BoundingBox.Height)),
			}
		}

		faces = append(faces, provider.DetectedFace{
			BoundingBox:  box,
			Confidence:   confidence / 100,
			QualityScore: calculateQualityScore(detail.Quality),
		})
	}

	return faces, nil
}

// calculateQualityScore computes an overall quality score from Rekognition quality metrics
// Returns a score between 0.0 (poor quality) and 1.0 (excellent quality)
func calculateQualityScore(quality *types.ImageQuality) float64 {
	if quality == nil {
		return 0.0
	}

	brightness := float64(aws.ToFloat32(quality.Brightness)) / 100.0
	sharpness := float64(aws.ToFloat32(quality.Sharpness)) / 100.0

	// Weight sharpness more heavily as it's critical for face recognition
	return brightness*0.3 + sharpness*0.7
}
