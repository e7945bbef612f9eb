package provider

import "context"

// FaceProvider turns an image into face embeddings.
type FaceProvider interface {
	// ExtractFaces returns every face found in the image together with its
	// embedding. An image without faces yields an empty slice, not an error.
	ExtractFaces(ctx context.Context, image []byte) ([]DetectedFace, error)

	// Name identifies the provider in logs and health output.
	Name() string
}

// FaceDetector locates faces without computing embeddings.
type FaceDetector interface {
	DetectFaces(ctx context.Context, image []byte) ([]DetectedFace, error)
}

// DetectedFace represents a detected face in the image
type DetectedFace struct {
	BoundingBox  BoundingBox `json:"bounding_box"`
	Confidence   float64     `json:"confidence"`
	QualityScore float64     `json:"quality_score"`
	Embedding    []float64   `json:"-"`
}

// BoundingBox represents the face area in the image
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area is the box area in the units of the box.
func (b BoundingBox) Area() float64 {
	return b.Width * b.Height
}
