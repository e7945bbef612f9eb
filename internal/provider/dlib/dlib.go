//go:build dlib

// Package dlib extracts embeddings in-process with the dlib ResNet model via
// go-face. It needs cgo, libdlib and the model files
// (shape_predictor_5_face_landmarks.dat, dlib_face_recognition_resnet_model_v1.dat,
// mmod_human_face_detector.dat) in the models directory.
package dlib

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"net/http"
	"sync"

	"github.com/Kagami/go-face"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/imaging"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/provider"
)

// Provider wraps a go-face recognizer. The recognizer is not safe for
// concurrent use, so calls are serialized.
type Provider struct {
	mu  sync.Mutex
	rec *face.Recognizer
}

func NewProvider(modelsDir string) (*Provider, error) {
	rec, err := face.NewRecognizer(modelsDir)
	if err != nil {
		return nil, fmt.Errorf("load dlib models from %s: %w", modelsDir, err)
	}
	return &Provider{rec: rec}, nil
}

func (p *Provider) Name() string {
	return "dlib"
}

func (p *Provider) ExtractFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := asJPEG(image)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	p.mu.Lock()
	found, err := p.rec.Recognize(data)
	p.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}

	faces := make([]provider.DetectedFace, 0, len(found))
	for _, f := range found {
		embedding := make([]float64, len(f.Descriptor))
		for i, v := range f.Descriptor {
			embedding[i] = float64(v)
		}

		r := f.Rectangle
		faces = append(faces, provider.DetectedFace{
			BoundingBox: provider.BoundingBox{
				X:      float64(r.Min.X),
				Y:      float64(r.Min.Y),
				Width:  float64(r.Dx()),
				Height: float64(r.Dy()),
			},
			Confidence: 1,
			Embedding:  embedding,
		})
	}
	return faces, nil
}

func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rec.Close()
}

// asJPEG re-encodes non-JPEG uploads, since go-face only decodes JPEG.
func asJPEG(data []byte) ([]byte, error) {
	if http.DetectContentType(data) == "image/jpeg" {
		return data, nil
	}

	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

var _ provider.FaceProvider = (*Provider)(nil)
