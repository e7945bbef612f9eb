package face

import (
	"context"
	"errors"
	"fmt"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/config"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/provider"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/provider/rekognition"
)

// ErrDlibUnavailable is returned when FACE_PROVIDER=dlib but the binary was
// built without the dlib tag.
var ErrDlibUnavailable = errors.New("dlib provider not compiled in (build with -tags dlib)")

// newDlibProvider is replaced by dlib.go when built with the dlib tag.
var newDlibProvider = func(string) (provider.FaceProvider, error) {
	return nil, ErrDlibUnavailable
}

// NewFaceProvider creates the embedding provider selected by configuration,
// optionally behind a Rekognition face-count gate.
//
// Environment variables:
//   - FACE_PROVIDER: "deepface", "mock" or "dlib" (default: "deepface")
//   - DEEPFACE_URL, DEEPFACE_MODEL, DEEPFACE_DETECTOR: DeepFace service settings
//   - DLIB_MODELS_DIR: directory with the dlib model files
//   - FACE_DETECTOR: "none" or "rekognition"
//   - AWS_REGION: AWS region for Rekognition (credentials via the AWS SDK chain)
func NewFaceProvider(ctx context.Context, cfg *config.Config) (provider.FaceProvider, error) {
	var (
		prov provider.FaceProvider
		err  error
	)

	switch cfg.FaceProvider {
	case config.ProviderDeepFace, "":
		prov = createDeepFaceProvider(cfg)
	case config.ProviderMock:
		prov = mock.New()
	case config.ProviderDlib:
		prov, err = newDlibProvider(cfg.DlibModelsDir)
		if err != nil {
			return nil, fmt.Errorf("create dlib provider: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
			cfg.FaceProvider, config.ProviderDeepFace, config.ProviderMock, config.ProviderDlib)
	}

	switch cfg.FaceDetector {
	case config.DetectorNone, "":
		return prov, nil
	case config.DetectorRekognition:
		detector, err := rekognition.NewDetector(ctx, rekognition.Config{
			Region:        cfg.AWSRegion,
			MinConfidence: cfg.RekognitionMinConfidence,
		})
		if err != nil {
			return nil, fmt.Errorf("create rekognition detector: %w", err)
		}
		return NewGatedProvider(detector, prov), nil
	default:
		return nil, fmt.Errorf("unknown face detector: %s (supported: %s, %s)",
			cfg.FaceDetector, config.DetectorNone, config.DetectorRekognition)
	}
}

// createDeepFaceProvider creates a DeepFace provider instance
func createDeepFaceProvider(cfg *config.Config) provider.FaceProvider {
	deepfaceConfig := deepface.DefaultConfig()

	if cfg.DeepFaceURL != "" {
		deepfaceConfig.BaseURL = cfg.DeepFaceURL
	}
	if cfg.DeepFaceModel != "" {
		deepfaceConfig.Model = cfg.DeepFaceModel
	}
	if cfg.DeepFaceDetector != "" {
		deepfaceConfig.Detector = cfg.DeepFaceDetector
	}
	if cfg.DeepFaceTimeout > 0 {
		deepfaceConfig.Timeout = cfg.DeepFaceTimeout
	}
	if cfg.DeepFaceRetries > 0 {
		deepfaceConfig.RetryCount = cfg.DeepFaceRetries
	}

	return deepface.NewProvider(deepfaceConfig)
}
