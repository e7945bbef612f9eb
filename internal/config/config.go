package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StoreFile     = "file"
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	ProviderDeepFace = "deepface"
	ProviderMock     = "mock"
	ProviderDlib     = "dlib"

	DetectorNone        = "none"
	DetectorRekognition = "rekognition"

	// rekognitionMaxUploadBytes is the inline image limit of DetectFaces.
	rekognitionMaxUploadBytes = 5 << 20
)

type Config struct {
	// Server
	Port             int           `envconfig:"PORT" default:"3000"`
	Environment      string        `envconfig:"ENV" default:"development"`
	CORSAllowOrigins string        `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
	ShutdownTimeout  time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Uploads
	MaxUploadBytes int `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`

	// IdentifyRateLimit is the per-IP request budget per minute on the
	// check-user and clock endpoints; 0 disables limiting.
	IdentifyRateLimit int `envconfig:"IDENTIFY_RATE_LIMIT" default:"60"`

	// Storage
	ProfileStore string `envconfig:"PROFILE_STORE" default:"file"`
	ProfileDir   string `envconfig:"PROFILE_DIR" default:"./db"`
	DatabaseURL  string `envconfig:"DATABASE_URL"`
	AutoMigrate  bool   `envconfig:"AUTO_MIGRATE" default:"true"`
	EventLogPath string `envconfig:"EVENT_LOG_PATH" default:"./log.txt"`

	// Provider
	FaceProvider     string        `envconfig:"FACE_PROVIDER" default:"deepface"`
	DeepFaceURL      string        `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`
	DeepFaceModel    string        `envconfig:"DEEPFACE_MODEL" default:"Dlib"`
	DeepFaceDetector string        `envconfig:"DEEPFACE_DETECTOR" default:"opencv"`
	DeepFaceTimeout  time.Duration `envconfig:"DEEPFACE_TIMEOUT" default:"30s"`
	DeepFaceRetries  int           `envconfig:"DEEPFACE_RETRIES" default:"3"`
	DlibModelsDir    string        `envconfig:"DLIB_MODELS_DIR" default:"./models"`

	// Optional face-count gate in front of the provider
	FaceDetector             string  `envconfig:"FACE_DETECTOR" default:"none"`
	AWSRegion                string  `envconfig:"AWS_REGION" default:"us-east-1"`
	RekognitionMinConfidence float64 `envconfig:"REKOGNITION_MIN_CONFIDENCE" default:"90"`

	// Matching
	MatchThreshold      float64 `envconfig:"MATCH_THRESHOLD" default:"0.6"`
	RejectMultipleFaces bool    `envconfig:"REJECT_MULTIPLE_FACES" default:"false"`

	// Outbound event notifications; disabled when WebhookURL is empty
	WebhookURL         string `envconfig:"WEBHOOK_URL"`
	WebhookSecret      string `envconfig:"WEBHOOK_SECRET"`
	WebhookMaxAttempts int    `envconfig:"WEBHOOK_MAX_ATTEMPTS" default:"5"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects values envconfig accepts but the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}

	switch c.ProfileStore {
	case StoreFile:
		if c.ProfileDir == "" {
			errs = append(errs, errors.New("PROFILE_DIR is required for the file store"))
		}
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown PROFILE_STORE %q (supported: %s, %s, %s)",
			c.ProfileStore, StoreFile, StoreMemory, StorePostgres))
	}

	switch c.FaceProvider {
	case ProviderDeepFace:
		if c.DeepFaceURL == "" {
			errs = append(errs, errors.New("DEEPFACE_URL is required for the deepface provider"))
		}
	case ProviderMock, ProviderDlib:
	default:
		errs = append(errs, fmt.Errorf("unknown FACE_PROVIDER %q (supported: %s, %s, %s)",
			c.FaceProvider, ProviderDeepFace, ProviderMock, ProviderDlib))
	}

	switch c.FaceDetector {
	case DetectorNone, "":
	case DetectorRekognition:
		if c.AWSRegion == "" {
			errs = append(errs, errors.New("AWS_REGION is required for the rekognition detector"))
		}
		if c.MaxUploadBytes > rekognitionMaxUploadBytes {
			errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES %d exceeds the rekognition detector limit of %d",
				c.MaxUploadBytes, rekognitionMaxUploadBytes))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown FACE_DETECTOR %q (supported: %s, %s)",
			c.FaceDetector, DetectorNone, DetectorRekognition))
	}

	if c.MatchThreshold <= 0 || c.MatchThreshold >= 1 {
		errs = append(errs, fmt.Errorf("MATCH_THRESHOLD %v must be between 0 and 1", c.MatchThreshold))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	if c.IdentifyRateLimit < 0 {
		errs = append(errs, errors.New("IDENTIFY_RATE_LIMIT must not be negative"))
	}

	if c.WebhookURL != "" {
		if u, err := url.ParseRequestURI(c.WebhookURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("WEBHOOK_URL %q must be an http(s) URL", c.WebhookURL))
		}
		if c.WebhookMaxAttempts <= 0 {
			errs = append(errs, errors.New("WEBHOOK_MAX_ATTEMPTS must be positive"))
		}
	}

	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
