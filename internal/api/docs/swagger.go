package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// RegisterFaceResponse represents the response for a successful registration
type RegisterFaceResponse struct {
	Registered bool   `json:"registered" example:"true"`
	Name       string `json:"name" example:"alice"`
	Message    string `json:"message" example:"User was registered successfully!"`
}

// UpdateFaceResponse represents the response for a successful update
type UpdateFaceResponse struct {
	Updated bool   `json:"updated" example:"true"`
	Name    string `json:"name" example:"alice"`
	Message string `json:"message" example:"User alice was updated successfully!"`
}

// DeleteFaceResponse represents the response for a successful deletion
type DeleteFaceResponse struct {
	Deleted bool   `json:"deleted" example:"true"`
	Name    string `json:"name" example:"alice"`
	Message string `json:"message" example:"User alice was deleted successfully!"`
}

// CheckUserResponse represents the response of an identification
type CheckUserResponse struct {
	Recognized bool    `json:"recognized" example:"true"`
	Name       string  `json:"name,omitempty" example:"alice"`
	Score      float64 `json:"score" example:"87.65"`
	Message    string  `json:"message" example:"User alice recognized"`
}

// ClockResponse represents the response of a clock in or clock out
type ClockResponse struct {
	Name    string  `json:"name" example:"alice"`
	Action  string  `json:"action" example:"in"`
	Score   float64 `json:"score" example:"91.2"`
	Time    string  `json:"time" example:"2024-03-01 08:30:00"`
	Message string  `json:"message" example:"Welcome, alice. Time: 2024-03-01 08:30:00"`
}

// ProfilesResponse lists enrolled names
type ProfilesResponse struct {
	Profiles []string `json:"profiles" example:"alice,bob"`
	Count    int      `json:"count" example:"2"`
}

// HealthResponse represents the health and readiness payloads
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message,omitempty" example:"Welcome to the Face Recognition API!"`
	Version string `json:"version,omitempty" example:"1.0.0"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
	Details string `json:"details,omitempty" example:"name is required"`
}

var (
	errValidation = response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "400", "Bad Request")
	errNoFace     = response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected"}, "400", "Bad Request")
	errRateLimit  = response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded, please try again later"}, "429", "Too Many Requests")
	errInternal   = response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error")
	errExtractor  = response.New(ErrorResponse{Code: "EXTRACTOR_UNAVAILABLE", Message: "Face recognition backend unavailable"}, "502", "Bad Gateway")
)

func fileParam() *parameter.Parameter {
	return parameter.FileParam("file", parameter.WithRequired(), parameter.WithDescription("Photo with one face (JPEG, PNG, GIF, WebP, BMP or TIFF)"))
}

func nameParam() *parameter.Parameter {
	return parameter.StrParam("name", parameter.Form, parameter.WithRequired(), parameter.WithDescription("Person name (1-64 letters, digits, spaces, dots, dashes or underscores)"))
}

// NewSwagger builds the OpenAPI document served under /swagger
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "PontoFace API",
		Version:     "v1.0.0",
		Description: "Face recognition time clock: enroll people by photo and clock them in and out",
		Host:        "localhost:3000",
		Path:        "/",
	})

	multipart := []mime.MIME{mime.MIME("multipart/form-data")}
	jsonOnly := []mime.MIME{mime.JSON}

	endpoints := []*endpoint.EndPoint{
		endpoint.New(
			endpoint.POST,
			"/register-face",
			endpoint.WithTags("Profiles"),
			endpoint.WithSummary("Register a new person"),
			endpoint.WithDescription("Extracts the face embedding from the photo and stores it under the given name"),
			endpoint.WithConsume(multipart),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithParams(fileParam(), nameParam()),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RegisterFaceResponse{}, "200", "Person registered"),
			}),
			endpoint.WithErrors([]response.Response{
				errValidation,
				errNoFace,
				response.New(ErrorResponse{Code: "PROFILE_EXISTS", Message: "User with this name already exists"}, "409", "Conflict"),
				errInternal,
				errExtractor,
			}),
		),

		endpoint.New(
			endpoint.POST,
			"/update-face",
			endpoint.WithTags("Profiles"),
			endpoint.WithSummary("Replace the face of a registered person"),
			endpoint.WithConsume(multipart),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithParams(fileParam(), nameParam()),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(UpdateFaceResponse{}, "200", "Face updated"),
			}),
			endpoint.WithErrors([]response.Response{
				errValidation,
				errNoFace,
				response.New(ErrorResponse{Code: "PROFILE_NOT_FOUND", Message: "User not found"}, "404", "Not Found"),
				errInternal,
				errExtractor,
			}),
		),

		endpoint.New(
			endpoint.POST,
			"/delete-face",
			endpoint.WithTags("Profiles"),
			endpoint.WithSummary("Delete a registered person"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("application/x-www-form-urlencoded"), mime.MIME("multipart/form-data")}),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithParams(nameParam()),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DeleteFaceResponse{}, "200", "Person deleted"),
			}),
			endpoint.WithErrors([]response.Response{
				errValidation,
				response.New(ErrorResponse{Code: "PROFILE_NOT_FOUND", Message: "User not found"}, "404", "Not Found"),
				errInternal,
			}),
		),

		endpoint.New(
			endpoint.POST,
			"/check-user",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Identify the person in a photo"),
			endpoint.WithDescription("Matches the face against every registered person. Unknown faces return 404 with recognized=false"),
			endpoint.WithConsume(multipart),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithParams(fileParam()),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CheckUserResponse{}, "200", "Person recognized"),
			}),
			endpoint.WithErrors([]response.Response{
				errValidation,
				errNoFace,
				response.New(CheckUserResponse{Recognized: false, Message: "Unknown user. Please register new user or try again."}, "404", "Unknown person"),
				errRateLimit,
				errInternal,
				errExtractor,
			}),
		),

		endpoint.New(
			endpoint.POST,
			"/clockin",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Clock in"),
			endpoint.WithDescription("Identifies the person and appends an \"in\" entry to the attendance log"),
			endpoint.WithConsume(multipart),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithParams(fileParam()),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ClockResponse{}, "200", "Clocked in"),
			}),
			endpoint.WithErrors([]response.Response{
				errValidation,
				errNoFace,
				response.New(ErrorResponse{Code: "UNKNOWN_USER", Message: "Unknown user. Please register new user or try again."}, "400", "Unknown person"),
				errRateLimit,
				errInternal,
				errExtractor,
			}),
		),

		endpoint.New(
			endpoint.POST,
			"/clockout",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Clock out"),
			endpoint.WithDescription("Identifies the person and appends an \"out\" entry to the attendance log"),
			endpoint.WithConsume(multipart),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithParams(fileParam()),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ClockResponse{Action: "out"}, "200", "Clocked out"),
			}),
			endpoint.WithErrors([]response.Response{
				errValidation,
				errNoFace,
				response.New(ErrorResponse{Code: "UNKNOWN_USER", Message: "Unknown user. Please register new user or try again."}, "400", "Unknown person"),
				errRateLimit,
				errInternal,
				errExtractor,
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/profiles",
			endpoint.WithTags("Profiles"),
			endpoint.WithSummary("List registered people"),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ProfilesResponse{}, "200", "Names in lexical order"),
			}),
			endpoint.WithErrors([]response.Response{errInternal}),
		),

		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Liveness probe"),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is up"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness probe"),
			endpoint.WithDescription("Checks that the profile store is reachable"),
			endpoint.WithProduce(jsonOnly),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{Status: "ready"}, "200", "Ready to serve"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(HealthResponse{Status: "unavailable"}, "503", "Profile store unreachable"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
