package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// partIDPattern admits both identifier families: serial-suffixed parts
	// and Snap coordinates. Semantic checks happen in the engine; this layer
	// only keeps junk out of it.
	partIDPattern = regexp.MustCompile(`^([A-Z]{3}\d{5}P[12]|SNAP\d+[A-Z]\d{2})$`)

	// antennaBasePattern matches an antenna base like ANT00001.
	antennaBasePattern = regexp.MustCompile(`^ANT\d{5}$`)
)

func init() {
	validate = validator.New()
	validate.RegisterValidation("partid", func(fl validator.FieldLevel) bool {
		return partIDPattern.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("antennabase", func(fl validator.FieldLevel) bool {
		return antennaBasePattern.MatchString(fl.Field().String())
	})
}

// ConnectionRequest is the API payload proposing a wiring event.
type ConnectionRequest struct {
	SourceID   string    `json:"sourceId" validate:"required,partid"`
	SourcePol  string    `json:"sourcePol" validate:"omitempty,oneof=P1 P2"`
	SourceTime time.Time `json:"sourceTime" validate:"required"`
	TargetID   string    `json:"targetId" validate:"required,partid"`
	TargetPol  string    `json:"targetPol" validate:"omitempty,oneof=P1 P2"`
	TargetTime time.Time `json:"targetTime" validate:"required"`
}

// DisconnectionRequest is the API payload proposing an unwiring event.
type DisconnectionRequest struct {
	SourceID string `json:"sourceId" validate:"required,partid"`
	TargetID string `json:"targetId" validate:"required,partid"`
}

// ValidateConnectionRequest validates a connection proposal payload
func ValidateConnectionRequest(req *ConnectionRequest) error {
	if req == nil {
		return errors.New("connection request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateDisconnectionRequest validates a disconnection proposal payload
func ValidateDisconnectionRequest(req *DisconnectionRequest) error {
	if req == nil {
		return errors.New("disconnection request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidatePartID validates a bare part identifier from a URL path.
func ValidatePartID(id string) error {
	if !partIDPattern.MatchString(id) {
		return fmt.Errorf("invalid part identifier: %q", id)
	}
	return nil
}

// ValidateAntennaBase validates an antenna base identifier from a URL path.
func ValidateAntennaBase(id string) error {
	if !antennaBasePattern.MatchString(id) {
		return fmt.Errorf("invalid antenna base identifier: %q", id)
	}
	return nil
}

// formatValidationError converts validator errors to readable messages
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	var messages []string
	for _, fieldErr := range validationErrors {
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s: field is required", fieldErr.Field()))
		case "partid":
			messages = append(messages, fmt.Sprintf("%s: not a valid part identifier", fieldErr.Field()))
		case "antennabase":
			messages = append(messages, fmt.Sprintf("%s: not a valid antenna base identifier", fieldErr.Field()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s: must be one of %s", fieldErr.Field(), fieldErr.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s: failed %s validation", fieldErr.Field(), fieldErr.Tag()))
		}
	}
	return errors.New(strings.Join(messages, "; "))
}
