package middleware

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Note      string `json:"note" validate:"max=5"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

func TestValidationDetails(t *testing.T) {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	err := v.Struct(sampleRequest{Note: "too long", Quantity: -1})
	require.Error(t, err)

	details := ValidationDetails(err)
	require.Len(t, details, 3)
	assert.Equal(t, "product_id", details[0].Field)
	assert.Equal(t, "This field is required", details[0].Message)
	assert.Equal(t, "note", details[1].Field)
	assert.Equal(t, "Must be at most 5 characters", details[1].Message)
	assert.Equal(t, "Must be greater than or equal to 0", details[2].Message)
}

func TestValidationDetails_OtherErrors(t *testing.T) {
	assert.Nil(t, ValidationDetails(errors.New("boom")))
}
