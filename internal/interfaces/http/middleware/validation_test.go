package middleware

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	SupplierName string  `json:"supplier_name" binding:"required,max=100"`
	QuantityKg   float64 `json:"quantity_kg" binding:"required,gt=0"`
}

func TestSetupValidator_UsesJSONFieldNames(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	err := v.Struct(sampleRequest{})
	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)

	fields := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, e.Field())
	}
	assert.Contains(t, fields, "supplier_name")
	assert.Contains(t, fields, "quantity_kg")
}

func TestFormatBindingError(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	t.Run("validator errors flattened per field", func(t *testing.T) {
		err := v.Struct(sampleRequest{SupplierName: "West Ridge", QuantityKg: -3})
		require.Error(t, err)

		msg := FormatBindingError(err)
		assert.Contains(t, msg, "quantity_kg")
		assert.Contains(t, msg, "greater than 0")
	})

	t.Run("non-validator errors pass through", func(t *testing.T) {
		err := errors.New("unexpected EOF")
		assert.Equal(t, "unexpected EOF", FormatBindingError(err))
	})
}
