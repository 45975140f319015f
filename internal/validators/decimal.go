package validators

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterDecimal lets numeric tags (gt, gte, lte...) run against
// decimal.Decimal fields.
func RegisterDecimal(v *validator.Validate) {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})
}

// Setup installs the custom validations on gin's binding engine.
func Setup() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterDecimal(v)
	}
}

func decimalValue(field reflect.Value) interface{} {
	switch d := field.Interface().(type) {
	case decimal.Decimal:
		f, _ := d.Float64()
		return f
	case decimal.NullDecimal:
		if !d.Valid {
			return nil
		}
		f, _ := d.Decimal.Float64()
		return f
	}
	return nil
}
