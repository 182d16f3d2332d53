package sales

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ErrMissingColumn is wrapped by ValidationError.
var ErrMissingColumn = errors.New("required column missing")

// RequiredColumns must be present in any record source schema.
var RequiredColumns = []string{
	"order_id",
	"date_adjusted",
	"total_amount",
	"quantity",
	"quantity_sku",
}

// ValidationError lists the required columns a source did not provide.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumn, strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrMissingColumn
}

// ValidateColumns checks a source schema against RequiredColumns.
func ValidateColumns(columns []string) error {
	missing, _ := lo.Difference(RequiredColumns, columns)
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Missing: missing}
}
