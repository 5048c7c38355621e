package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrMissingField is wrapped by a ParseError when a required field is absent.
var ErrMissingField = errors.New("missing required field")

// ParseError reports a catalog record that could not be turned into a Product.
// Index is -1 when the payload as a whole is malformed.
type ParseError struct {
	Index int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("parse catalog: %v", e.Err)
	case e.Field != "":
		return fmt.Sprintf("parse product #%d: %s: %v", e.Index, e.Field, e.Err)
	default:
		return fmt.Sprintf("parse product #%d: %v", e.Index, e.Err)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// productRecord mirrors the remote JSON shape. Pointers distinguish absent
// fields from zero values.
type productRecord struct {
	ID          *int64           `json:"id" validate:"required"`
	Title       string           `json:"title"`
	Price       *decimal.Decimal `json:"price"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NewProduct builds a Product, rejecting negative prices.
func NewProduct(id int64, title string, price decimal.Decimal, description, image string) (domain.Product, error) {
	if price.IsNegative() {
		return domain.Product{}, domain.ErrNegativePrice
	}
	return domain.Product{
		ID:          domain.ProductID(id),
		Title:       title,
		Price:       price,
		Description: description,
		Image:       image,
	}, nil
}

// ParseProducts decodes a JSON array of catalog records. Records that fail to
// parse are skipped and reported through the returned error, which joins one
// *ParseError per bad record; the well-formed products are still returned.
// A payload that is not a JSON array yields no products and a single
// *ParseError with Index -1.
func ParseProducts(data []byte) ([]domain.Product, error) {
	var raw []jsoniter.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Index: -1, Err: err}
	}

	products := make([]domain.Product, 0, len(raw))
	var errs []error
	for i, msg := range raw {
		p, err := parseRecord(i, msg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		products = append(products, p)
	}
	return products, errors.Join(errs...)
}

func parseRecord(index int, msg []byte) (domain.Product, error) {
	var rec productRecord
	if err := json.Unmarshal(msg, &rec); err != nil {
		return domain.Product{}, &ParseError{Index: index, Err: err}
	}
	if err := validate.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.Product{}, &ParseError{Index: index, Field: verrs[0].Field(), Err: ErrMissingField}
		}
		return domain.Product{}, &ParseError{Index: index, Err: err}
	}

	price := decimal.Zero
	if rec.Price != nil {
		price = *rec.Price
	}
	p, err := NewProduct(*rec.ID, rec.Title, price, rec.Description, rec.Image)
	if err != nil {
		return domain.Product{}, &ParseError{Index: index, Field: "price", Err: err}
	}
	return p, nil
}
