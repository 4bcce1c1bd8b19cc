package router

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/vango-dev/vroute/internal/errors"
)

// ParamDecoder fills struct fields from string parameters.
//
// Fields are selected with a `param` tag. The tag option "required" makes
// a missing key an error:
//
//	type UserParams struct {
//	    ID   int      `param:"id,required"`
//	    Tab  string   `param:"tab"`
//	    Path []string `param:"rest"` // "a/b/c" → ["a", "b", "c"]
//	}
type ParamDecoder struct{}

// NewParamDecoder creates a parameter decoder.
func NewParamDecoder() *ParamDecoder {
	return &ParamDecoder{}
}

// Decode populates target, a pointer to a struct, from params.
func (d *ParamDecoder) Decode(params map[string]string, target any) error {
	if target == nil {
		return nil
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer, got %s", v.Kind())
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct, got pointer to %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("param")
		if tag == "" || tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		value, ok := params[name]
		if !ok {
			if opts == "required" {
				return errors.New(errors.CodeInvalidParam).
					WithInput(name).
					WithDetail("missing required parameter " + strconv.Quote(name))
			}
			continue
		}

		fieldValue := v.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		if err := setField(fieldValue, value); err != nil {
			return errors.New(errors.CodeInvalidParam).
				WithInput(value).
				WithDetail(fmt.Sprintf("parameter %q: %v", name, err))
		}
	}

	return nil
}

// setField sets a field value from a string.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float: %s", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type: %s", field.Type().Elem().Kind())
		}
		// Wildcard params: "a/b/c" → ["a", "b", "c"]
		var parts []string
		if value != "" {
			parts = strings.Split(value, "/")
		}
		field.Set(reflect.ValueOf(parts))

	case reflect.Ptr:
		elem := reflect.New(field.Type().Elem())
		if err := setField(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)

	default:
		return fmt.Errorf("unsupported type: %s", field.Kind())
	}

	return nil
}

var defaultDecoder = NewParamDecoder()

// DecodeParams decodes the route's current params into target.
// Tracked: every param is subscribed to.
func (rt *Route) DecodeParams(target any) error {
	return defaultDecoder.Decode(rt.params.Snapshot(), target)
}

// DecodeQuery decodes the router's current query into target.
// Tracked: every query key is subscribed to.
func (r *Router) DecodeQuery(target any) error {
	return defaultDecoder.Decode(r.query.Snapshot(), target)
}
