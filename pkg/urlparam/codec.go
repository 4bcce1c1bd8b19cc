package urlparam

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// encode converts value to query params. Keys mapped to "" are removed
// from the query.
func (p *Param[T]) encode(value T) map[string]string {
	result := make(map[string]string)

	switch p.config.encoding {
	case EncodingFlat:
		p.encodeFlat(value, result)
	case EncodingJSON:
		p.encodeJSON(value, result)
	case EncodingComma:
		p.encodeComma(value, result)
	default:
		if reflect.DeepEqual(value, p.defaults) {
			result[p.key] = ""
		} else {
			result[p.key] = formatValue(reflect.ValueOf(value))
		}
	}

	return result
}

// encodeFlat serializes a struct as flat params. Zero fields are removed.
func (p *Param[T]) encodeFlat(value T, result map[string]string) {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		result[p.key] = formatValue(v)
		return
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key := fieldKey(field)
		if key == "-" || !field.IsExported() {
			continue
		}

		fieldValue := v.Field(i)
		if fieldValue.IsZero() {
			result[key] = ""
			continue
		}
		result[key] = formatValue(fieldValue)
	}
}

// encodeJSON serializes as base64-encoded JSON.
func (p *Param[T]) encodeJSON(value T, result map[string]string) {
	if reflect.DeepEqual(value, p.defaults) {
		result[p.key] = ""
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		result[p.key] = ""
		return
	}
	result[p.key] = base64.RawURLEncoding.EncodeToString(data)
}

// encodeComma serializes slices as comma-separated values.
func (p *Param[T]) encodeComma(value T, result map[string]string) {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		result[p.key] = formatValue(v)
		return
	}

	parts := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		parts = append(parts, formatValue(v.Index(i)))
	}
	result[p.key] = strings.Join(parts, ",")
}

// decode builds a value from the keys lookup returns.
func (p *Param[T]) decode(lookup func(string) (string, bool)) (T, error) {
	switch p.config.encoding {
	case EncodingFlat:
		return p.decodeFlat(lookup)
	case EncodingJSON:
		return p.decodeJSON(lookup)
	case EncodingComma:
		return p.decodeComma(lookup)
	default:
		if val, ok := lookup(p.key); ok {
			return p.parseValue(val)
		}
		return p.defaults, nil
	}
}

// decodeFlat fills a copy of the default struct from flat params.
func (p *Param[T]) decodeFlat(lookup func(string) (string, bool)) (T, error) {
	result := p.defaults
	v := reflect.ValueOf(&result).Elem()

	if v.Kind() != reflect.Struct {
		if val, ok := lookup(p.key); ok {
			return p.parseValue(val)
		}
		return result, nil
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		key := fieldKey(field)
		if key == "-" {
			continue
		}
		if val, ok := lookup(key); ok {
			if err := setFieldValue(fieldValue, val); err != nil {
				return p.defaults, fmt.Errorf("urlparam: %s: %w", key, err)
			}
		}
	}

	return result, nil
}

// decodeJSON deserializes base64-encoded JSON.
func (p *Param[T]) decodeJSON(lookup func(string) (string, bool)) (T, error) {
	val, ok := lookup(p.key)
	if !ok || val == "" {
		return p.defaults, nil
	}

	data, err := base64.RawURLEncoding.DecodeString(val)
	if err != nil {
		return p.defaults, err
	}

	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return p.defaults, err
	}
	return result, nil
}

// decodeComma deserializes comma-separated values into a slice.
func (p *Param[T]) decodeComma(lookup func(string) (string, bool)) (T, error) {
	var result T

	val, ok := lookup(p.key)
	if !ok || val == "" {
		return p.defaults, nil
	}

	v := reflect.ValueOf(&result).Elem()
	if v.Kind() != reflect.Slice {
		return p.defaults, fmt.Errorf("urlparam: comma encoding requires slice type")
	}

	parts := strings.Split(val, ",")
	slice := reflect.MakeSlice(v.Type(), len(parts), len(parts))
	for i, part := range parts {
		if err := setFieldValue(slice.Index(i), part); err != nil {
			return p.defaults, err
		}
	}

	v.Set(slice)
	return result, nil
}

// parseValue parses a string into the value type T.
func (p *Param[T]) parseValue(s string) (T, error) {
	var result T
	v := reflect.ValueOf(&result).Elem()
	if err := setFieldValue(v, s); err != nil {
		return p.defaults, err
	}
	return result, nil
}

// fieldKey returns the url tag or the lower-cased field name.
func fieldKey(field reflect.StructField) string {
	key := field.Tag.Get("url")
	if key == "" {
		key = field.Name
	}
	return strings.ToLower(key)
}

func formatValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Invalid:
		return ""
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

func setFieldValue(v reflect.Value, s string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(i)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	default:
		return fmt.Errorf("unsupported type: %v", v.Kind())
	}
	return nil
}
