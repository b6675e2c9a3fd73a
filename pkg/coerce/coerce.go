package coerce

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// Fields copies loosely typed values from src onto the struct dest points to, matching keys by json
// tag. Strings, numbers and booleans convert into each other where cast allows it. Absent and null
// keys leave the field untouched, and so does a value that cannot be converted; the keys of those
// values are returned in field order.
func Fields(src map[string]any, dest any) ([]string, error) {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("coerce: destination must be a non-nil struct pointer, got %T", dest)
	}

	target := rv.Elem()
	var rejected []string
	for i := 0; i < target.NumField(); i++ {
		field := target.Type().Field(i)
		if !field.IsExported() {
			continue
		}
		name := jsonName(field)
		if name == "" {
			continue
		}
		value, ok := src[name]
		if !ok || value == nil {
			continue
		}
		if err := assign(target.Field(i), value); err != nil {
			rejected = append(rejected, name)
		}
	}
	return rejected, nil
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

func assign(field reflect.Value, value any) error {
	if field.Kind() == reflect.Pointer {
		elem := reflect.New(field.Type().Elem())
		if err := assign(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		s, err := cast.ToStringE(value)
		if err != nil {
			return err
		}
		field.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := cast.ToInt64E(value)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(value)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("coerce: unsupported field kind %s", field.Kind())
	}
	return nil
}
