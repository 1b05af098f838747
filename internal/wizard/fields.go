package wizard

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"paggie/trainer-app/internal/domain"
)

var (
	fieldCache sync.Map // reflect.Type -> map[string]int
	numberType = reflect.TypeOf(domain.Number{})
)

// jsonFields maps the json names of a struct's fields to their index.
func jsonFields(t reflect.Type) map[string]int {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(map[string]int)
	}
	m := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		m[name] = i
	}
	fieldCache.Store(t, m)
	return m
}

func lookupField(dst any, name string) (reflect.Value, error) {
	v := reflect.ValueOf(dst).Elem()
	idx, ok := jsonFields(v.Type())[name]
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return v.Field(idx), nil
}

// setTextField assigns value to the text field named by its json tag.
// Only that field is touched.
func setTextField(dst any, name, value string) error {
	f, err := lookupField(dst, name)
	if err != nil {
		return err
	}
	if f.Kind() != reflect.String {
		return fmt.Errorf("%w: %q is not a text field", ErrUnknownField, name)
	}
	f.SetString(value)
	return nil
}

// setNumberField assigns value to the numeric field named by its json tag.
func setNumberField(dst any, name string, value domain.Number) error {
	f, err := lookupField(dst, name)
	if err != nil {
		return err
	}
	if f.Type() != numberType {
		return fmt.Errorf("%w: %q is not a numeric field", ErrUnknownField, name)
	}
	f.Set(reflect.ValueOf(value))
	return nil
}

// textFieldValue reads a text field by json name.
func textFieldValue(src any, name string) (string, bool) {
	v := reflect.ValueOf(src)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	idx, ok := jsonFields(v.Type())[name]
	if !ok || v.Field(idx).Kind() != reflect.String {
		return "", false
	}
	return v.Field(idx).String(), true
}
