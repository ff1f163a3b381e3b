package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// bindEnv overrides every field carrying an `env` tag whose variable is set.
// Nested structs are walked; errors name the field by its yaml path.
func bindEnv(target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("env binding needs a pointer to a struct, got %T", target)
	}
	return bindStruct(v.Elem(), "")
}

func bindStruct(v reflect.Value, path string) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		fieldPath := joinPath(path, sf)

		if sf.Type.Kind() == reflect.Struct {
			if err := bindStruct(v.Field(i), fieldPath); err != nil {
				return err
			}
			continue
		}

		name := sf.Tag.Get("env")
		if name == "" {
			continue
		}
		raw, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		if err := assign(v.Field(i), raw); err != nil {
			return fmt.Errorf("%s (from %s): %w", fieldPath, name, err)
		}
	}
	return nil
}

func joinPath(parent string, sf reflect.StructField) string {
	name := strings.Split(sf.Tag.Get("yaml"), ",")[0]
	if name == "" {
		name = strings.ToLower(sf.Name)
	}
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// assign parses raw into the field's type. Slices take comma-separated items.
func assign(field reflect.Value, raw string) error {
	raw = strings.TrimSpace(raw)

	if field.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Slice:
		items := make([]string, 0)
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		out := reflect.MakeSlice(field.Type(), len(items), len(items))
		for i, item := range items {
			if err := assign(out.Index(i), item); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		field.Set(out)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}
