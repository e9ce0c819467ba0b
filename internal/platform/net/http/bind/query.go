// Package bind decodes and validates request input for handlers
package bind

import (
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	perr "steakfeed/internal/platform/errors"
	"steakfeed/internal/platform/validate"
)

// Query decodes the URL query of r into a T and validates it.
// Fields are matched by their `query` tag; a `default` tag fills absent keys.
// Supported kinds are string, bool, and the signed and unsigned integers
func Query[T any](r *http.Request) (T, error) {
	var out T
	rv := reflect.ValueOf(&out).Elem()
	if rv.Kind() != reflect.Struct {
		return out, perr.Newf(perr.ErrorCodeUnknown, "bind: query target %T is not a struct", out)
	}
	if err := decode(rv, r.URL.Query()); err != nil {
		return out, err
	}
	if err := validate.Struct(out); err != nil {
		return out, err
	}
	return out, nil
}

func decode(rv reflect.Value, q url.Values) error {
	rt := rv.Type()
	for i := range rt.NumField() {
		f := rt.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("query"), ",")
		if name == "" || name == "-" || !f.IsExported() {
			continue
		}
		raw, ok := q.Get(name), q.Has(name)
		if !ok {
			def, has := f.Tag.Lookup("default")
			if !has {
				continue
			}
			raw = def
		}
		if err := set(rv.Field(i), strings.TrimSpace(raw)); err != nil {
			return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s must be a valid %s", name, f.Type.Kind()), name)
		}
	}
	return nil
}

func set(v reflect.Value, raw string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
	default:
		return perr.Newf(perr.ErrorCodeUnknown, "bind: unsupported kind %s", v.Kind())
	}
	return nil
}
