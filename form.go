package pdfkiwi

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
)

// renderForm builds the form body of a render request. Options are
// flattened with bracket notation: options[a]=1, options[b][c]=2, options[d][0]=3.
func renderForm(email, token, html string, opts Options) url.Values {
	form := url.Values{}
	form.Set("email", email)
	form.Set("token", token)
	form.Set("html", html)

	if len(opts) > 0 {
		appendField(form, "options", opts)
	}

	return form
}

func appendField(form url.Values, key string, v interface{}) {
	if v == nil {
		form.Add(key, "")
		return
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			form.Add(key, "")
			return
		}
		appendField(form, key, rv.Elem().Interface())
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		values := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := fmt.Sprint(iter.Key().Interface())
			keys = append(keys, k)
			values[k] = iter.Value().Interface()
		}
		sort.Strings(keys)

		for _, k := range keys {
			appendField(form, key+"["+k+"]", values[k])
		}
	case reflect.Slice, reflect.Array:
		if b, ok := v.([]byte); ok {
			form.Add(key, string(b))
			return
		}
		for i := 0; i < rv.Len(); i++ {
			appendField(form, key+"["+strconv.Itoa(i)+"]", rv.Index(i).Interface())
		}
	case reflect.String:
		form.Add(key, rv.String())
	case reflect.Bool:
		form.Add(key, strconv.FormatBool(rv.Bool()))
	case reflect.Float32, reflect.Float64:
		form.Add(key, formatNumber(rv.Float(), rv.Type().Bits()))
	default:
		form.Add(key, fmt.Sprint(v))
	}
}
