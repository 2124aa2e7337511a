package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Flatten returns cfg as dotted koanf keys, the same keys a config file
// or AAAMESH_* variable would set. Durations print as "5s".
func Flatten(cfg *NodeConfig) map[string]string {
	out := make(map[string]string)
	flatten(reflect.ValueOf(cfg).Elem(), "", out)
	return out
}

var durationType = reflect.TypeOf(time.Duration(0))

func flatten(v reflect.Value, prefix string, out map[string]string) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key := field.Tag.Get("koanf")
		if key == "" || key == "-" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}

		fv := v.Field(i)
		switch {
		case fv.Type() == durationType:
			out[key] = time.Duration(fv.Int()).String()
		case fv.Kind() == reflect.Struct:
			flatten(fv, key, out)
		case fv.Kind() == reflect.Slice:
			parts := make([]string, fv.Len())
			for j := range parts {
				parts[j] = fmt.Sprint(fv.Index(j).Interface())
			}
			out[key] = strings.Join(parts, ",")
		default:
			out[key] = fmt.Sprint(fv.Interface())
		}
	}
}
