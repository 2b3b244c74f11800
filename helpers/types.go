package helpers

import "reflect"

// Callback is a func that is called after a check passed
type Callback func()

// Typeof resolves the type of $v as a string
func Typeof(v interface{}) string {
	t := reflect.TypeOf(v)

	if t.Kind() == reflect.Ptr {
		return "*" + t.Elem().Name()
	}

	return t.Name()
}
