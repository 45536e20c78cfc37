package cache

import (
	"reflect"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec turns read results into the opaque bytes stored in the cache.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type msgpackCodec struct{}

// NewMsgpackCodec returns the default codec. Decoded timestamps are in UTC,
// matching what the stores return, since msgpack restores them in the local
// zone.
func NewMsgpackCodec() Codec {
	return msgpackCodec{}
}

func (msgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (msgpackCodec) Unmarshal(data []byte, v any) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return err
	}
	toUTC(reflect.ValueOf(v))
	return nil
}

var timeType = reflect.TypeOf(time.Time{})

// toUTC rewrites every settable time.Time reachable from v through pointers,
// structs, slices and arrays.
func toUTC(v reflect.Value) {
	switch v.Kind() {
	case reflect.Pointer:
		if !v.IsNil() {
			toUTC(v.Elem())
		}
	case reflect.Struct:
		if v.Type() == timeType {
			if v.CanSet() {
				v.Set(reflect.ValueOf(v.Interface().(time.Time).UTC()))
			}
			return
		}
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				toUTC(v.Field(i))
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			toUTC(v.Index(i))
		}
	}
}
