package config

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/kubev2v/parallel-queue/pkg/pq"
)

// Load overlays the values known to v on top of the defaults.
func Load(v *viper.Viper) (*Configuration, error) {
	cfg := NewConfigurationWithOptionsAndDefaults()
	if err := v.Unmarshal(cfg, viper.DecodeHook(DecodeHook())); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DecodeHook decodes pq.Duration from strings and from plain numbers of
// milliseconds, and time.Duration from strings.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		durationFromNumber,
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	)
}

var durationType = reflect.TypeOf(pq.Duration{})

func durationFromNumber(from, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return pq.FromMilliseconds(reflect.ValueOf(data).Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return pq.FromMilliseconds(int64(reflect.ValueOf(data).Uint())), nil
	case reflect.Float32, reflect.Float64:
		return pq.FromMilliseconds(int64(reflect.ValueOf(data).Float())), nil
	default:
		return data, nil
	}
}
