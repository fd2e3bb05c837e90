package config

import (
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// IsAllowedOverrideType reports whether a value read from config may replace a default.
func IsAllowedOverrideType(v interface{}) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map:
		return false
	case reflect.Array, reflect.Slice:
		// only override with a list if it has a length
		return reflect.ValueOf(v).Len() > 0
	case reflect.Int, reflect.Bool, reflect.String:
		// "", 0 and false are explicit; config structs use omitempty
		return true
	}
	return !reflect.ValueOf(v).IsZero()
}

func IsMap(v interface{}) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Map
}

// RecursiveOverride merges overrides into defaults in place.
func RecursiveOverride(defaults map[string]interface{}, overrides map[string]interface{}) {
	for key, val := range overrides {
		existingVal, ok := defaults[key]
		if !ok {
			defaults[key] = val
			continue
		}
		if IsMap(existingVal) && IsMap(val) {
			existingMap, ok := existingVal.(map[string]interface{})
			if !ok {
				panic(fmt.Sprintf("unknown map: %T", existingVal))
			}
			valMap, ok := val.(map[string]interface{})
			if !ok {
				panic(fmt.Sprintf("unknown map: %T", val))
			}
			RecursiveOverride(existingMap, valMap)
		} else if IsAllowedOverrideType(val) {
			defaults[key] = val
		}
	}
}

func toMap(cfg interface{}) (map[string]interface{}, error) {
	bz, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{}
	return out, yaml.Unmarshal(bz, &out)
}

// ApplyDefaults writes defaultCfg overridden by overrideCfg into newCfg.
func ApplyDefaults(defaultCfg interface{}, overrideCfg interface{}, newCfg interface{}) error {
	defaults, err := toMap(defaultCfg)
	if err != nil {
		return err
	}
	overrides, err := toMap(overrideCfg)
	if err != nil {
		return err
	}
	RecursiveOverride(defaults, overrides)

	bz, err := yaml.Marshal(defaults)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(bz, newCfg)
}
