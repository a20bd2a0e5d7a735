package model

import (
	"encoding/json"
	"fmt"

	"github.com/fabricedesre/taxonomy/pkg/value"
)

type kindTag uint8

const (
	kindReady kindTag = iota
	kindOnOff
	kindOpenClosed
	kindCurrentTime
	kindCurrentTimeOfDay
	kindRemainingTime
	kindThermostat
	kindActualTemperature
	kindExtension
)

// ServiceKind describes the semantic nature of a channel's data. The set
// of standardized kinds is closed; vendors introduce new ones through
// Extension, which carries its value type explicitly.
//
// ServiceKind is comparable: two kinds are equal when their tag and, for
// extensions, their vendor/adapter/kind/type all match.
type ServiceKind struct {
	tag     kindTag
	vendor  string
	adapter string
	kind    string
	typ     value.Type
}

// The standardized kinds.
var (
	// Ready signals that a device is ready. Type Unit.
	Ready = ServiceKind{tag: kindReady}

	// OnOff is an on/off state. Type Bool.
	OnOff = ServiceKind{tag: kindOnOff}

	// OpenClosed is an open/closed state. Type Bool.
	OpenClosed = ServiceKind{tag: kindOpenClosed}

	// CurrentTime is the current wall-clock instant. Type TimeStamp.
	CurrentTime = ServiceKind{tag: kindCurrentTime}

	// CurrentTimeOfDay is the time elapsed since midnight. Type Duration.
	CurrentTimeOfDay = ServiceKind{tag: kindCurrentTimeOfDay}

	// RemainingTime is the time left in a countdown. Type Duration.
	RemainingTime = ServiceKind{tag: kindRemainingTime}

	// Thermostat is a target temperature. Type Temperature.
	Thermostat = ServiceKind{tag: kindThermostat}

	// ActualTemperature is a measured temperature. Type Temperature.
	ActualTemperature = ServiceKind{tag: kindActualTemperature}
)

// Extension builds a vendor-specific kind carrying an explicit value
// type. The vendor string namespaces the extension ("foxlink@mozilla.com"),
// adapter identifies who introduced it, and kind describes the quantity.
func Extension(vendor, adapter, kind string, typ value.Type) ServiceKind {
	return ServiceKind{
		tag:     kindExtension,
		vendor:  vendor,
		adapter: adapter,
		kind:    kind,
		typ:     typ,
	}
}

// Type returns the value type carried by channels of this kind. The
// mapping is total and never changes for a given kind.
func (k ServiceKind) Type() value.Type {
	switch k.tag {
	case kindReady:
		return value.TypeUnit
	case kindOnOff, kindOpenClosed:
		return value.TypeBool
	case kindCurrentTime:
		return value.TypeTimeStamp
	case kindCurrentTimeOfDay, kindRemainingTime:
		return value.TypeDuration
	case kindThermostat, kindActualTemperature:
		return value.TypeTemperature
	default:
		return k.typ
	}
}

// IsExtension reports whether the kind is vendor-specific.
func (k ServiceKind) IsExtension() bool { return k.tag == kindExtension }

// Vendor returns the extension vendor, or "" for standardized kinds.
func (k ServiceKind) Vendor() string { return k.vendor }

// Adapter returns the extension adapter, or "" for standardized kinds.
func (k ServiceKind) Adapter() string { return k.adapter }

// ExtensionKind returns the extension kind string, or "" for
// standardized kinds.
func (k ServiceKind) ExtensionKind() string { return k.kind }

// String returns the kind name, or a vendor/kind description for
// extensions.
func (k ServiceKind) String() string {
	switch k.tag {
	case kindReady:
		return "Ready"
	case kindOnOff:
		return "OnOff"
	case kindOpenClosed:
		return "OpenClosed"
	case kindCurrentTime:
		return "CurrentTime"
	case kindCurrentTimeOfDay:
		return "CurrentTimeOfDay"
	case kindRemainingTime:
		return "RemainingTime"
	case kindThermostat:
		return "Thermostat"
	case kindActualTemperature:
		return "ActualTemperature"
	case kindExtension:
		return fmt.Sprintf("Extension(%s/%s)", k.vendor, k.kind)
	default:
		return fmt.Sprintf("ServiceKind(%d)", uint8(k.tag))
	}
}

// ParseServiceKind resolves a standardized kind name. Extension kinds
// have no name form and must be built with Extension.
func ParseServiceKind(name string) (ServiceKind, error) {
	for _, k := range []ServiceKind{
		Ready, OnOff, OpenClosed, CurrentTime,
		CurrentTimeOfDay, RemainingTime, Thermostat, ActualTemperature,
	} {
		if k.String() == name {
			return k, nil
		}
	}
	return ServiceKind{}, fmt.Errorf("unknown service kind %q", name)
}

type extensionJSON struct {
	Vendor  string     `json:"vendor"`
	Adapter string     `json:"adapter"`
	Kind    string     `json:"kind"`
	Type    value.Type `json:"typ"`
}

// MarshalJSON encodes standardized kinds as their name string and
// extensions as an {"Extension":{...}} envelope.
func (k ServiceKind) MarshalJSON() ([]byte, error) {
	if k.tag != kindExtension {
		return json.Marshal(k.String())
	}
	return json.Marshal(map[string]extensionJSON{
		"Extension": {Vendor: k.vendor, Adapter: k.adapter, Kind: k.kind, Type: k.typ},
	})
}

// UnmarshalJSON decodes either form produced by MarshalJSON.
func (k *ServiceKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParseServiceKind(name)
		if err != nil {
			return fmt.Errorf("%w: %v", value.ErrSyntax, err)
		}
		*k = parsed
		return nil
	}
	var envelope map[string]extensionJSON
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("%w: service kind: %v", value.ErrSyntax, err)
	}
	ext, ok := envelope["Extension"]
	if !ok || len(envelope) != 1 {
		return fmt.Errorf("%w: service kind envelope must be {\"Extension\":{...}}", value.ErrSyntax)
	}
	*k = Extension(ext.Vendor, ext.Adapter, ext.Kind, ext.Type)
	return nil
}
