package interactive

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fabricedesre/taxonomy/pkg/model"
	"github.com/fabricedesre/taxonomy/pkg/selector"
	"github.com/fabricedesre/taxonomy/pkg/value"
)

// parseNodeSelector builds a node selector from a prompt argument.
// Supported forms: "all", "tag=<t>[,<t>...]", or a bare node id.
func parseNodeSelector(spec string) (selector.NodeSelector, error) {
	sel := selector.NodeSelector{}
	switch {
	case spec == "all":
		return sel, nil
	case strings.HasPrefix(spec, "tag="):
		return sel.WithTags(splitTags(spec)...), nil
	case strings.HasPrefix(spec, "kind="), strings.HasPrefix(spec, "node="):
		return sel, fmt.Errorf("%q does not apply to nodes", spec)
	default:
		return sel.WithID(model.NodeID(spec)), nil
	}
}

// parseGetterSelector builds a getter selector from a prompt argument.
// Supported forms: "all", "tag=", "kind=", "node=", or a bare channel
// id.
func parseGetterSelector(spec string) (selector.GetterSelector, error) {
	sel := selector.GetterSelector{}
	switch {
	case spec == "all":
		return sel, nil
	case strings.HasPrefix(spec, "tag="):
		return sel.WithTags(splitTags(spec)...), nil
	case strings.HasPrefix(spec, "kind="):
		kind, err := model.ParseServiceKind(strings.TrimPrefix(spec, "kind="))
		if err != nil {
			return sel, err
		}
		return sel.WithKind(kind), nil
	case strings.HasPrefix(spec, "node="):
		return sel.WithParent(model.NodeID(strings.TrimPrefix(spec, "node="))), nil
	default:
		return sel.WithID(model.ChannelID(spec)), nil
	}
}

// parseSetterSelector builds a setter selector from a prompt argument.
// Same forms as parseGetterSelector.
func parseSetterSelector(spec string) (selector.SetterSelector, error) {
	sel := selector.SetterSelector{}
	switch {
	case spec == "all":
		return sel, nil
	case strings.HasPrefix(spec, "tag="):
		return sel.WithTags(splitTags(spec)...), nil
	case strings.HasPrefix(spec, "kind="):
		kind, err := model.ParseServiceKind(strings.TrimPrefix(spec, "kind="))
		if err != nil {
			return sel, err
		}
		return sel.WithKind(kind), nil
	case strings.HasPrefix(spec, "node="):
		return sel.WithParent(model.NodeID(strings.TrimPrefix(spec, "node="))), nil
	default:
		return sel.WithID(model.ChannelID(spec)), nil
	}
}

func splitTags(spec string) []string {
	_, list, _ := strings.Cut(spec, "=")
	return strings.Split(list, ",")
}

// parseValue turns a prompt argument into a typed value. Booleans,
// temperatures with a C or F suffix, durations, RFC 3339 timestamps
// and the literal "unit" get their natural types; everything else is a
// string.
func parseValue(s string) value.Value {
	switch strings.ToLower(s) {
	case "unit", "()":
		return value.Unit{}
	case "true", "on":
		return value.Bool(true)
	case "false", "off":
		return value.Bool(false)
	}

	if len(s) > 1 {
		degrees, err := strconv.ParseFloat(s[:len(s)-1], 64)
		if err == nil {
			switch s[len(s)-1] {
			case 'C', 'c':
				return value.Celsius(degrees)
			case 'F', 'f':
				return value.Fahrenheit(degrees)
			}
		}
	}

	if d, err := time.ParseDuration(s); err == nil {
		return value.Duration(d)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return value.NewTimeStamp(t)
	}

	return value.String(strings.Trim(s, "\"'"))
}

// formatValue renders a value for display at the prompt.
func formatValue(v value.Value) string {
	if v == nil {
		return "<nil>"
	}
	switch v := v.(type) {
	case value.Bool:
		if v {
			return "on"
		}
		return "off"
	case value.String:
		return strconv.Quote(string(v))
	default:
		return fmt.Sprintf("%v", v)
	}
}
