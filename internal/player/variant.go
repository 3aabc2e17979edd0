package player

import "github.com/godbus/dbus/v5"

// Plain 将 D-Bus Variant 递归展开为 Go 值：字典 -> map[string]any，对象路径 -> string
func Plain(v any) any {
	switch x := v.(type) {
	case dbus.Variant:
		return Plain(x.Value())
	case map[string]dbus.Variant:
		return PlainMap(x)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = Plain(vv)
		}
		return out
	case []dbus.Variant:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = Plain(vv)
		}
		return out
	case dbus.ObjectPath:
		return string(x)
	default:
		return v
	}
}

// PlainMap 展开属性字典
func PlainMap(m map[string]dbus.Variant) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Plain(v)
	}
	return out
}

// eventFromSignal 解析 PropertiesChanged 信号体：[interface, changed, invalidated]
func eventFromSignal(sig *dbus.Signal) (Event, bool) {
	if sig == nil || sig.Name != ifaceProperties+".PropertiesChanged" || len(sig.Body) < 2 {
		return Event{}, false
	}
	iface, ok := sig.Body[0].(string)
	if !ok {
		return Event{}, false
	}
	changed, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return Event{}, false
	}
	ev := Event{Interface: iface, Path: string(sig.Path), Changed: PlainMap(changed)}
	if len(sig.Body) > 2 {
		ev.Invalidated, _ = sig.Body[2].([]string)
	}
	return ev, true
}
