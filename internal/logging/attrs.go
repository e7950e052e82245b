package logging

import "log/slog"

// flattenAttr writes attr into dst. Groups become nested maps, except
// groups with an empty key, whose members are inlined as slog does.
func flattenAttr(dst map[string]any, attr slog.Attr) {
	value := attr.Value.Resolve()
	if value.Kind() != slog.KindGroup {
		if attr.Key != "" {
			dst[attr.Key] = value.Any()
		}
		return
	}
	members := value.Group()
	if len(members) == 0 {
		return
	}
	if attr.Key == "" {
		for _, member := range members {
			flattenAttr(dst, member)
		}
		return
	}
	inner := map[string]any{}
	for _, member := range members {
		flattenAttr(inner, member)
	}
	dst[attr.Key] = inner
}

func attrsToMap(attrs []slog.Attr) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	values := map[string]any{}
	for _, attr := range attrs {
		flattenAttr(values, attr)
	}
	if len(values) == 0 {
		return nil
	}
	return values
}
