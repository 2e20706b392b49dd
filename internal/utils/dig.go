package utils

// Dig walks a decoded JSON document (map[string]any / []any) along path.
// String steps index objects, int steps index arrays. It reports false as
// soon as a step is missing or the node has the wrong shape.
func Dig(doc any, path ...any) (any, bool) {
	node := doc
	for _, step := range path {
		switch key := step.(type) {
		case string:
			obj, ok := node.(map[string]any)
			if !ok {
				return nil, false
			}
			next, ok := obj[key]
			if !ok {
				return nil, false
			}
			node = next
		case int:
			arr, ok := node.([]any)
			if !ok || key < 0 || key >= len(arr) {
				return nil, false
			}
			node = arr[key]
		default:
			return nil, false
		}
	}
	return node, node != nil
}

// DigString is Dig for string leaves. Anything else yields "".
func DigString(doc any, path ...any) string {
	v, ok := Dig(doc, path...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
