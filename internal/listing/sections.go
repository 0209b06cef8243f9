package listing

import "strings"

type entriesLayout int

const (
	noEntries entriesLayout = iota
	simpleLayout
	complexLayout
)

// splitSections separates the property region from the entries section and
// reports which entry layout follows.
func splitSections(body string) (entriesLayout, string, string) {
	simpleAt := strings.Index(body, simpleBanner)
	complexAt := strings.Index(body, complexBanner)

	switch {
	case simpleAt >= 0 && (complexAt < 0 || simpleAt < complexAt):
		rest := body[simpleAt+len(simpleBanner):]
		if end := strings.Index(rest, simpleBanner); end >= 0 {
			rest = rest[:end]
		}
		return simpleLayout, body[:simpleAt], rest
	case complexAt >= 0:
		return complexLayout, body[:complexAt], body[complexAt+len(complexBanner):]
	default:
		return noEntries, body, ""
	}
}

// splitProperties detects a split archive: a second property separator
// inside the property region. The outer properties end at the split
// separator; the nested ones follow it.
func splitProperties(region string) (outer, nested string, split bool) {
	second := strings.Index(region, propertySeparator)
	if second < 0 {
		return region, "", false
	}
	if sep := strings.Index(region, splitSeparator); sep >= 0 && sep < second {
		return region[:sep], region[sep+len(splitSeparator):], true
	}
	return region[:second], region[second+len(propertySeparator):], true
}

// parseProperties reads "Key = Value" lines. Lines without the separator are
// ignored and later keys override earlier ones.
func parseProperties(text string) map[string]string {
	props := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, keyValueSeparator)
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		props[key] = strings.TrimSpace(value)
	}
	return props
}

// propertyBlocks splits text on blank lines and parses each block. Blocks
// without a single key/value line are dropped.
func propertyBlocks(text string) []map[string]string {
	var blocks []map[string]string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		if props := parseProperties(strings.Join(current, "\n")); len(props) > 0 {
			blocks = append(blocks, props)
		}
		current = current[:0]
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}
