package junction

import "net/url"

const LogMaskVal = "xxxxxx"

// Mask replaces all values paired to key in vals with a single [LogMaskVal],
// hiding sensitive data from log messages.
func Mask(vals url.Values, key string) {
	if _, ok := vals[key]; !ok {
		return
	}

	vals[key] = []string{LogMaskVal}
}
