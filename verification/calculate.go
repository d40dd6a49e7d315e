package verification

import (
	"errors"
	"fmt"
	"strings"

	"github.com/meigma/sisverify/primitive"
)

// DefaultVersion is the code version appended to event verification codes.
const DefaultVersion = "0"

// Separator joins components and the values inside a group.
const Separator = "|"

// ErrUnknownFormat is returned when a code is requested without a format.
var ErrUnknownFormat = errors.New("verification: unknown verification format")

// Calculate computes the verification code for values under format.
//
// Plain components contribute values[field] verbatim. Grouped components
// contribute the Base64URL HMAC-SHA256, keyed with key, of their values
// joined with Separator. Missing values are treated as empty strings.
// The result is the components joined with Separator, followed by "@" and
// version.
func Calculate(key string, format Format, version string, values map[string]string) (string, error) {
	if len(format) == 0 {
		return "", ErrUnknownFormat
	}

	keyBytes := primitive.Bytes(key)
	out := make([]string, 0, len(format))
	for _, c := range format {
		if !c.IsGroup() {
			out = append(out, values[c.field])
			continue
		}

		grouped := make([]string, len(c.group))
		for i, name := range c.group {
			grouped[i] = values[name]
		}
		sig, err := primitive.SignAndEncode(keyBytes, primitive.Bytes(strings.Join(grouped, Separator)))
		if err != nil {
			return "", fmt.Errorf("sign %s: %w", c, err)
		}
		out = append(out, sig)
	}

	return strings.Join(out, Separator) + "@" + version, nil
}
