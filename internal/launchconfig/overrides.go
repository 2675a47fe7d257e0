package launchconfig

import (
	"strconv"
	"strings"

	"github.com/ctagard/launch-mcp/internal/errors"
)

// ParseOverrideToken parses one token into an Override. A recognized token
// has the shape `-<Key>=<Value>` where Key matches one of the four launch
// settings case-insensitively. The second return is false for everything
// else; Resolve skips such tokens silently, which is policy, not an error.
func ParseOverrideToken(token string) (Override, bool) {
	if !strings.HasPrefix(token, "-") {
		return Override{}, false
	}

	rest := token[1:]
	eq := strings.IndexByte(rest, '=')
	if eq < 0 {
		return Override{}, false
	}

	key, ok := overrideKeys[strings.ToLower(rest[:eq])]
	if !ok {
		return Override{}, false
	}

	return Override{Key: key, Value: rest[eq+1:]}, true
}

// Resolve folds recognized override tokens over base, left to right, and
// returns the resulting configuration. base is never modified. When the same
// key appears more than once the last occurrence wins. A -TargetPort= value
// that is not a base-10 integer aborts resolution: the error is returned and
// no configuration is produced.
func Resolve(base LaunchConfiguration, tokens []string) (LaunchConfiguration, error) {
	resolved := base

	for _, token := range tokens {
		ov, ok := ParseOverrideToken(token)
		if !ok {
			continue
		}

		switch ov.Key {
		case KeyTargetPath:
			resolved.Path = stripQuotes(ov.Value)
		case KeyWorkingDirectory:
			resolved.WorkingDirectory = stripQuotes(ov.Value)
		case KeyTargetArguments:
			resolved.Arguments = decodeEscapes(stripQuotes(ov.Value))
		case KeyTargetPort:
			// Port values are taken verbatim: no quote stripping.
			port, err := strconv.Atoi(ov.Value)
			if err != nil {
				return LaunchConfiguration{}, errors.OverrideParseFailed(token, err)
			}
			resolved.Port = port
		}
	}

	return resolved, nil
}

// stripQuotes removes one layer of surrounding double quotes when the value
// is quoted on both ends. A lone or unpaired quote is left in place.
func stripQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// decodeEscapes interprets backslash escapes in an arguments value so that a
// single-line override can carry embedded quotes and newlines: \n, \t, \r,
// \" and \\ become their literal characters. An unknown escape or a trailing
// backslash is preserved as written.
func decodeEscapes(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}

		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		default:
			sb.WriteByte('\\')
			sb.WriteByte(s[i])
		}
	}

	return sb.String()
}
