package hardcoded

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/openkraft/layerlint/internal/domain"
)

var fallbackNames = map[domain.ValueType]string{
	domain.ValueURL:           "BASE_URL",
	domain.ValueEmail:         "CONTACT_EMAIL",
	domain.ValueIPAddress:     "SERVER_ADDRESS",
	domain.ValueFilePath:      "FILE_PATH",
	domain.ValueDate:          "REFERENCE_DATE",
	domain.ValueAPIKey:        "API_KEY",
	domain.ValueJWT:           "AUTH_TOKEN",
	domain.ValueUUID:          "DEFAULT_ID",
	domain.ValueSemVer:        "VERSION",
	domain.ValueColor:         "PRIMARY_COLOR",
	domain.ValueMACAddress:    "DEVICE_ADDRESS",
	domain.ValueBase64:        "ENCODED_VALUE",
	domain.ValueConfigKeyword: "ENVIRONMENT",
}

// constantName derives an UPPER_SNAKE constant name from a binding name, or
// from the value classification when there is no name.
func constantName(name string, class domain.ValueType) string {
	ws := words(name)
	if len(ws) == 0 {
		if n, ok := fallbackNames[class]; ok {
			return n
		}
		return "NAMED_CONSTANT"
	}
	return strings.ToUpper(strings.Join(ws, "_"))
}

func numberConstantName(name, callee string) string {
	if name != "" {
		return constantName(name, domain.ValueNone)
	}
	switch callee {
	case "setTimeout", "setInterval", "sleep", "delay", "wait", "withTimeout", "timeout":
		return "TIMEOUT_MS"
	case "retry", "withRetry":
		return "MAX_RETRIES"
	case "":
		return "NAMED_CONSTANT"
	}
	return constantName(callee, domain.ValueNone) + "_VALUE"
}

func stringSuggestion(class domain.ValueType, constName string) string {
	switch class {
	case domain.ValueAPIKey, domain.ValueJWT:
		return "Never commit credentials; load the value from the environment or a secret manager"
	case domain.ValueURL, domain.ValueIPAddress, domain.ValueEmail, domain.ValueConfigKeyword:
		return fmt.Sprintf("Move the value to configuration and inject it as %s", constName)
	default:
		return fmt.Sprintf("Extract the value into a named constant such as %s", constName)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
