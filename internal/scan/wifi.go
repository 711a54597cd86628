package scan

import (
	"fmt"
	"regexp"
)

// NotFound is reported for SSID and password when a WiFi payload cannot be parsed.
const NotFound = "Not Found"

var (
	ssidPattern     = regexp.MustCompile(`S:([^;]+);`)
	passwordPattern = regexp.MustCompile(`P:([^;]+);`)
)

// WiFi holds the credentials extracted from a WIFI: payload.
type WiFi struct {
	SSID     string
	Password string
}

// ParseWiFi extracts the first S: and P: fields of a WiFi payload. Escaped
// ';' or ':' inside values are not supported. If either field is missing both
// are reported as NotFound.
func ParseWiFi(payload string) WiFi {
	ssid := ssidPattern.FindStringSubmatch(payload)
	password := passwordPattern.FindStringSubmatch(payload)
	if ssid == nil || password == nil {
		return WiFi{SSID: NotFound, Password: NotFound}
	}
	return WiFi{SSID: ssid[1], Password: password[1]}
}

// Display is the single-line form shown in history listings.
func (w WiFi) Display() string {
	return fmt.Sprintf("%s : %s", w.SSID, w.Password)
}

// ShareText is the message used when sharing credentials.
func (w WiFi) ShareText() string {
	return fmt.Sprintf("Wi-Fi SSID: %s\nPassword: %s", w.SSID, w.Password)
}
