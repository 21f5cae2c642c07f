// Package useragent extrae informacion basica de dispositivo desde el
// header User-Agent.
package useragent

import "regexp"

var (
	mobileRe  = regexp.MustCompile(`(?i)mobile`)
	browserRe = regexp.MustCompile(`(?i)(Chrome|Firefox|Safari|Edge|Opera)`)
)

// DeviceInfo resume el dispositivo detras de un request.
type DeviceInfo struct {
	IsMobile bool   `json:"is_mobile"`
	Browser  string `json:"browser"`
}

// Lookup inspecciona el user agent. Si ningun browser conocido aparece,
// Browser queda en "unknown".
func Lookup(userAgent string) DeviceInfo {
	info := DeviceInfo{
		IsMobile: mobileRe.MatchString(userAgent),
		Browser:  "unknown",
	}
	if match := browserRe.FindString(userAgent); match != "" {
		info.Browser = match
	}
	return info
}
