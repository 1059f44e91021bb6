// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package useragent

import (
	"strconv"
	"strings"

	uaparser "github.com/mssola/useragent"

	"github.com/pldashboard/api/internal/metrics"
)

// Device classes.
const (
	DeviceBot     = "Bot"
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceDesktop = "Desktop"
	DeviceOther   = "Other"
)

// unknownFamily labels an OS or browser the parser could not name.
const unknownFamily = "other"

// botFamily labels a crawler the parser flags but that is not listed in
// knownBrowsers.
const botFamily = "bot"

// maxUALength bounds the header length handed to the parser.
const maxUALength = 512

// maxMajor is the highest major version kept as a label. Anything above
// it, or longer than three digits, is recorded as "0".
const maxMajor = 199

// knownOS maps lowercased parser OS names to the families that become
// metric labels. iPads report a bare "OS" and ChromeOS a "CrOS <arch>" name;
// osFamily handles both.
var knownOS = map[string]string{
	"windows":       "windows",
	"windows nt":    "windows",
	"windows phone": "windows phone",
	"mac os x":      "mac os x",
	"iphone os":     "ios",
	"android":       "android",
	"linux":         "linux",
	"ubuntu":        "ubuntu",
	"fedora":        "fedora",
	"freebsd":       "freebsd",
	"openbsd":       "openbsd",
	"firefoxos":     "firefox os",
}

// knownBrowsers is the set of lowercased browser names kept as labels.
var knownBrowsers = map[string]struct{}{
	"chrome":            {},
	"chromium":          {},
	"headless chrome":   {},
	"firefox":           {},
	"safari":            {},
	"edge":              {},
	"opera":             {},
	"internet explorer": {},
	"android":           {},
	"yabrowser":         {},
	"coc coc":           {},
	"duckduckgo":        {},
	"google app":        {},
	"electron":          {},
	"okhttp":            {},
	"googlebot":         {},
	"bingbot":           {},
	"applebot":          {},
	"duckduckbot":       {},
	"yandexbot":         {},
}

// Classification is the coarse user-agent bucket used for visit counting.
// Families come from a fixed set, so header contents cannot mint new metric
// series. An unlisted family is "other" and a missing major version is "0".
type Classification struct {
	Device       string
	OS           string
	OSMajor      string
	Browser      string
	BrowserMajor string
}

// OSLabel returns "<os> <major>" as written to visit logs.
func (c Classification) OSLabel() string {
	return c.OS + " " + c.OSMajor
}

// BrowserLabel returns "<browser> <major>" as written to visit logs.
func (c Classification) BrowserLabel() string {
	return c.Browser + " " + c.BrowserMajor
}

// Bucket converts c to metric labels.
func (c Classification) Bucket() metrics.UABucket {
	return metrics.UABucket{
		Device:       c.Device,
		OS:           c.OS,
		OSMajor:      c.OSMajor,
		Browser:      c.Browser,
		BrowserMajor: c.BrowserMajor,
	}
}

// Classifier turns User-Agent headers into Classifications. It is stateless
// and safe for concurrent use.
type Classifier struct{}

// NewClassifier creates a Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify parses ua. An empty or unparseable header yields the Other
// device with unknown families.
func (c *Classifier) Classify(ua string) Classification {
	ua = strings.TrimSpace(ua)
	if len(ua) > maxUALength {
		ua = ua[:maxUALength]
	}
	if ua == "" {
		return Classification{
			Device:       DeviceOther,
			OS:           unknownFamily,
			OSMajor:      "0",
			Browser:      unknownFamily,
			BrowserMajor: "0",
		}
	}

	parsed := uaparser.New(ua)
	browser, browserVersion := parsed.Browser()
	osInfo := parsed.OSInfo()

	cl := Classification{
		Device:  deviceClass(parsed, ua, osInfo.Name),
		OS:      osFamily(osInfo.Name, ua),
		Browser: browserFamily(browser, parsed.Bot()),
	}
	cl.OSMajor = versionFor(cl.OS, osInfo.Version)
	cl.BrowserMajor = versionFor(cl.Browser, browserVersion)
	return cl
}

func deviceClass(parsed *uaparser.UserAgent, raw, osName string) string {
	lower := strings.ToLower(raw)
	switch {
	case parsed.Bot():
		return DeviceBot
	case isTablet(lower):
		return DeviceTablet
	case parsed.Mobile():
		return DeviceMobile
	case isDesktopOS(osName):
		return DeviceDesktop
	default:
		return DeviceOther
	}
}

// isTablet matches iPads, Android devices without the "mobile" token and
// anything that calls itself a tablet.
func isTablet(lower string) bool {
	if strings.Contains(lower, "ipad") || strings.Contains(lower, "tablet") || strings.Contains(lower, "kindle") {
		return true
	}
	return strings.Contains(lower, "android") && !strings.Contains(lower, "mobile")
}

func isDesktopOS(osName string) bool {
	name := strings.ToLower(osName)
	for _, prefix := range []string{"windows", "mac os", "macos", "linux", "ubuntu", "fedora", "debian", "freebsd", "openbsd", "chromeos", "cros"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func osFamily(name, raw string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if fam, ok := knownOS[name]; ok {
		return fam
	}
	switch {
	case name == "os" && strings.Contains(strings.ToLower(raw), "ipad"):
		return "ios"
	case name == "cros" || strings.HasPrefix(name, "cros "):
		return "chrome os"
	}
	return unknownFamily
}

func browserFamily(name string, bot bool) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := knownBrowsers[name]; ok {
		return name
	}
	if bot {
		return botFamily
	}
	return unknownFamily
}

// versionFor returns the major version of a listed family, and "0" for an
// unlisted one.
func versionFor(family, version string) string {
	if family == unknownFamily || family == botFamily {
		return "0"
	}
	return major(version)
}

// major returns the leading numeric component of a version such as
// "120.0.6099.109" or "16_4", or "0" when there is none or it exceeds
// maxMajor.
func major(version string) string {
	version = strings.TrimSpace(version)
	end := 0
	for end < len(version) && version[end] >= '0' && version[end] <= '9' {
		end++
	}
	if end == 0 || end > 3 {
		return "0"
	}
	n, err := strconv.Atoi(version[:end])
	if err != nil || n > maxMajor {
		return "0"
	}
	return strconv.Itoa(n)
}
