package retrobar

import (
	"bytes"
	"encoding/xml"
)

const (
	DefaultTheme = "Windows XP Blue"

	xmlHeader = `<?xml version="1.0" encoding="utf-8"?>` + "\n"
	xsiNS     = "http://www.w3.org/2001/XMLSchema-instance"
	xsdNS     = "http://www.w3.org/2001/XMLSchema"
)

// Settings mirrors the RetroBar.xml document RetroBar reads at start-up.
// Field order is element order.
type Settings struct {
	XMLName xml.Name `xml:"Settings"`
	XSI     string   `xml:"xmlns:xsi,attr"`
	XSD     string   `xml:"xmlns:xsd,attr"`

	CurrentTheme         string
	EdgeMode             string
	AutoHide             bool
	ShowClock            bool
	ShowNotificationArea bool
	ShowTaskView         bool
	ShowMultiMon         bool
	CollapseNotifyIcons  bool
	UseTaskbarAnimation  bool
	Language             string
}

// DefaultSettings is a bottom-docked, always visible taskbar with clock,
// tray and animations on.
func DefaultSettings(theme string) Settings {
	if theme == "" {
		theme = DefaultTheme
	}
	return Settings{
		XSI:                  xsiNS,
		XSD:                  xsdNS,
		CurrentTheme:         theme,
		EdgeMode:             "Bottom",
		AutoHide:             false,
		ShowClock:            true,
		ShowNotificationArea: true,
		ShowTaskView:         false,
		ShowMultiMon:         true,
		CollapseNotifyIcons:  false,
		UseTaskbarAnimation:  true,
		Language:             "en-US",
	}
}

// Marshal renders the settings as a utf-8 XML document.
func (s Settings) Marshal() ([]byte, error) {
	body, err := xml.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
