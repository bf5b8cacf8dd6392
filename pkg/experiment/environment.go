package experiment

import (
	"regexp"
	"time"
)

// SchemaVersion is stamped on every payload.
const SchemaVersion = "v2-exp1to16"

const mobileMaxWidth = 640

var mobileUA = regexp.MustCompile(`(?i)Mobi|Android|iPhone|iPad|iPod`)

// DeviceDescriptor is what the page knows about the device at submission time.
type DeviceDescriptor struct {
	UserAgent     string
	ViewportW     int
	ViewportH     int
	CoarsePointer bool
}

func (d DeviceDescriptor) IsMobile() bool {
	return mobileUA.MatchString(d.UserAgent) ||
		d.CoarsePointer ||
		(d.ViewportW > 0 && d.ViewportW < mobileMaxWidth)
}

type Viewport struct {
	W int `json:"w"`
	H int `json:"h"`
}

type EnvironmentMeta struct {
	SchemaVersion string   `json:"schemaVersion"`
	IsMobile      bool     `json:"isMobile"`
	Viewport      Viewport `json:"viewport"`
	Orientation   string   `json:"orientation"`
	UserAgent     string   `json:"userAgent"`
	Timestamp     int64    `json:"timestamp"`
}

// NewEnvironmentMeta describes the device at now. Timestamp is in Unix milliseconds.
func NewEnvironmentMeta(d DeviceDescriptor, now time.Time) EnvironmentMeta {
	vp := Viewport{W: max(d.ViewportW, 0), H: max(d.ViewportH, 0)}
	orientation := "unknown"
	if vp.W > 0 || vp.H > 0 {
		if vp.H >= vp.W {
			orientation = "portrait"
		} else {
			orientation = "landscape"
		}
	}
	return EnvironmentMeta{
		SchemaVersion: SchemaVersion,
		IsMobile:      d.IsMobile(),
		Viewport:      vp,
		Orientation:   orientation,
		UserAgent:     d.UserAgent,
		Timestamp:     now.UnixMilli(),
	}
}
