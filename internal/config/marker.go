package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Marker is the content of the repository marker file.
type Marker struct {
	Version string
	Created string
}

// Bytes renders the marker exactly as it is stored on disk.
func (m Marker) Bytes() []byte {
	return []byte(fmt.Sprintf("# VCS Configuration\nversion=%s\ncreated=%s\n", m.Version, m.Created))
}

// ParseMarker reads a marker file body. Missing keys are left empty.
func ParseMarker(data []byte) (Marker, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
	}, data)
	if err != nil {
		return Marker{}, fmt.Errorf("parse marker: %w", err)
	}

	sec := f.Section(ini.DefaultSection)
	return Marker{
		Version: sec.Key("version").String(),
		Created: sec.Key("created").String(),
	}, nil
}
