package camera

import "fmt"

// DeviceInfo describes a probed capture node.
type DeviceInfo struct {
	Path    string
	Driver  string
	Card    string
	BusInfo string
}

func (i DeviceInfo) String() string {
	return fmt.Sprintf("%s: %s (%s, %s)", i.Path, i.Card, i.Driver, i.BusInfo)
}
