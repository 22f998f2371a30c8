package generator

import "github.com/nerrad567/gray-logic-confgen/internal/model"

// pointKind maps a point key to an item type, a sitemap widget and semantic tags.
type pointKind struct {
	itemType string
	widget   string
	tags     []string
}

var defaultPointKind = pointKind{itemType: "String", widget: "Text", tags: []string{"Status"}}

var pointKinds = map[string]pointKind{
	model.PointOnOff:            {"Switch", "Switch", []string{"Switch", "Power"}},
	model.PointBrightness:       {"Dimmer", "Slider", []string{"Control", "Light"}},
	model.PointColor:            {"Color", "Colorpicker", []string{"Control", "Color"}},
	model.PointColorTemperature: {"Dimmer", "Slider", []string{"Control", "ColorTemperature"}},
	model.PointTemperature:      {"Number:Temperature", "Text", []string{"Measurement", "Temperature"}},
	model.PointHumidity:         {"Number:Dimensionless", "Text", []string{"Measurement", "Humidity"}},
	model.PointIlluminance:      {"Number:Illuminance", "Text", []string{"Measurement", "Light"}},
	model.PointMotion:           {"Switch", "Text", []string{"Status", "Presence"}},
	model.PointContact:          {"Contact", "Text", []string{"OpenState"}},
	model.PointBattery:          {"Number:Dimensionless", "Text", []string{"Measurement", "Energy"}},
	model.PointSetpoint:         {"Number:Temperature", "Setpoint", []string{"Setpoint", "Temperature"}},
	model.PointValve:            {"Dimmer", "Text", []string{"Measurement", "Opening"}},
	model.PointMode:             {"String", "Selection", []string{"Control"}},
	model.PointPosition:         {"Rollershutter", "Switch", []string{"Control", "Opening"}},
	model.PointPower:            {"Number:Power", "Text", []string{"Measurement", "Power"}},
	model.PointEnergy:           {"Number:Energy", "Text", []string{"Measurement", "Energy"}},
	model.PointPresence:         {"Switch", "Text", []string{"Status", "Presence"}},
	model.PointLock:             {"Switch", "Switch", []string{"Control", "LockState"}},
	model.PointState:            {"String", "Text", []string{"Status"}},
}

func kindOf(point string) pointKind {
	if k, ok := pointKinds[point]; ok {
		return k
	}
	return defaultPointKind
}
