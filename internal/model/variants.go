package model

// Equipment variant tags.
const (
	TypeEquipment    = "equipment"
	TypeLightbulb    = "lightbulb"
	TypeSensor       = "sensor"
	TypeHeating      = "heating"
	TypeWindow       = "window"
	TypeDoor         = "door"
	TypeShutter      = "shutter"
	TypeSwitch       = "switch"
	TypeSocket       = "socket"
	TypeSmartphone   = "smartphone"
	TypeStateTracker = "statetracker"
)

// Generic is a plain equipment group or an untyped device.
type Generic struct{ *BaseEquipment }

// Lightbulb is a light source.
type Lightbulb struct{ *BaseEquipment }

// HasOnOff reports whether the light can be switched.
func (l *Lightbulb) HasOnOff() bool { return l.HasPoint(PointOnOff) }

// HasBrightness reports whether the light is dimmable.
func (l *Lightbulb) HasBrightness() bool { return l.HasPoint(PointBrightness) }

// HasColor reports whether the light supports colour.
func (l *Lightbulb) HasColor() bool { return l.HasPoint(PointColor) }

// HasColorTemperature reports whether the light supports white tuning.
func (l *Lightbulb) HasColorTemperature() bool { return l.HasPoint(PointColorTemperature) }

// Sensor is a multi-purpose measuring device.
type Sensor struct{ *BaseEquipment }

// HasTemperature reports whether the sensor measures temperature.
func (s *Sensor) HasTemperature() bool { return s.HasPoint(PointTemperature) }

// HasHumidity reports whether the sensor measures humidity.
func (s *Sensor) HasHumidity() bool { return s.HasPoint(PointHumidity) }

// HasIlluminance reports whether the sensor measures illuminance.
func (s *Sensor) HasIlluminance() bool { return s.HasPoint(PointIlluminance) }

// HasMotion reports whether the sensor detects motion.
func (s *Sensor) HasMotion() bool { return s.HasPoint(PointMotion) }

// HasBattery reports whether the sensor reports its battery level.
func (s *Sensor) HasBattery() bool { return s.HasPoint(PointBattery) }

// Heating is a radiator or floor heating controller.
type Heating struct{ *BaseEquipment }

// HasSetpoint reports whether a target temperature can be set.
func (h *Heating) HasSetpoint() bool { return h.HasPoint(PointSetpoint) }

// HasValve reports whether the valve position is exposed.
func (h *Heating) HasValve() bool { return h.HasPoint(PointValve) }

// HasMode reports whether the operating mode is exposed.
func (h *Heating) HasMode() bool { return h.HasPoint(PointMode) }

// Window is a window with a contact.
type Window struct{ *BaseEquipment }

// HasContact reports whether the open/closed state is exposed.
func (w *Window) HasContact() bool { return w.HasPoint(PointContact) }

// Door is a door with a contact and optional lock.
type Door struct{ *BaseEquipment }

// HasContact reports whether the open/closed state is exposed.
func (d *Door) HasContact() bool { return d.HasPoint(PointContact) }

// HasLock reports whether the lock can be controlled.
func (d *Door) HasLock() bool { return d.HasPoint(PointLock) }

// Shutter is a roller shutter or blind.
type Shutter struct{ *BaseEquipment }

// HasPosition reports whether the position can be controlled.
func (s *Shutter) HasPosition() bool { return s.HasPoint(PointPosition) }

// Switch is a wall switch or relay.
type Switch struct{ *BaseEquipment }

// HasOnOff reports whether the switch state is exposed.
func (s *Switch) HasOnOff() bool { return s.HasPoint(PointOnOff) }

// Socket is a smart power outlet.
type Socket struct{ *BaseEquipment }

// HasOnOff reports whether the outlet can be switched.
func (s *Socket) HasOnOff() bool { return s.HasPoint(PointOnOff) }

// HasPower reports whether the current power draw is metered.
func (s *Socket) HasPower() bool { return s.HasPoint(PointPower) }

// HasEnergy reports whether consumed energy is metered.
func (s *Socket) HasEnergy() bool { return s.HasPoint(PointEnergy) }

// Smartphone is a phone used for presence detection.
type Smartphone struct{ *BaseEquipment }

// HasPresence reports whether presence is exposed.
func (s *Smartphone) HasPresence() bool { return s.HasPoint(PointPresence) }

// StateTracker is a virtual node holding a state without a device.
type StateTracker struct{ *BaseEquipment }

// equipmentVariant ties a tag to its semantic categories and wrapper.
type equipmentVariant struct {
	tag        string
	categories []string
	wrap       func(*BaseEquipment) Equipment
}

var equipmentVariants = []equipmentVariant{
	{TypeEquipment, []string{"Equipment"}, func(b *BaseEquipment) Equipment { return &Generic{b} }},
	{TypeLightbulb, []string{"Lightbulb"}, func(b *BaseEquipment) Equipment { return &Lightbulb{b} }},
	{TypeSensor, []string{"Sensor"}, func(b *BaseEquipment) Equipment { return &Sensor{b} }},
	{TypeHeating, []string{"RadiatorControl"}, func(b *BaseEquipment) Equipment { return &Heating{b} }},
	{TypeWindow, []string{"Window"}, func(b *BaseEquipment) Equipment { return &Window{b} }},
	{TypeDoor, []string{"Door"}, func(b *BaseEquipment) Equipment { return &Door{b} }},
	{TypeShutter, []string{"Blinds"}, func(b *BaseEquipment) Equipment { return &Shutter{b} }},
	{TypeSwitch, []string{"WallSwitch"}, func(b *BaseEquipment) Equipment { return &Switch{b} }},
	{TypeSocket, []string{"PowerOutlet"}, func(b *BaseEquipment) Equipment { return &Socket{b} }},
	{TypeSmartphone, []string{"MobilePhone"}, func(b *BaseEquipment) Equipment { return &Smartphone{b} }},
	{TypeStateTracker, []string{"Tracker"}, func(b *BaseEquipment) Equipment { return &StateTracker{b} }},
}
