package secrets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetResolved(t *testing.T) {
	s := NewStore(map[string]string{"Zigbee_Lightbulb_KitchenLamp_APIKey": "s3cret"})

	assert.Equal(t, "s3cret", s.Get("zigbee", "lightbulb", "KitchenLamp", "apikey"))
	assert.Empty(t, s.Missing())
	assert.NoError(t, s.Err())
}

func TestStoreGetMissingReturnsSentinel(t *testing.T) {
	s := NewStore(nil)

	got := s.Get("zigbee", "lightbulb", "KitchenLamp", "apikey")

	assert.Equal(t, "__ZIGBEE_LIGHTBULB_KITCHENLAMP_APIKEY__", got)
	assert.Equal(t, []string{"zigbee_lightbulb_kitchenlamp_apikey"}, s.Missing())
}

func TestStoreBlankValueIsMissing(t *testing.T) {
	s := NewStore(map[string]string{"hue_bridge_hub_serial": "   "})

	assert.Equal(t, "__HUE_BRIDGE_HUB_SERIAL__", s.Get("hue", "bridge", "hub", "serial"))
	assert.Equal(t, []string{"hue_bridge_hub_serial"}, s.Missing())
}

func TestStoreMissingRecordedOnce(t *testing.T) {
	s := NewStore(nil)

	s.Get("a", "b")
	s.Get("c")
	s.Get("A", "B")

	assert.Equal(t, []string{"a_b", "c"}, s.Missing())

	err := s.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissing))

	var missing *MissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"a_b", "c"}, missing.Keys)
}

func TestStructureOnlyStoreRecordsNothing(t *testing.T) {
	s := NewStructureOnlyStore()

	assert.Equal(t, "__KNX_BRIDGE_GATEWAY_PASSWORD__", s.Get("knx", "bridge", "Gateway", "password"))
	assert.True(t, s.StructureOnly())
	assert.Empty(t, s.Missing())
	assert.NoError(t, s.Err())
}

func TestMissingReturnsCopy(t *testing.T) {
	s := NewStore(nil)
	s.Get("x")

	got := s.Missing()
	got[0] = "changed"

	assert.Equal(t, []string{"x"}, s.Missing())
}

func TestIsSentinel(t *testing.T) {
	assert.True(t, IsSentinel(Sentinel("a_b")))
	assert.False(t, IsSentinel("plain"))
	assert.False(t, IsSentinel("____"))
}
