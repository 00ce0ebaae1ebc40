package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDefinition = `
<roms>
  <rom>
    <scaling name="AFR" toexpr="x / 10" storagetype="uint16" endian="big"/>
    <scaling name="RPM" toexpr="x * 50" storagetype="uint8"/>
    <scaling name="Temp" toexpr="" storagetype="float" endian="little"/>
    <table name="Fuel Map" address="0x7000" type="3D" scaling="AFR" swapxy="false">
      <table type="X Axis" elements="16" address="7100" scaling="RPM"/>
      <table type="Y Axis" elements="12" address="7200"/>
    </table>
    <table name="Coolant Comp" address="8000" type="2D" scaling="Temp" swapxy="true">
      <table type="Y Axis" elements="8" address="8100"/>
    </table>
    <table name="Launch" address="9000" type="1D"/>
  </rom>
</roms>`

func TestParse_Normalizes(t *testing.T) {
	def, err := Parse(strings.NewReader(sampleDefinition))
	require.NoError(t, err)
	require.Len(t, def.Tables, 3)

	fuel := def.Tables[0]
	assert.Equal(t, "Fuel Map", fuel.Name)
	assert.Equal(t, int64(0x7000), fuel.BodyAddress)
	assert.Equal(t, 16, fuel.ElementsX)
	assert.Equal(t, 12, fuel.ElementsY)
	require.NotNil(t, fuel.AddressX)
	assert.Equal(t, int64(0x7100), *fuel.AddressX)
	require.NotNil(t, fuel.AddressY)
	assert.Equal(t, int64(0x7200), *fuel.AddressY)
	assert.Equal(t, Uint16, fuel.Storage)
	assert.Equal(t, BigEndian, fuel.Order)
	assert.False(t, fuel.SwapAxes)
	require.NotNil(t, fuel.BodyScaling)
	assert.Equal(t, "x / 10", fuel.BodyScaling.Expression)
	// X axis carries its own rule, Y axis inherits the body's
	assert.Equal(t, "x * 50", fuel.XScaling.Expression)
	assert.Equal(t, fuel.BodyScaling, fuel.YScaling)

	coolant := def.Tables[1]
	assert.True(t, coolant.SwapAxes)
	assert.Equal(t, Float32, coolant.Storage)
	assert.Equal(t, LittleEndian, coolant.Order)
	assert.Equal(t, 0, coolant.ElementsX)
	assert.Nil(t, coolant.AddressX)
	assert.Equal(t, 8, coolant.ElementsY)

	launch := def.Tables[2]
	assert.Equal(t, int64(0x9000), launch.BodyAddress)
	assert.Equal(t, Uint16, launch.Storage, "no scaling record defaults to uint16")
	assert.Equal(t, BigEndian, launch.Order)
	assert.Nil(t, launch.BodyScaling)
}

func TestParse_DanglingScalingReference(t *testing.T) {
	def, err := Parse(strings.NewReader(`
<rom>
  <table name="Boost" address="100" scaling="NoSuchScaling"/>
</rom>`))
	require.NoError(t, err)
	require.Len(t, def.Tables, 1)
	// treated as absent: defaults, identity
	assert.Nil(t, def.Tables[0].BodyScaling)
	assert.Equal(t, Uint16, def.Tables[0].Storage)
}

func TestParse_ScalingDeclaredAfterTable(t *testing.T) {
	def, err := Parse(strings.NewReader(`
<rom>
  <table name="Boost" address="100" scaling="Late"/>
  <scaling name="Late" toexpr="x / 2" storagetype="uint8"/>
</rom>`))
	require.NoError(t, err)
	require.Len(t, def.Tables, 1)
	require.NotNil(t, def.Tables[0].BodyScaling)
	assert.Equal(t, Uint8, def.Tables[0].Storage)
}

func TestParse_MalformedTableIsSkipped(t *testing.T) {
	def, err := Parse(strings.NewReader(`
<rom>
  <table name="Bad" address="zzzz"/>
  <table name="Good" address="200"/>
</rom>`))
	require.NoError(t, err)
	require.Len(t, def.Tables, 1)
	assert.Equal(t, "Good", def.Tables[0].Name)
}

func TestParse_BadDocument(t *testing.T) {
	_, err := Parse(strings.NewReader(`<rom><table name="x"`))
	assert.Error(t, err)
}

func TestParse_BadFormulaKeepsTable(t *testing.T) {
	def, err := Parse(strings.NewReader(`
<rom>
  <scaling name="Broken" toexpr="x +* 2" storagetype="uint8"/>
  <table name="Idle" address="300" scaling="Broken"/>
</rom>`))
	require.NoError(t, err)
	require.Len(t, def.Tables, 1)
	idle := def.Tables[0]
	assert.Equal(t, Uint8, idle.Storage)
	require.NotNil(t, idle.BodyScaling)
	// unusable formula degrades to the raw value
	assert.Equal(t, 9.0, idle.BodyScaling.Apply(9))
}

func TestDefinition_Lookup(t *testing.T) {
	def, err := Parse(strings.NewReader(`
<rom>
  <scaling name="First" toexpr="x + 1"/>
  <scaling name="Second" toexpr="x + 2"/>
  <table name="Dup" address="100" scaling="First"/>
  <table name="Dup" address="200" scaling="Second"/>
</rom>`))
	require.NoError(t, err)

	tbl, ok := def.Lookup("Dup")
	require.True(t, ok)
	assert.Equal(t, int64(0x200), tbl.BodyAddress, "later duplicate wins")

	_, ok = def.Lookup("Missing")
	assert.False(t, ok)
}

func TestParseStorageType(t *testing.T) {
	tests := []struct {
		in     string
		expect StorageType
		ok     bool
	}{
		{"", Uint16, true},
		{"uint16", Uint16, true},
		{"uint8", Uint8, true},
		{"int8", Int8, true},
		{"float", Float32, true},
		{"float32", Float32, true},
		{"uint32", Uint16, false},
	}
	for _, tt := range tests {
		st, err := ParseStorageType(tt.in)
		if tt.ok {
			require.NoError(t, err, tt.in)
		} else {
			require.Error(t, err, tt.in)
		}
		assert.Equal(t, tt.expect, st, tt.in)
	}
}

func TestStorageTypeSize(t *testing.T) {
	assert.Equal(t, 1, Uint8.Size())
	assert.Equal(t, 1, Int8.Size())
	assert.Equal(t, 2, Uint16.Size())
	assert.Equal(t, 4, Float32.Size())
}
