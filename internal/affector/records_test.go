package affector

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRecordSizes(t *testing.T) {
	if s := binary.Size(&CollisionRecord{}); s != CollisionRecordSize {
		t.Errorf("CollisionRecord is %d bytes, contract says %d", s, CollisionRecordSize)
	}
	if s := binary.Size(&ZoneRecord{}); s != ZoneRecordSize {
		t.Errorf("ZoneRecord is %d bytes, contract says %d", s, ZoneRecordSize)
	}
	if CollisionRecordSize%16 != 0 || ZoneRecordSize%16 != 0 {
		t.Error("record sizes must be multiples of the 16-byte GPU block")
	}
}

func TestEncodeRecords_Layout(t *testing.T) {
	recs := []CollisionRecord{
		{Position: mgl32.Vec3{1.5, 0, 0}, Radius: 2.25, Active: 1},
		{},
	}
	data, err := EncodeRecords(recs)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 2*CollisionRecordSize {
		t.Fatalf("encoded %d bytes, expected %d", len(data), 2*CollisionRecordSize)
	}

	// First float is Position.X, little-endian.
	if got := math.Float32frombits(binary.LittleEndian.Uint32(data[0:4])); got != 1.5 {
		t.Errorf("position.x decoded as %g", got)
	}
	// Fourth float is Radius.
	if got := math.Float32frombits(binary.LittleEndian.Uint32(data[12:16])); got != 2.25 {
		t.Errorf("radius decoded as %g", got)
	}
}

func TestEncodeRecords_Zones(t *testing.T) {
	recs := []ZoneRecord{{
		CollisionRecord: CollisionRecord{Active: 1},
		Mode:            ForceVortex,
		Strength:        3,
	}}
	data, err := EncodeRecords(recs)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != ZoneRecordSize {
		t.Fatalf("encoded %d bytes, expected %d", len(data), ZoneRecordSize)
	}

	// Mode sits immediately after the embedded collision record.
	if got := binary.LittleEndian.Uint32(data[CollisionRecordSize : CollisionRecordSize+4]); got != uint32(ForceVortex) {
		t.Errorf("mode decoded as %d", got)
	}
}

func TestForceModeStrings(t *testing.T) {
	modes := []ForceMode{
		ForceDirectional, ForceRadial, ForceVortex, ForceTurbulence,
		ForceDirectionalFalloff, ForceRigidStatic, ForceRigidDynamic,
	}
	for _, m := range modes {
		if m.String() == "unknown" {
			t.Errorf("mode %d has no name", m)
		}
	}
	if ForceMode(99).String() != "unknown" {
		t.Error("out-of-range mode should be unknown")
	}
}

func TestForceModeRigid(t *testing.T) {
	if !ForceRigidStatic.Rigid() || !ForceRigidDynamic.Rigid() {
		t.Error("rigid modes misreported")
	}
	if ForceDirectional.Rigid() || ForceVortex.Rigid() {
		t.Error("force modes misreported as rigid")
	}
}
