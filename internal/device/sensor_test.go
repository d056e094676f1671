package device

import "testing"

func TestLevelSensor_ClampAndThresholds(t *testing.T) {
	water := NewWaterSensor()
	if water.Value() != 100 {
		t.Fatalf("new water sensor value=%v, want 100", water.Value())
	}
	if water.Low() {
		t.Fatal("full water sensor reported low")
	}

	water.Consume(85)
	if water.Value() != 15 {
		t.Fatalf("after consume value=%v, want 15", water.Value())
	}
	if !water.Low() {
		t.Fatal("water at 15 should be low (threshold 20)")
	}

	// Exact threshold is not low.
	water.SetValue(WaterThreshold)
	if water.Low() {
		t.Fatal("water exactly at threshold should not be low")
	}

	// Consumption never goes below zero.
	water.Consume(1000)
	if water.Value() != 0 {
		t.Fatalf("over-consumption value=%v, want 0", water.Value())
	}

	// Add never goes above 100.
	water.Add(1000)
	if water.Value() != 100 {
		t.Fatalf("over-add value=%v, want 100", water.Value())
	}

	water.SetValue(-5)
	if water.Value() != 0 {
		t.Fatalf("negative SetValue clamps to 0, got %v", water.Value())
	}
	water.SetValue(120)
	if water.Value() != 100 {
		t.Fatalf("oversized SetValue clamps to 100, got %v", water.Value())
	}
}

func TestWasteSensor_FullAtThreshold(t *testing.T) {
	waste := NewWasteSensor()
	if waste.Value() != 0 {
		t.Fatalf("new waste sensor value=%v, want 0", waste.Value())
	}
	if waste.Full() {
		t.Fatal("empty waste sensor reported full")
	}

	waste.Add(89.9)
	if waste.Full() {
		t.Fatal("waste under threshold reported full")
	}
	waste.Add(0.1)
	if !waste.Full() {
		t.Fatal("waste at threshold (90) should be full")
	}
}

func TestTemperatureSensor_Bands(t *testing.T) {
	temp := NewTemperatureSensor()
	if temp.Value() != AmbientC {
		t.Fatalf("new sensor at %v, want ambient %v", temp.Value(), AmbientC)
	}
	if temp.Ready() {
		t.Fatal("ambient temperature should not be ready")
	}

	cases := []struct {
		value      float64
		ready      bool
		overheated bool
	}{
		{89.9, false, false},
		{90, true, false},
		{93, true, false},
		{95, true, false},
		{95.1, false, false},
		{120, false, false},
		{120.1, false, true},
	}
	for _, tc := range cases {
		temp.SetValue(tc.value)
		if temp.Ready() != tc.ready {
			t.Errorf("at %v: ready=%v, want %v", tc.value, temp.Ready(), tc.ready)
		}
		if temp.Overheated() != tc.overheated {
			t.Errorf("at %v: overheated=%v, want %v", tc.value, temp.Overheated(), tc.overheated)
		}
	}
}

func TestCupSensor(t *testing.T) {
	cup := NewCupSensor()
	if cup.Present() {
		t.Fatal("new cup sensor should report absent")
	}
	cup.Place()
	if !cup.Present() {
		t.Fatal("cup placed but not present")
	}
	cup.Remove()
	if cup.Present() {
		t.Fatal("cup removed but still present")
	}
}
