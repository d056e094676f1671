package device

// SensorKind identifies a physical sensor.
type SensorKind string

const (
	SensorWater       SensorKind = "water_level"
	SensorBeans       SensorKind = "beans"
	SensorWaste       SensorKind = "waste"
	SensorTemperature SensorKind = "temperature"
	SensorCup         SensorKind = "cup"
)

// Level sensor defaults. Levels are percentages clamped to [0,100].
const (
	WaterThreshold = 20.0
	BeansThreshold = 10.0
	WasteThreshold = 90.0

	levelMin = 0.0
	levelMax = 100.0
)

// LevelSensor holds a bounded percentage reading with a policy threshold.
// Supply sensors (water, beans) are low when the value drops under the
// threshold; the waste sensor is full when the value reaches it.
type LevelSensor struct {
	kind      SensorKind
	threshold float64
	value     float64
}

func NewWaterSensor() *LevelSensor {
	return &LevelSensor{kind: SensorWater, threshold: WaterThreshold, value: levelMax}
}

func NewBeansSensor() *LevelSensor {
	return &LevelSensor{kind: SensorBeans, threshold: BeansThreshold, value: levelMax}
}

func NewWasteSensor() *LevelSensor {
	return &LevelSensor{kind: SensorWaste, threshold: WasteThreshold, value: levelMin}
}

func (s *LevelSensor) Kind() SensorKind { return s.kind }

func (s *LevelSensor) Value() float64 { return s.value }

func (s *LevelSensor) Threshold() float64 { return s.threshold }

// SetValue writes a reading, clamped into [0,100].
func (s *LevelSensor) SetValue(v float64) {
	s.value = clamp(v, levelMin, levelMax)
}

// Consume lowers the level by amount, stopping at zero.
func (s *LevelSensor) Consume(amount float64) {
	s.value = clamp(s.value-amount, levelMin, levelMax)
}

// Add raises the level by amount, stopping at 100.
func (s *LevelSensor) Add(amount float64) {
	s.value = clamp(s.value+amount, levelMin, levelMax)
}

// Low reports a supply level under its threshold.
func (s *LevelSensor) Low() bool { return s.value < s.threshold }

// Full reports a capacity level at or over its threshold.
func (s *LevelSensor) Full() bool { return s.value >= s.threshold }

// Temperature constants in °C.
const (
	AmbientC      = 25.0
	ReadyMinC     = 90.0
	ReadyMaxC     = 95.0
	TargetTempC   = 93.0
	OverheatCeilC = 120.0
)

// TemperatureSensor monitors water temperature. The reading is unbounded;
// it is mutated only by the heater and by power-off cool-down.
type TemperatureSensor struct {
	value float64
}

func NewTemperatureSensor() *TemperatureSensor {
	return &TemperatureSensor{value: AmbientC}
}

func (s *TemperatureSensor) Kind() SensorKind { return SensorTemperature }

func (s *TemperatureSensor) Value() float64 { return s.value }

func (s *TemperatureSensor) SetValue(v float64) { s.value = v }

// Ready reports the value inside the brewing band.
func (s *TemperatureSensor) Ready() bool {
	return s.value >= ReadyMinC && s.value <= ReadyMaxC
}

// Overheated reports the value past the hard safety ceiling.
func (s *TemperatureSensor) Overheated() bool {
	return s.value > OverheatCeilC
}

// CupSensor reports cup presence on the drip tray.
type CupSensor struct {
	present bool
}

func NewCupSensor() *CupSensor { return &CupSensor{} }

func (s *CupSensor) Kind() SensorKind { return SensorCup }

func (s *CupSensor) Place() { s.present = true }

func (s *CupSensor) Remove() { s.present = false }

func (s *CupSensor) Present() bool { return s.present }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
