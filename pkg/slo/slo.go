package slo

// Metric names with dedicated evaluation logic. SLOs with any other metric
// name fall back to a generic target comparison.
const (
	MetricTemperatureComfort    = "temperature_comfort"
	MetricHumidityControl       = "humidity_control"
	MetricAirQualityCO2         = "air_quality_co2"
	MetricSecurityLighting      = "security_lighting"
	MetricEmergencyReadiness    = "emergency_readiness"
	MetricEnergyEfficiency      = "energy_efficiency"
	MetricOccupancyOptimization = "occupancy_optimization"
)

// Score categories used for roll-up reporting.
const (
	CategoryComfort       = "comfort"
	CategoryEnergy        = "energy"
	CategorySecurity      = "security"
	CategoryEnvironmental = "environmental"
)

// SLO is a declarative service-level objective for a room. SLOs are persisted
// externally; the evaluation engine treats them as read-only input.
type SLO struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Metric      string             `json:"metric"`
	TargetValue float64            `json:"target_value"`
	Weight      float64            `json:"weight"`
	Active      bool               `json:"active"`
	Config      map[string]float64 `json:"config,omitempty"`
	CreatedBy   string             `json:"created_by"`
	System      bool               `json:"is_system_defined"`
}

// configValue reads a threshold from the SLO config map, falling back to a
// default when the key is absent.
func (s SLO) configValue(key string, fallback float64) float64 {
	if v, ok := s.Config[key]; ok {
		return v
	}
	return fallback
}

// Defaults returns the six system-defined SLOs seeded on first run.
func Defaults(createdBy string) []SLO {
	return []SLO{
		{
			Name:        "Temperature Comfort",
			Description: "Maintain temperature within comfort range for occupants",
			Metric:      MetricTemperatureComfort,
			TargetValue: 23.0,
			Weight:      0.25,
			Active:      true,
			Config:      map[string]float64{"min_temp": 22, "max_temp": 24},
			CreatedBy:   createdBy,
			System:      true,
		},
		{
			Name:        "Energy Efficiency",
			Description: "Optimize energy usage based on occupancy patterns",
			Metric:      MetricEnergyEfficiency,
			TargetValue: 0.8,
			Weight:      0.20,
			Active:      true,
			Config:      map[string]float64{"max_devices_unoccupied": 1, "efficiency_threshold": 0.7},
			CreatedBy:   createdBy,
			System:      true,
		},
		{
			Name:        "Security Lighting",
			Description: "Maintain minimum lighting for security surveillance",
			Metric:      MetricSecurityLighting,
			TargetValue: 1.0,
			Weight:      0.15,
			Active:      true,
			Config:      map[string]float64{"min_lights": 1},
			CreatedBy:   createdBy,
			System:      true,
		},
		{
			Name:        "Air Quality CO2",
			Description: "Maintain CO2 levels below threshold for health",
			Metric:      MetricAirQualityCO2,
			TargetValue: 800.0,
			Weight:      0.20,
			Active:      true,
			Config:      map[string]float64{"max_co2": 800},
			CreatedBy:   createdBy,
			System:      true,
		},
		{
			Name:        "Occupancy Optimization",
			Description: "Scale building systems based on occupancy levels",
			Metric:      MetricOccupancyOptimization,
			TargetValue: 1.0,
			Weight:      0.10,
			Active:      true,
			Config:      map[string]float64{"max_hvac_unoccupied": 0, "max_lights_unoccupied": 1},
			CreatedBy:   createdBy,
			System:      true,
		},
		{
			Name:        "Humidity Control",
			Description: "Maintain optimal humidity levels for comfort",
			Metric:      MetricHumidityControl,
			TargetValue: 50.0,
			Weight:      0.10,
			Active:      true,
			Config:      map[string]float64{"min_humidity": 40, "max_humidity": 60},
			CreatedBy:   createdBy,
			System:      true,
		},
	}
}
