package slo

import (
	"fmt"
	"math"
	"time"

	"github.com/buildsense/buildsense/pkg/building"
)

// Violation thresholds. An SLO scoring below violationThreshold is recorded
// as a violation; 0.8 exactly is compliant.
const violationThreshold = 0.8

// Priority tags attached to per-SLO results.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Violation severities, derived from the compliance score.
const (
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Result is the outcome of evaluating a single SLO.
type Result struct {
	SLOName        string  `json:"slo_name"`
	Metric         string  `json:"metric"`
	Expected       string  `json:"expected_value"`
	Actual         string  `json:"actual_value"`
	Compliance     float64 `json:"compliance_score"`
	Recommendation string  `json:"recommendation"`
	Priority       string  `json:"priority"`
}

// Violation records an SLO whose compliance fell below the violation threshold.
type Violation struct {
	SLOName        string `json:"slo_name"`
	Expected       string `json:"expected"`
	Actual         string `json:"actual"`
	Severity       string `json:"severity"`
	Recommendation string `json:"recommendation"`
}

// Evaluation aggregates the results of one evaluation pass.
type Evaluation struct {
	// OverallCompliance is the weight-normalized compliance over active
	// SLOs, in [0,1]. Zero when no SLOs are active.
	OverallCompliance float64            `json:"overall_compliance"`
	Results           []Result           `json:"slo_results"`
	Violations        []Violation        `json:"violations"`
	Categories        map[string]float64 `json:"scores"`
	EvaluatedAt       time.Time          `json:"evaluation_time"`
}

// Evaluate scores the given room snapshot against every active SLO.
//
// Aggregation divides the weighted compliance sum by the sum of active
// weights, so weights need not sum to 1. With no active SLOs the overall
// compliance is 0.
func Evaluate(snap building.Snapshot, slos []SLO) *Evaluation {
	eval := &Evaluation{
		Categories:  map[string]float64{},
		EvaluatedAt: time.Now(),
	}

	totalWeight := 0.0
	weightedScore := 0.0

	for _, s := range slos {
		if !s.Active {
			continue
		}

		res := evaluateOne(s, snap)
		eval.Results = append(eval.Results, res)

		totalWeight += s.Weight
		weightedScore += res.Compliance * s.Weight

		if res.Compliance < violationThreshold {
			eval.Violations = append(eval.Violations, Violation{
				SLOName:        s.Name,
				Expected:       res.Expected,
				Actual:         res.Actual,
				Severity:       severityFor(res.Compliance),
				Recommendation: res.Recommendation,
			})
		}
	}

	if totalWeight > 0 {
		eval.OverallCompliance = weightedScore / totalWeight
	}
	eval.Categories = categoryScores(eval.Results)

	return eval
}

func evaluateOne(s SLO, snap building.Snapshot) Result {
	switch s.Metric {
	case MetricTemperatureComfort:
		return evaluateTemperatureComfort(s, snap)
	case MetricHumidityControl:
		return evaluateHumidityControl(s, snap)
	case MetricAirQualityCO2:
		return evaluateAirQualityCO2(s, snap)
	case MetricSecurityLighting:
		return evaluateSecurityLighting(s, snap)
	case MetricEmergencyReadiness:
		return evaluateEmergencyReadiness(s, snap)
	case MetricEnergyEfficiency:
		return evaluateEnergyEfficiency(s, snap)
	case MetricOccupancyOptimization:
		return evaluateOccupancyOptimization(s, snap)
	default:
		return evaluateGeneric(s, snap)
	}
}

// evaluateTemperatureComfort scores 1.0 inside [min_temp, max_temp] and
// decays linearly to 0 over a 5°C band beyond the nearest bound.
func evaluateTemperatureComfort(s SLO, snap building.Snapshot) Result {
	temp := snap.Sensors.Temperature
	minTemp := s.configValue("min_temp", 22)
	maxTemp := s.configValue("max_temp", 24)

	var compliance float64
	var recommendation string

	switch {
	case temp >= minTemp && temp <= maxTemp:
		compliance = 1.0
		recommendation = "Temperature within comfort range"
	case temp < minTemp:
		deviation := minTemp - temp
		compliance = math.Max(0, 1.0-deviation/5.0)
		recommendation = fmt.Sprintf("Temperature too low. Increase heating by %.1f°C", deviation)
	default:
		deviation := temp - maxTemp
		compliance = math.Max(0, 1.0-deviation/5.0)
		recommendation = fmt.Sprintf("Temperature too high. Increase cooling by %.1f°C", deviation)
	}

	priority := PriorityLow
	if compliance < 0.6 {
		priority = PriorityHigh
	} else if compliance < 0.8 {
		priority = PriorityMedium
	}

	return Result{
		SLOName:        s.Name,
		Metric:         s.Metric,
		Expected:       fmt.Sprintf("%g-%g°C", minTemp, maxTemp),
		Actual:         fmt.Sprintf("%g°C", temp),
		Compliance:     compliance,
		Recommendation: recommendation,
		Priority:       priority,
	}
}

// evaluateHumidityControl mirrors the temperature metric with a 30-point
// linear decay band.
func evaluateHumidityControl(s SLO, snap building.Snapshot) Result {
	humidity := snap.Sensors.Humidity
	minHum := s.configValue("min_humidity", 40)
	maxHum := s.configValue("max_humidity", 60)

	var compliance float64
	var recommendation string

	switch {
	case humidity >= minHum && humidity <= maxHum:
		compliance = 1.0
		recommendation = "Humidity levels optimal"
	case humidity < minHum:
		deviation := minHum - humidity
		compliance = math.Max(0, 1.0-deviation/30.0)
		recommendation = fmt.Sprintf("Humidity too low. Increase by %.1f%%", deviation)
	default:
		deviation := humidity - maxHum
		compliance = math.Max(0, 1.0-deviation/30.0)
		recommendation = fmt.Sprintf("Humidity too high. Reduce by %.1f%%", deviation)
	}

	return Result{
		SLOName:        s.Name,
		Metric:         s.Metric,
		Expected:       fmt.Sprintf("%g-%g%%", minHum, maxHum),
		Actual:         fmt.Sprintf("%g%%", humidity),
		Compliance:     compliance,
		Recommendation: recommendation,
		Priority:       PriorityMedium,
	}
}

// evaluateAirQualityCO2 applies a superlinear penalty above max_co2: small
// excursions barely register while large ones are penalized heavily.
func evaluateAirQualityCO2(s SLO, snap building.Snapshot) Result {
	co2 := snap.Sensors.CO2
	maxCO2 := s.configValue("max_co2", 800)

	var compliance float64
	var recommendation string

	if co2 <= maxCO2 {
		compliance = 1.0
		recommendation = "CO2 levels within acceptable range"
	} else {
		excess := co2 - maxCO2
		compliance = math.Max(0, 1.0-math.Pow(excess/1000.0, 1.5))
		recommendation = fmt.Sprintf("CO2 levels too high. Increase ventilation to reduce by %gppm", excess)
	}

	priority := PriorityLow
	if co2 > 1200 {
		priority = PriorityHigh
	} else if co2 > maxCO2 {
		priority = PriorityMedium
	}

	return Result{
		SLOName:        s.Name,
		Metric:         s.Metric,
		Expected:       fmt.Sprintf("≤%gppm", maxCO2),
		Actual:         fmt.Sprintf("%gppm", co2),
		Compliance:     compliance,
		Recommendation: recommendation,
		Priority:       priority,
	}
}

// evaluateSecurityLighting scores the fraction of required lights that are on.
func evaluateSecurityLighting(s SLO, snap building.Snapshot) Result {
	lights := snap.DevicesOfType(building.DeviceTypeLighting)
	lightsOn := 0
	for _, d := range lights {
		if d.On() {
			lightsOn++
		}
	}
	minLights := s.configValue("min_lights", 1)

	var compliance float64
	var recommendation string

	if float64(lightsOn) >= minLights {
		compliance = 1.0
		recommendation = "Security lighting requirements met"
	} else {
		if minLights > 0 {
			compliance = float64(lightsOn) / minLights
		}
		recommendation = fmt.Sprintf("Insufficient lighting for security. Need %g more lights", minLights-float64(lightsOn))
	}

	priority := PriorityMedium
	if compliance < 0.5 {
		priority = PriorityHigh
	}

	return Result{
		SLOName:        s.Name,
		Metric:         s.Metric,
		Expected:       fmt.Sprintf("≥%g lights on", minLights),
		Actual:         fmt.Sprintf("%d/%d lights on", lightsOn, len(lights)),
		Compliance:     compliance,
		Recommendation: recommendation,
		Priority:       priority,
	}
}

// evaluateEmergencyReadiness scores the fraction of required emergency and
// security devices that are on.
func evaluateEmergencyReadiness(s SLO, snap building.Snapshot) Result {
	var emergency []building.Device
	for _, d := range snap.Devices {
		if d.Type == building.DeviceTypeEmergency || d.Type == building.DeviceTypeSecurity {
			emergency = append(emergency, d)
		}
	}
	on := 0
	for _, d := range emergency {
		if d.On() {
			on++
		}
	}
	required := s.configValue("required_devices", float64(len(emergency)))

	var compliance float64
	var recommendation string

	if float64(on) >= required {
		compliance = 1.0
		recommendation = "Emergency systems operational"
	} else {
		if required > 0 {
			compliance = float64(on) / required
		}
		recommendation = fmt.Sprintf("Emergency readiness compromised. %g devices offline", required-float64(on))
	}

	priority := PriorityMedium
	if compliance < 0.8 {
		priority = PriorityHigh
	}

	return Result{
		SLOName:        s.Name,
		Metric:         s.Metric,
		Expected:       fmt.Sprintf("%g emergency devices active", required),
		Actual:         fmt.Sprintf("%d/%d devices active", on, len(emergency)),
		Compliance:     compliance,
		Recommendation: recommendation,
		Priority:       priority,
	}
}

// evaluateEnergyEfficiency compares the on-device count against an
// occupancy-normalized expectation (occupancy/5, capped at 1) with a 20%
// tolerance band; unoccupied rooms are held to max_devices_unoccupied.
func evaluateEnergyEfficiency(s SLO, snap building.Snapshot) Result {
	occupancy := snap.Sensors.Occupancy
	devicesOn := snap.CountOn()
	totalDevices := len(snap.Devices)

	maxUnoccupied := s.configValue("max_devices_unoccupied", 1)

	var compliance float64
	var recommendation string

	if occupancy == 0 {
		if float64(devicesOn) <= maxUnoccupied {
			compliance = 1.0
		} else {
			compliance = math.Max(0, 1.0-(float64(devicesOn)-maxUnoccupied)/float64(totalDevices))
		}
		recommendation = fmt.Sprintf("Unoccupied room has %d devices on. Target: ≤%g", devicesOn, maxUnoccupied)
	} else {
		expected := math.Min(1.0, float64(occupancy)/5.0)
		actual := 0.0
		if totalDevices > 0 {
			actual = float64(devicesOn) / float64(totalDevices)
		}

		if actual <= expected+0.2 {
			compliance = 1.0
			recommendation = "Energy usage optimized for current occupancy"
		} else {
			compliance = math.Max(0, 1.0-(actual-expected))
			recommendation = fmt.Sprintf("Energy usage high for %d occupants. Consider reducing device usage", occupancy)
		}
	}

	priority := PriorityLow
	if compliance < 0.7 {
		priority = PriorityMedium
	}

	return Result{
		SLOName:        s.Name,
		Metric:         s.Metric,
		Expected:       fmt.Sprintf("≤%g devices when unoccupied", maxUnoccupied),
		Actual:         fmt.Sprintf("%d/%d devices on, occupancy: %d", devicesOn, totalDevices, occupancy),
		Compliance:     compliance,
		Recommendation: recommendation,
		Priority:       priority,
	}
}

// evaluateOccupancyOptimization checks HVAC and lighting usage against
// occupancy. Unoccupied rooms average two sub-scores against configured
// maxima; occupied rooms use a 30% tolerance band around the
// occupancy-normalized expected active ratio.
func evaluateOccupancyOptimization(s SLO, snap building.Snapshot) Result {
	occupancy := snap.Sensors.Occupancy

	hvacOn := 0
	lightsOn := 0
	totalSystems := 0
	for _, d := range snap.Devices {
		switch d.Type {
		case building.DeviceTypeHVAC:
			totalSystems++
			if d.On() {
				hvacOn++
			}
		case building.DeviceTypeLighting:
			totalSystems++
			if d.On() {
				lightsOn++
			}
		}
	}

	var compliance float64
	var recommendation string

	if occupancy == 0 {
		maxHVAC := s.configValue("max_hvac_unoccupied", 0)
		maxLights := s.configValue("max_lights_unoccupied", 1)

		hvacCompliance := 0.5
		if float64(hvacOn) <= maxHVAC {
			hvacCompliance = 1.0
		}
		lightCompliance := 0.7
		if float64(lightsOn) <= maxLights {
			lightCompliance = 1.0
		}

		compliance = (hvacCompliance + lightCompliance) / 2
		recommendation = "Optimize for unoccupied space"
	} else {
		expected := math.Min(float64(occupancy), 5) / 5.0
		actual := 0.0
		if totalSystems > 0 {
			actual = float64(hvacOn+lightsOn) / float64(totalSystems)
		}

		if math.Abs(actual-expected) <= 0.3 {
			compliance = 1.0
		} else {
			compliance = math.Max(0, 1.0-math.Abs(actual-expected))
		}
		recommendation = fmt.Sprintf("Optimization for %d occupants", occupancy)
	}

	return Result{
		SLOName:        s.Name,
		Metric:         s.Metric,
		Expected:       fmt.Sprintf("Optimized for %d occupants", occupancy),
		Actual:         fmt.Sprintf("%d HVAC, %d lights active", hvacOn, lightsOn),
		Compliance:     compliance,
		Recommendation: recommendation,
		Priority:       PriorityMedium,
	}
}

// evaluateGeneric handles custom SLOs with no dedicated metric function:
// a simple ratio against the target, 1.0 on exact match when the target is 0.
func evaluateGeneric(s SLO, snap building.Snapshot) Result {
	actual := snap.Sensors.ByName(s.Metric)
	target := s.TargetValue

	var compliance float64
	if target > 0 {
		compliance = math.Min(1.0, actual/target)
	} else if actual == target {
		compliance = 1.0
	} else {
		compliance = 0.5
	}

	return Result{
		SLOName:        s.Name,
		Metric:         s.Metric,
		Expected:       fmt.Sprintf("%g", target),
		Actual:         fmt.Sprintf("%g", actual),
		Compliance:     compliance,
		Recommendation: fmt.Sprintf("Current %s: %g, Target: %g", s.Metric, actual, target),
		Priority:       PriorityLow,
	}
}

// categoryMapping assigns each known metric to exactly one report category.
// Unknown metrics count toward environmental.
var categoryMapping = map[string]string{
	MetricTemperatureComfort:    CategoryComfort,
	MetricHumidityControl:       CategoryComfort,
	MetricAirQualityCO2:         CategoryEnvironmental,
	MetricOccupancyOptimization: CategoryEnvironmental,
	MetricEnergyEfficiency:      CategoryEnergy,
	MetricSecurityLighting:      CategorySecurity,
	MetricEmergencyReadiness:    CategorySecurity,
}

// categoryScores averages compliance per category. Categories with no
// evaluated SLOs default to 1.0 — an intentional optimistic policy: an
// unmeasured category is reported as fully compliant rather than excluded,
// which inflates overall category reporting when few SLOs are configured.
func categoryScores(results []Result) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}

	for _, r := range results {
		category, ok := categoryMapping[r.Metric]
		if !ok {
			category = CategoryEnvironmental
		}
		sums[category] += r.Compliance
		counts[category]++
	}

	out := map[string]float64{}
	for _, category := range []string{CategoryComfort, CategoryEnergy, CategorySecurity, CategoryEnvironmental} {
		if counts[category] > 0 {
			out[category] = sums[category] / float64(counts[category])
		} else {
			out[category] = 1.0
		}
	}
	return out
}

func severityFor(compliance float64) string {
	switch {
	case compliance < 0.3:
		return SeverityCritical
	case compliance < 0.6:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
