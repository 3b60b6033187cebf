package vitals

import "time"

// Threshold is the alarm band for one vital parameter. The warning band
// (WarnMin..WarnMax) nests inside the critical band (CritMin..CritMax); a
// nil bound means that side never alarms.
type Threshold struct {
	Parameter string   `json:"parameter"`
	WarnMin   *float64 `json:"warn_min,omitempty"`
	WarnMax   *float64 `json:"warn_max,omitempty"`
	CritMin   *float64 `json:"crit_min,omitempty"`
	CritMax   *float64 `json:"crit_max,omitempty"`
}

func f(v float64) *float64 { return &v }

// DefaultThresholds is the static threshold table, in evaluation order.
// Units: heart_rate bpm, spo2 %, temperature °C, respiratory_rate /min,
// blood pressure mmHg, blood_glucose mg/dL.
var DefaultThresholds = []Threshold{
	{Parameter: "heart_rate", CritMin: f(40), WarnMin: f(50), WarnMax: f(120), CritMax: f(140)},
	{Parameter: "spo2", CritMin: f(85), WarnMin: f(90)},
	{Parameter: "temperature", CritMin: f(35.0), WarnMin: f(36.0), WarnMax: f(38.5), CritMax: f(40.0)},
	{Parameter: "respiratory_rate", CritMin: f(8), WarnMin: f(10), WarnMax: f(24), CritMax: f(30)},
	{Parameter: "systolic_bp", CritMin: f(80), WarnMin: f(90), WarnMax: f(160), CritMax: f(180)},
	{Parameter: "diastolic_bp", CritMin: f(40), WarnMin: f(50), WarnMax: f(100), CritMax: f(120)},
	{Parameter: "blood_glucose", CritMin: f(54), WarnMin: f(70), WarnMax: f(180), CritMax: f(250)},
}

// parameterValue returns the measured value for a threshold parameter, or
// nil when the reading does not carry it.
func parameterValue(r *Reading, parameter string) *float64 {
	switch parameter {
	case "heart_rate":
		return r.HeartRate
	case "spo2":
		return r.SpO2
	case "temperature":
		return r.Temperature
	case "respiratory_rate":
		return r.RespiratoryRate
	case "systolic_bp":
		return r.SystolicBP
	case "diastolic_bp":
		return r.DiastolicBP
	case "blood_glucose":
		return r.BloodGlucose
	default:
		return nil
	}
}

// check classifies one value against the threshold. The critical band is
// tested first so a value outside both bands reports critical.
func (t Threshold) check(value float64) (severity, bound string, limit float64, violated bool) {
	if t.CritMin != nil && value < *t.CritMin {
		return SeverityCritical, BoundMin, *t.CritMin, true
	}
	if t.CritMax != nil && value > *t.CritMax {
		return SeverityCritical, BoundMax, *t.CritMax, true
	}
	if t.WarnMin != nil && value < *t.WarnMin {
		return SeverityWarning, BoundMin, *t.WarnMin, true
	}
	if t.WarnMax != nil && value > *t.WarnMax {
		return SeverityWarning, BoundMax, *t.WarnMax, true
	}
	return "", "", 0, false
}

// Evaluate checks a reading against the threshold table and returns an alarm
// event for the first violated parameter, or nil when every measured
// parameter is within bounds. At most one alarm per reading; extending this
// to one alarm per violated parameter is a deliberate extension point, the
// "no alarm when nominal" contract must hold either way. Evaluate is a pure
// function: no I/O, no side effects.
func Evaluate(r *Reading, table []Threshold) *AlarmEvent {
	for _, t := range table {
		value := parameterValue(r, t.Parameter)
		if value == nil {
			continue
		}
		severity, bound, limit, violated := t.check(*value)
		if !violated {
			continue
		}
		triggeredAt := r.RecordedAt
		if triggeredAt.IsZero() {
			triggeredAt = time.Now().UTC()
		}
		return &AlarmEvent{
			Type:        "alarm",
			PatientID:   r.PatientID,
			ReadingID:   r.ID,
			Parameter:   t.Parameter,
			Value:       *value,
			Threshold:   limit,
			Bound:       bound,
			Severity:    severity,
			TriggeredAt: triggeredAt,
		}
	}
	return nil
}
