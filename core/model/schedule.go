package model

// ScheduleRecord is the assignment of one program for the selected day.
// A nil CasterID or ForecasterID means the slot is unset and encodes as JSON null.
type ScheduleRecord struct {
	ProgramID    string  `json:"programId"`
	CasterID     *string `json:"casterId"`
	ForecasterID *string `json:"forecasterId"`
	HasCrosstalk bool    `json:"hasCrosstalk"`
}

// Clone returns a copy that shares no pointers with r.
func (r ScheduleRecord) Clone() ScheduleRecord {
	out := r
	out.CasterID = cloneID(r.CasterID)
	out.ForecasterID = cloneID(r.ForecasterID)
	return out
}

// Caster returns the assigned caster id or "" when unset.
func (r ScheduleRecord) Caster() string { return deref(r.CasterID) }

// Forecaster returns the assigned forecaster id or "" when unset.
func (r ScheduleRecord) Forecaster() string { return deref(r.ForecasterID) }

// CloneRecords deep-copies a schedule collection.
func CloneRecords(in []ScheduleRecord) []ScheduleRecord {
	if in == nil {
		return nil
	}
	out := make([]ScheduleRecord, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

// ID returns a pointer to id, or nil when id is empty.
func ID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func cloneID(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
