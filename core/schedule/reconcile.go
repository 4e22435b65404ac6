package schedule

import (
	"fmt"

	"github.com/kilianp07/castplan/core/model"
)

// Reconcile returns a copy of records with e applied to the record of e's
// program. When no such record exists a new one is appended with every other
// field unset.
func Reconcile(records []model.ScheduleRecord, e Edit) []model.ScheduleRecord {
	out := make([]model.ScheduleRecord, len(records), len(records)+1)
	copy(out, records)

	idx := indexOf(records, e.Program())
	if idx < 0 {
		return append(out, apply(model.ScheduleRecord{ProgramID: e.Program()}, e))
	}
	out[idx] = apply(records[idx].Clone(), e)
	return out
}

func apply(rec model.ScheduleRecord, e Edit) model.ScheduleRecord {
	switch v := e.(type) {
	case SetCaster:
		rec.CasterID = model.ID(v.CasterID)
	case SetForecaster:
		rec.ForecasterID = model.ID(v.ForecasterID)
	case SetCrosstalk:
		rec.HasCrosstalk = v.Value
	}
	return rec
}

// Find returns the record for programID.
func Find(records []model.ScheduleRecord, programID string) (model.ScheduleRecord, bool) {
	if i := indexOf(records, programID); i >= 0 {
		return records[i], true
	}
	return model.ScheduleRecord{}, false
}

// Validate checks that every record names a program and that no program appears twice.
func Validate(records []model.ScheduleRecord) error {
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if r.ProgramID == "" {
			return fmt.Errorf("record %d: programId is required", i)
		}
		if _, dup := seen[r.ProgramID]; dup {
			return fmt.Errorf("record %d: duplicate programId %s", i, r.ProgramID)
		}
		seen[r.ProgramID] = struct{}{}
	}
	return nil
}

func indexOf(records []model.ScheduleRecord, programID string) int {
	for i := range records {
		if records[i].ProgramID == programID {
			return i
		}
	}
	return -1
}
