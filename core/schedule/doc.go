// Package schedule holds the pure update rules applied to a day's schedule
// collection while it is being edited.
//
// A collection is an ordered slice of model.ScheduleRecord keyed by program id.
// Reconcile applies one Edit and returns a new slice; the input is never
// modified, untouched records are carried over as-is and a record created for
// an unknown program is appended at the end.
package schedule
