// Package dst decides which fixed UTC offset the Europe/Amsterdam civil-time
// rule puts in effect at a given instant.
//
// Daylight saving time starts on the last Sunday of March at 01:00 UTC
// (02:00 local) and ends on the last Sunday of October at 01:00 UTC
// (03:00 local). Transition days come from a TransitionDays source: the
// Computed calendar rule, valid for any year, or the precomputed Table that
// only covers 2025-2030 and falls back to fixed days outside that range.
//
// Engine.Reconcile is the offset state machine driven by the clock loop:
// given the epoch and the offset currently applied it reports the offset that
// should be applied and whether it differs. OffsetState holds that offset for
// the lifetime of the loop.
package dst
