package review

import (
	"errors"

	"gradehub/internal/question"
	"gradehub/internal/scoring"
)

var ErrUnknownQuestion = errors.New("question not part of this result")

// Notes longer than this are truncated rather than rejected.
const maxNoteRunes = 2000

// Overlay is one reviewer's working copy of corrections for a single result.
// It is seeded from the automatic verdicts and only stores entries for
// questions the reviewer explicitly touched, so recomputing the reviewed
// score always blends edited questions with the untouched automatic results.
//
// An Overlay is a per-result session object: callers hold one per open review
// and persist its corrections through the service, which serializes
// concurrent saves with the result's version token.
type Overlay struct {
	questions   map[string]question.Question
	verdicts    map[string]scoring.Verdict
	corrections map[string]ManualCorrection
}

// NewOverlay builds an overlay over the automatic verdicts, pre-populated
// with corrections from an earlier review session if any were saved.
func NewOverlay(questions []question.Question, verdicts []scoring.Verdict, existing map[string]ManualCorrection) *Overlay {
	o := &Overlay{
		questions:   make(map[string]question.Question, len(questions)),
		verdicts:    make(map[string]scoring.Verdict, len(verdicts)),
		corrections: make(map[string]ManualCorrection, len(existing)),
	}
	for _, q := range questions {
		o.questions[q.ID] = q
	}
	for _, v := range verdicts {
		o.verdicts[v.QuestionID] = v
	}
	for id, c := range existing {
		if _, ok := o.questions[id]; !ok {
			continue
		}
		c.Points = o.clampPoints(id, c.Points)
		o.corrections[id] = c
	}
	return o
}

// ToggleValidity flips the validity flag for a question. The first toggle
// seeds a correction from the current automatic verdict before flipping;
// every toggle re-derives points as full marks when valid, zero when not.
func (o *Overlay) ToggleValidity(questionID string) error {
	q, ok := o.questions[questionID]
	if !ok {
		return ErrUnknownQuestion
	}

	c, exists := o.corrections[questionID]
	if !exists {
		c = o.seedCorrection(questionID)
	}
	c.IsValid = !c.IsValid
	if c.IsValid {
		c.Points = float64(q.Points)
	} else {
		c.Points = 0
	}
	o.corrections[questionID] = c
	return nil
}

// SetPoints stores an awarded-points override, clamped to the question's
// range. Out-of-range input is recovered locally, not rejected.
func (o *Overlay) SetPoints(questionID string, points float64) error {
	if _, ok := o.questions[questionID]; !ok {
		return ErrUnknownQuestion
	}
	c, exists := o.corrections[questionID]
	if !exists {
		c = o.seedCorrection(questionID)
	}
	c.Points = o.clampPoints(questionID, points)
	o.corrections[questionID] = c
	return nil
}

// SetNote attaches a free-text note to a question's correction.
func (o *Overlay) SetNote(questionID, note string) error {
	if _, ok := o.questions[questionID]; !ok {
		return ErrUnknownQuestion
	}
	c, exists := o.corrections[questionID]
	if !exists {
		c = o.seedCorrection(questionID)
	}
	if runes := []rune(note); len(runes) > maxNoteRunes {
		note = string(runes[:maxNoteRunes])
	}
	c.Note = note
	o.corrections[questionID] = c
	return nil
}

// ReviewedScore folds every question: the manual correction when one exists,
// the automatic verdict otherwise. A reviewer who corrected 2 of 10
// questions still gets a total reflecting the other 8 automatic results.
func (o *Overlay) ReviewedScore() float64 {
	total := 0.0
	for id := range o.questions {
		if c, ok := o.corrections[id]; ok {
			total += c.Points
			continue
		}
		if v, ok := o.verdicts[id]; ok {
			total += v.AwardedPoints
		}
	}
	return total
}

// Corrections returns a copy of the current correction set.
func (o *Overlay) Corrections() map[string]ManualCorrection {
	out := make(map[string]ManualCorrection, len(o.corrections))
	for id, c := range o.corrections {
		out[id] = c
	}
	return out
}

func (o *Overlay) seedCorrection(questionID string) ManualCorrection {
	v := o.verdicts[questionID]
	return ManualCorrection{
		QuestionID: questionID,
		IsValid:    v.IsCorrect,
		Points:     v.AwardedPoints,
	}
}

func (o *Overlay) clampPoints(questionID string, points float64) float64 {
	max := float64(o.questions[questionID].Points)
	if points < 0 {
		return 0
	}
	if points > max {
		return max
	}
	return points
}
