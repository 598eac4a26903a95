package rater

import (
	"fmt"

	"imagerater/internal/model"
)

// Field selects one of the two ratings of an image.
type Field int

const (
	Rating1 Field = iota + 1
	Rating2
)

func (f Field) String() string {
	switch f {
	case Rating1:
		return "rating1"
	case Rating2:
		return "rating2"
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// ParseField accepts "1", "2", "rating1" or "rating2".
func ParseField(s string) (Field, error) {
	switch s {
	case "1", "rating1":
		return Rating1, nil
	case "2", "rating2":
		return Rating2, nil
	}
	return 0, validationf("unknown rating field %q", s)
}

// Edit is a partial, not yet submitted rating update.
type Edit struct {
	Rating1 *int
	Rating2 *int
}

func (e Edit) get(f Field) *int {
	if f == Rating1 {
		return e.Rating1
	}
	return e.Rating2
}

func (e *Edit) set(f Field, v int) {
	if f == Rating1 {
		e.Rating1 = &v
	} else {
		e.Rating2 = &v
	}
}

func (e Edit) equal(o Edit) bool {
	return equalPtr(e.Rating1, o.Rating1) && equalPtr(e.Rating2, o.Rating2)
}

func equalPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func serverValue(img model.ImageWithRating, f Field) *int {
	if f == Rating1 {
		return img.Rating1
	}
	return img.Rating2
}

// submission is one image's resolved rating pair, ready to send.
type submission struct {
	ImageID    int64
	Rating1    int
	Rating2    int
	wasUnrated bool
	edit       Edit
}

// Editor holds the displayed page of images and the overlay of local edits
// on top of their server-known ratings. It is not safe for concurrent use.
type Editor struct {
	images  []model.ImageWithRating
	index   map[int64]int
	overlay map[int64]Edit
}

// NewEditor creates an Editor showing images with an empty overlay.
func NewEditor(images []model.ImageWithRating) *Editor {
	e := &Editor{}
	e.Reset(images)
	return e
}

// Reset replaces the displayed images and empties the overlay.
func (e *Editor) Reset(images []model.ImageWithRating) {
	e.images = append([]model.ImageWithRating(nil), images...)
	e.index = make(map[int64]int, len(images))
	for i, img := range e.images {
		e.index[img.ID] = i
	}
	e.overlay = make(map[int64]Edit)
}

// Images returns a copy of the displayed images.
func (e *Editor) Images() []model.ImageWithRating {
	return append([]model.ImageWithRating(nil), e.images...)
}

// Image returns the displayed image with the given id.
func (e *Editor) Image(id int64) (model.ImageWithRating, bool) {
	i, ok := e.index[id]
	if !ok {
		return model.ImageWithRating{}, false
	}
	return e.images[i], true
}

// RecordEdit sets one rating of a displayed image in the overlay. No I/O
// happens and the other field is not looked at.
func (e *Editor) RecordEdit(imageID int64, field Field, value int) error {
	if field != Rating1 && field != Rating2 {
		return validationf("unknown rating field %d", int(field))
	}
	if !model.ValidRating(value) {
		return validationf("rating must be between %d and %d, got %d", model.MinRating, model.MaxRating, value)
	}
	if _, ok := e.index[imageID]; !ok {
		return validationf("image %d is not on the current page", imageID)
	}

	edit := e.overlay[imageID]
	edit.set(field, value)
	e.overlay[imageID] = edit
	return nil
}

// EffectiveValue resolves what the UI shows as selected: the overlay value
// if one was recorded, else the server value, else unset (ok == false).
func (e *Editor) EffectiveValue(img model.ImageWithRating, field Field) (value int, ok bool) {
	if edit, found := e.overlay[img.ID]; found {
		if v := edit.get(field); v != nil {
			return *v, true
		}
	}
	if v := serverValue(img, field); v != nil {
		return *v, true
	}
	return 0, false
}

// Pending returns how many images have unsubmitted edits.
func (e *Editor) Pending() int {
	return len(e.overlay)
}

// Edits returns a copy of the overlay.
func (e *Editor) Edits() map[int64]Edit {
	edits := make(map[int64]Edit, len(e.overlay))
	for id, edit := range e.overlay {
		edits[id] = edit
	}
	return edits
}

// ClearEdits empties the overlay.
func (e *Editor) ClearEdits() {
	e.overlay = make(map[int64]Edit)
}

// restore puts carried-over edits back for images still displayed.
func (e *Editor) restore(edits map[int64]Edit) {
	for id, edit := range edits {
		if _, ok := e.index[id]; ok {
			e.overlay[id] = edit
		}
	}
}

// prepare resolves every overlay entry into a full rating pair, falling
// back to the server value for a field the user did not touch. Entries
// that still miss a rating are returned as rejected. Both results are
// ordered as the images are displayed.
func (e *Editor) prepare() ([]submission, []RejectedEdit) {
	var batch []submission
	var rejected []RejectedEdit

	for _, img := range e.images {
		edit, ok := e.overlay[img.ID]
		if !ok {
			continue
		}

		r1, ok1 := e.EffectiveValue(img, Rating1)
		r2, ok2 := e.EffectiveValue(img, Rating2)
		if !ok1 || !ok2 {
			rej := RejectedEdit{ImageID: img.ID, Filename: img.Filename}
			if !ok1 {
				rej.Missing = append(rej.Missing, Rating1)
			}
			if !ok2 {
				rej.Missing = append(rej.Missing, Rating2)
			}
			rejected = append(rejected, rej)
			continue
		}

		batch = append(batch, submission{
			ImageID:    img.ID,
			Rating1:    r1,
			Rating2:    r2,
			wasUnrated: img.Rating1 == nil && img.Rating2 == nil,
			edit:       edit,
		})
	}
	return batch, rejected
}
