package rater

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"imagerater/internal/dto"
	"imagerater/internal/model"
)

type pageRequest struct {
	Filter   model.Filter
	Page     int
	PageSize int
}

// fakeBackend serves an in-memory image list and records every call.
type fakeBackend struct {
	mu sync.Mutex

	images []model.ImageWithRating

	countsCalls   int
	pageRequests  []pageRequest
	findCalls     int
	rateCalls     int
	ratedPayloads map[int64][2]int

	countsErr error
	imagesErr error
	findErr   error
	rateErr   map[int64]error

	// gates block Images for a page until the channel is closed; entered
	// is signalled once the call is waiting.
	gates   map[int]chan struct{}
	entered chan int

	// countsGate and findGate hold the next Counts or FindImage call until
	// closed; held receives "counts" or "find" once the call is waiting.
	countsGate chan struct{}
	findGate   chan struct{}
	held       chan string
}

func ptr(v int) *int { return &v }

func newFakeBackend(n int) *fakeBackend {
	f := &fakeBackend{
		ratedPayloads: make(map[int64][2]int),
		rateErr:       make(map[int64]error),
		gates:         make(map[int]chan struct{}),
		entered:       make(chan int, 8),
		held:          make(chan string, 8),
	}
	for i := 1; i <= n; i++ {
		f.images = append(f.images, model.ImageWithRating{
			Image: model.Image{
				ID:       int64(i),
				Filename: fmt.Sprintf("set/img_%03d.jpg", i),
				Path:     fmt.Sprintf("sample_images/set/img_%03d.jpg", i),
			},
		})
	}
	return f
}

// rate stores a rating directly, as if submitted earlier.
func (f *fakeBackend) rate(id int64, r1, r2 int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images[id-1].Rating1 = ptr(r1)
	f.images[id-1].Rating2 = ptr(r2)
}

func (f *fakeBackend) filtered(filter model.Filter) []model.ImageWithRating {
	var out []model.ImageWithRating
	for _, img := range f.images {
		if filter == model.FilterUnrated && img.Rating1 != nil {
			continue
		}
		out = append(out, img)
	}
	return out
}

// Counts snapshots the counts before waiting on countsGate, so a held call
// answers with the state at the time it was made.
func (f *fakeBackend) Counts(ctx context.Context, user string) (dto.Counts, error) {
	f.mu.Lock()
	f.countsCalls++
	counts := dto.Counts{Total: len(f.images), Unrated: len(f.filtered(model.FilterUnrated))}
	err := f.countsErr
	gate := f.countsGate
	f.countsGate = nil
	f.mu.Unlock()

	if gate != nil {
		f.held <- "counts"
		<-gate
	}
	if err != nil {
		return dto.Counts{}, err
	}
	return counts, nil
}

func (f *fakeBackend) Images(ctx context.Context, user string, filter model.Filter, page, pageSize int) ([]model.ImageWithRating, error) {
	f.mu.Lock()
	f.pageRequests = append(f.pageRequests, pageRequest{Filter: filter, Page: page, PageSize: pageSize})
	gate := f.gates[page]
	f.mu.Unlock()

	if gate != nil {
		f.entered <- page
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.imagesErr != nil {
		return nil, f.imagesErr
	}
	list := f.filtered(filter)
	start := Offset(page, pageSize)
	if start >= len(list) {
		return []model.ImageWithRating{}, nil
	}
	end := min(start+pageSize, len(list))
	return append([]model.ImageWithRating(nil), list[start:end]...), nil
}

func (f *fakeBackend) FindImage(ctx context.Context, user string, filter model.Filter, filename string, pageSize int) (int, error) {
	f.mu.Lock()
	f.findCalls++
	gate := f.findGate
	f.findGate = nil
	f.mu.Unlock()

	if gate != nil {
		f.held <- "find"
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return 0, f.findErr
	}
	for i, img := range f.filtered(filter) {
		if strings.Contains(strings.ToLower(img.Filename), strings.ToLower(filename)) {
			return i/pageSize + 1, nil
		}
	}
	return 0, &NotFoundError{Message: fmt.Sprintf("No image matching '%s' was found.", filename)}
}

func (f *fakeBackend) RateImage(ctx context.Context, imageID int64, user string, rating1, rating2 int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rateCalls++
	if err := f.rateErr[imageID]; err != nil {
		return err
	}
	f.ratedPayloads[imageID] = [2]int{rating1, rating2}
	f.images[imageID-1].Rating1 = ptr(rating1)
	f.images[imageID-1].Rating2 = ptr(rating2)
	return nil
}

func (f *fakeBackend) requests() []pageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pageRequest(nil), f.pageRequests...)
}

var errBoom = errors.New("boom")
