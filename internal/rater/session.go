package rater

import (
	"context"
	"errors"
	"strings"
	"sync"

	"imagerater/internal/dto"
	"imagerater/internal/logger"
	"imagerater/internal/model"

	"golang.org/x/sync/errgroup"
)

// Backend is the rating API the session talks to.
type Backend interface {
	Counts(ctx context.Context, user string) (dto.Counts, error)
	Images(ctx context.Context, user string, filter model.Filter, page, pageSize int) ([]model.ImageWithRating, error)
	// FindImage returns the 1-based page holding the first match. A
	// *NotFoundError is returned when nothing matches.
	FindImage(ctx context.Context, user string, filter model.Filter, filename string, pageSize int) (int, error)
	RateImage(ctx context.Context, imageID int64, user string, rating1, rating2 int) error
}

// Location is the part of the session state that can be deep-linked.
type Location struct {
	Page     int
	Filename string
}

// SubmitReport lists what a submission round did with the pending edits.
type SubmitReport struct {
	Submitted []int64
	Rejected  []RejectedEdit
}

// Option configures a Session.
type Option func(*Session)

// WithPageSize overrides DefaultPageSize.
func WithPageSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithFilter sets the filter the first load uses.
func WithFilter(f model.Filter) Option {
	return func(s *Session) {
		if f == model.FilterUnrated {
			s.filter = f
		}
	}
}

// WithLogger sets the logger used for discarded responses and submissions.
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// Session is one user's paging, filtering and rating state.
//
// Every page and counts fetch takes a token from a monotonically increasing
// counter. A response is applied only when its token is still the latest;
// otherwise it is dropped and the caller gets ErrStale. In-flight requests
// are never cancelled. Network calls are made without holding the lock.
type Session struct {
	backend  Backend
	user     string
	pageSize int
	logger   *logger.Logger

	mu          sync.Mutex
	filter      model.Filter
	page        int
	loadedPage  int // page the displayed images belong to, 0 before the first load
	counts      dto.Counts
	editor      *Editor
	pageToken   uint64
	countsToken uint64
	submitting  bool
}

// NewSession creates a session for user. The user name is supplied by the
// caller; the session never looks it up itself.
func NewSession(backend Backend, user string, opts ...Option) (*Session, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, validationf("a user name is required")
	}

	s := &Session{
		backend:  backend,
		user:     user,
		pageSize: DefaultPageSize,
		logger:   logger.Nop(),
		filter:   model.FilterAll,
		page:     1,
		editor:   NewEditor(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Session) User() string  { return s.user }
func (s *Session) PageSize() int { return s.pageSize }

func (s *Session) Filter() model.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Page returns the current 1-based page number. It only changes when a
// page was loaded, or to 1 when the filter changes.
func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// LoadedPage returns the page the displayed images were fetched for, or 0
// when nothing has been loaded yet.
func (s *Session) LoadedPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadedPage
}

// Counts returns the last known counts, including optimistic updates made
// after a successful submission.
func (s *Session) Counts() dto.Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts
}

// TotalPages returns the page total for the current filter and counts.
func (s *Session) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TotalPages(s.filter, s.counts, s.pageSize)
}

// Images returns the displayed images.
func (s *Session) Images() []model.ImageWithRating {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Images()
}

// Pending returns how many images have unsubmitted edits.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Pending()
}

// Edits returns a copy of the unsubmitted edits.
func (s *Session) Edits() map[int64]Edit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Edits()
}

// Location returns the deep-linkable state.
func (s *Session) Location() Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Location{Page: s.page}
}

// RecordEdit sets one rating of a displayed image locally.
func (s *Session) RecordEdit(imageID int64, field Field, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.RecordEdit(imageID, field, value)
}

// EffectiveValue returns the rating the UI shows as selected for img.
func (s *Session) EffectiveValue(img model.ImageWithRating, field Field) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.EffectiveValue(img, field)
}

// Load performs the initial fetch for a deep link. A filename, once
// resolved, takes precedence over the page number; a page number is
// honored when it is in range and replaced by 1 otherwise. A failed
// filename search still loads the fallback page and returns the search
// error afterwards.
func (s *Session) Load(ctx context.Context, loc Location) error {
	if err := s.RefreshCounts(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	page := loc.Page
	if CheckPage(page, TotalPages(s.filter, s.counts, s.pageSize)) != nil {
		page = 1
	}
	filter := s.filter
	s.mu.Unlock()

	var searchErr error
	if name := strings.TrimSpace(loc.Filename); name != "" {
		found, err := s.lookup(ctx, filter, name)
		if err == nil {
			page = found
		} else {
			searchErr = err
		}
	}

	s.mu.Lock()
	token := s.nextPageToken()
	s.mu.Unlock()

	if err := s.fetchPage(ctx, token, filter, page, nil); err != nil {
		return err
	}
	return searchErr
}

// GotoPage switches to page n. Out-of-range numbers are rejected with a
// ValidationError naming the valid range and leave the state unchanged.
// The page number and the dropped edits take effect once page n is loaded;
// a failed fetch keeps the displayed page and its edits.
func (s *Session) GotoPage(ctx context.Context, n int) error {
	s.mu.Lock()
	if err := CheckPage(n, TotalPages(s.filter, s.counts, s.pageSize)); err != nil {
		s.mu.Unlock()
		return err
	}
	filter := s.filter
	token := s.nextPageToken()
	s.mu.Unlock()

	return s.fetchPage(ctx, token, filter, n, nil)
}

// NextPage moves one page forward.
func (s *Session) NextPage(ctx context.Context) error {
	return s.GotoPage(ctx, s.Page()+1)
}

// PrevPage moves one page back.
func (s *Session) PrevPage(ctx context.Context) error {
	return s.GotoPage(ctx, s.Page()-1)
}

// ChangeFilter switches the filter, resets to page 1 and drops all edits,
// then fetches counts followed by page 1 under the new filter. Both fetches
// are attempted; their errors are joined.
func (s *Session) ChangeFilter(ctx context.Context, filter model.Filter) error {
	s.mu.Lock()
	s.filter = filter
	s.page = 1
	s.editor.ClearEdits()
	token := s.nextPageToken()
	s.mu.Unlock()

	countsErr := s.RefreshCounts(ctx)
	pageErr := s.fetchPage(ctx, token, filter, 1, nil)
	return errors.Join(countsErr, pageErr)
}

// FindByFilename resolves the page holding the first image whose filename
// matches name under the current filter and switches to it. Nothing is
// fetched when that page is already displayed. It returns the page found.
func (s *Session) FindByFilename(ctx context.Context, name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, validationf("please enter a filename to search")
	}

	s.mu.Lock()
	filter := s.filter
	startToken := s.pageToken
	s.mu.Unlock()

	page, err := s.lookup(ctx, filter, name)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	if s.pageToken != startToken {
		s.mu.Unlock()
		s.logger.Debug("Discarding search result for %q: state changed meanwhile", name)
		return 0, ErrStale
	}
	if page == s.page && page == s.loadedPage {
		s.mu.Unlock()
		return page, nil
	}
	token := s.nextPageToken()
	s.mu.Unlock()

	return page, s.fetchPage(ctx, token, filter, page, nil)
}

func (s *Session) lookup(ctx context.Context, filter model.Filter, name string) (int, error) {
	page, err := s.backend.FindImage(ctx, s.user, filter, name, s.pageSize)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return 0, notFound
		}
		return 0, &OpError{Op: OpSearch, Err: err}
	}
	return page, nil
}

// Refresh re-fetches counts and the current page. Pending edits for images
// still on the page are kept.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	carry := s.editor.Edits()
	s.mu.Unlock()
	return s.refresh(ctx, carry)
}

// RefreshCounts fetches the counts. Counts only drive the page total.
func (s *Session) RefreshCounts(ctx context.Context) error {
	s.mu.Lock()
	s.countsToken++
	token := s.countsToken
	s.mu.Unlock()

	counts, err := s.backend.Counts(ctx, s.user)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.countsToken {
		s.logger.Debug("Discarding stale counts response")
		return ErrStale
	}
	if err != nil {
		return &OpError{Op: OpLoad, Err: err}
	}
	s.counts = counts
	return nil
}

// Submit sends every pending edit that resolves to a full rating pair.
//
// An empty overlay is rejected without any network call, as is an overlay
// in which no entry resolves. Resolvable entries are sent concurrently.
// Afterwards counts and the current page are re-fetched whether or not
// every rating was accepted. Edits rejected before sending, and edits made
// while the batch was in flight, stay pending. If any rating was refused a
// *PartialSubmissionError is returned; it does not say which. Otherwise,
// if an entry was rejected before sending, a *ValidationError naming those
// images is returned after the others were stored.
func (s *Session) Submit(ctx context.Context) (*SubmitReport, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, validationf("a submission is already in progress")
	}
	if s.editor.Pending() == 0 {
		s.mu.Unlock()
		return nil, validationf("there are no pending ratings to submit")
	}
	batch, rejected := s.editor.prepare()
	report := &SubmitReport{Rejected: rejected}
	if len(batch) == 0 {
		s.mu.Unlock()
		return report, validationf("no image is fully rated: %s", describeRejected(rejected))
	}
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	var g errgroup.Group
	for _, sub := range batch {
		g.Go(func() error {
			return s.backend.RateImage(ctx, sub.ImageID, s.user, sub.Rating1, sub.Rating2)
		})
		report.Submitted = append(report.Submitted, sub.ImageID)
	}
	sendErr := g.Wait()

	s.mu.Lock()
	carry := s.editor.Edits()
	newlyRated := 0
	for _, sub := range batch {
		if edit, ok := carry[sub.ImageID]; ok && edit.equal(sub.edit) {
			delete(carry, sub.ImageID)
		}
		if sub.wasUnrated {
			newlyRated++
		}
	}
	if sendErr == nil {
		s.counts.Unrated = max(s.counts.Unrated-newlyRated, 0)
	}
	s.mu.Unlock()

	if sendErr != nil {
		s.logger.Warning("Submission of %d ratings by %s failed: %v", len(batch), s.user, sendErr)
	} else {
		s.logger.Info("Submitted %d ratings for %s", len(batch), s.user)
	}

	refreshErr := s.refresh(ctx, carry)
	if errors.Is(refreshErr, ErrStale) {
		// The user navigated away meanwhile; that load owns the page now.
		refreshErr = nil
	}

	if sendErr != nil {
		return report, &PartialSubmissionError{Attempted: len(batch), Err: sendErr}
	}
	if len(rejected) > 0 {
		return report, errors.Join(validationf("not submitted: %s", describeRejected(rejected)), refreshErr)
	}
	return report, refreshErr
}

func describeRejected(rejected []RejectedEdit) string {
	parts := make([]string, len(rejected))
	for i, r := range rejected {
		parts[i] = r.String()
	}
	return strings.Join(parts, "; ")
}

// refresh fetches counts, clamps the page to the new total and re-fetches
// it, restoring carry onto the images still displayed. Both fetches are
// attempted.
func (s *Session) refresh(ctx context.Context, carry map[int64]Edit) error {
	countsErr := s.RefreshCounts(ctx)

	s.mu.Lock()
	if total := TotalPages(s.filter, s.counts, s.pageSize); total > 0 && s.page > total {
		s.page = total
	}
	page := s.page
	filter := s.filter
	token := s.nextPageToken()
	s.mu.Unlock()

	pageErr := s.fetchPage(ctx, token, filter, page, carry)
	if errors.Is(countsErr, ErrStale) {
		countsErr = nil
	}
	return errors.Join(countsErr, pageErr)
}

// nextPageToken must be called with s.mu held.
func (s *Session) nextPageToken() uint64 {
	s.pageToken++
	return s.pageToken
}

func (s *Session) fetchPage(ctx context.Context, token uint64, filter model.Filter, page int, carry map[int64]Edit) error {
	images, err := s.backend.Images(ctx, s.user, filter, page, s.pageSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.pageToken {
		s.logger.Debug("Discarding stale response for page %d (%s)", page, filter)
		return ErrStale
	}
	if err != nil {
		return &OpError{Op: OpLoad, Err: err}
	}

	s.editor.Reset(images)
	s.editor.restore(carry)
	s.page = page
	s.loadedPage = page
	return nil
}
