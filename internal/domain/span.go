package domain

import (
	"context"
	"time"
)

// Span times one named step of a request, e.g. fetching assets or
// computing an allocation
type Span struct {
	Name    string `json:"name"`
	startTs time.Time
	Elapsed *int64 `json:"elapsedMs"`
}

const ContextProfileKey = "performanceProfile"

// Profile is simply a list of spans
type Profile struct {
	Spans   []*Span `json:"spans"`
	startTs time.Time
	TotalMs *int64 `json:"totalMs"`
}

func NewProfile() (newProfile *Profile, endNewProfile func()) {
	newProfile = &Profile{
		Spans:   []*Span{},
		startTs: time.Now(),
	}
	return newProfile, newProfile.End
}

// ProfileFromContext returns the profile stored on ctx, if any
func ProfileFromContext(ctx context.Context) (*Profile, bool) {
	profile, ok := ctx.Value(ContextProfileKey).(*Profile)
	return profile, ok
}

func (p *Profile) End() {
	if p.TotalMs == nil {
		t := time.Since(p.startTs).Milliseconds()
		p.TotalMs = &t
	}
}

func (s *Span) End() {
	if s.Elapsed == nil {
		t := time.Since(s.startTs).Milliseconds()
		s.Elapsed = &t
	}
}

// StartNewSpan ends the last span and begins a new one
// not thread safe
func (p *Profile) StartNewSpan(name string) (newSpan *Span, endSpan func()) {
	newSpan = &Span{
		Name:    name,
		startTs: time.Now(),
	}
	if len(p.Spans) > 0 {
		p.Spans[len(p.Spans)-1].End()
	}
	p.Spans = append(p.Spans, newSpan)
	return newSpan, newSpan.End
}

// StartSpan starts a span on the profile carried by ctx. when ctx has no
// profile the returned end func is a no-op
func StartSpan(ctx context.Context, name string) func() {
	profile, ok := ProfileFromContext(ctx)
	if !ok {
		return func() {}
	}
	_, end := profile.StartNewSpan(name)
	return end
}
