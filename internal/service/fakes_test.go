package service

import (
	"context"
	"sync"

	"github.com/set-night/advoffer/internal/domain"
)

type fakeProvider struct {
	mu         sync.Mutex
	captions   []string
	captionErr error
	text       string
	textErr    error

	captionCalls int
	textCalls    int
	lastPrompt   string
	lastMime     string
	lastSampling Sampling
}

func (p *fakeProvider) CaptionImage(_ context.Context, _ []byte, mimeType, _ string, s Sampling) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.captionCalls++
	p.lastMime = mimeType
	p.lastSampling = s
	if p.captionErr != nil {
		return "", p.captionErr
	}
	if len(p.captions) == 0 {
		return "a photo", nil
	}
	c := p.captions[0]
	p.captions = p.captions[1:]
	return c, nil
}

func (p *fakeProvider) GenerateText(_ context.Context, prompt string, s Sampling) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.textCalls++
	p.lastPrompt = prompt
	p.lastSampling = s
	return p.text, p.textErr
}

type synthCall struct {
	combined    string
	description string
}

type fakeSynthesizer struct {
	mu     sync.Mutex
	calls  []synthCall
	drafts []string
	err    error
}

func (s *fakeSynthesizer) Generate(_ context.Context, combined, description string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, synthCall{combined: combined, description: description})
	if s.err != nil {
		return "", s.err
	}
	if len(s.drafts) == 0 {
		return "draft", nil
	}
	d := s.drafts[0]
	s.drafts = s.drafts[1:]
	return d, nil
}

type fakeArchive struct {
	mu    sync.Mutex
	posts []string
	err   error
}

func (a *fakeArchive) Save(_ context.Context, post *domain.Post) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.posts = append(a.posts, post.Text)
	return a.err
}
