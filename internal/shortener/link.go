package shortener

import (
	"context"
	"errors"
	"fmt"
)

// LinkTags marks redirect objects as URL entries.
var LinkTags = map[string]string{"type": "url"}

// LinkService writes redirect objects for shortened URLs.
type LinkService struct {
	store     ObjectStore
	sizer     *Sizer
	generator *Generator
	ifAbsent  bool
}

// NewLinkService creates a link service. With ifAbsent set, writes use
// conditional create and a lost race re-enters the collision loop.
func NewLinkService(store ObjectStore, sizer *Sizer, generator *Generator, ifAbsent bool) *LinkService {
	return &LinkService{
		store:     store,
		sizer:     sizer,
		generator: generator,
		ifAbsent:  ifAbsent,
	}
}

// Shorten stores a redirect from a fresh root key to the normalized target.
func (s *LinkService) Shorten(ctx context.Context, raw string) (*ShortLink, error) {
	target, err := NormalizeURL(raw)
	if err != nil {
		return nil, err
	}

	length, err := s.sizer.Length(ctx, NamespaceLinks)
	if err != nil {
		return nil, err
	}

	for range s.generator.MaxAttempts() {
		code, err := s.generator.Unique(ctx, NamespaceLinks, length, "")
		if err != nil {
			return nil, err
		}

		link := &ShortLink{Code: code, Target: target}

		err = s.store.Put(ctx, &Object{
			Key:              link.Key(),
			Tags:             LinkTags,
			RedirectLocation: target,
			IfAbsent:         s.ifAbsent,
		})
		if err == nil {
			return link, nil
		}

		if !errors.Is(err, ErrKeyTaken) {
			return nil, fmt.Errorf("%w: put %q: %w", ErrStoreWrite, link.Key(), err)
		}
	}

	return nil, fmt.Errorf("%w: conditional create lost every race", ErrNamespaceExhausted)
}
