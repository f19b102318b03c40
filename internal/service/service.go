package service

import (
	"context"
	"errors"
	"fmt"

	"dogceo/browser/internal/client"
	"dogceo/browser/internal/domain"
	"dogceo/browser/internal/index"
	"dogceo/browser/internal/notify"
	"dogceo/browser/internal/selection"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrSelectionNotSaved means the hand-off to the pictures page failed and
	// navigation must be cancelled.
	ErrSelectionNotSaved = errors.New("selection could not be saved")
	// ErrNoSelection means the pictures page has no breed to show.
	ErrNoSelection = errors.New("no breed selected")
)

const (
	flowIndex     = "index"
	flowGallery   = "gallery"
	flowSubBreeds = "subbreeds"
	flowRandom    = "random"
)

// Service runs the index and pictures flows on behalf of one browser session
// or CLI profile.
type Service struct {
	client   client.DogAPIClient
	store    *selection.Store
	kind     selection.Kind
	inFlight singleflight.Group
}

// NewService binds the flows to a client and to the selection storage kind used
// for the hand-off between them.
func NewService(client client.DogAPIClient, store *selection.Store, kind selection.Kind) *Service {
	return &Service{
		client: client,
		store:  store,
		kind:   kind,
	}
}

func (s *Service) Kind() selection.Kind {
	return s.kind
}

// guard joins a call already running for the same session and flow instead of
// starting a second one. The shared call runs detached from the caller's
// cancellation so a caller that goes away does not fail the ones that joined;
// each caller still stops waiting when its own ctx is done.
func guard[T any](ctx context.Context, s *Service, session, flow string, fn func(ctx context.Context) (T, error)) (T, error) {
	ch := s.inFlight.DoChan(session+"/"+flow, func() (interface{}, error) {
		return fn(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%w: request cancelled: %v", domain.ErrNetwork, ctx.Err())
	case res := <-ch:
		if res.Shared {
			log.Debugf("Joined in-flight %s flow for session %s", flow, session)
		}
		out, _ := res.Val.(T)
		return out, res.Err
	}
}

// BuildIndex fetches every breed and groups them by letter, optionally keeping
// only the ones matching query.
func (s *Service) BuildIndex(ctx context.Context, session, query string) ([]domain.LetterGroup, error) {
	breeds, err := guard(ctx, s, session, flowIndex, func(ctx context.Context) (domain.BreedDictionary, error) {
		return s.client.ListAllBreeds(notify.WithSession(ctx, session))
	})
	if err != nil {
		return nil, err
	}

	return index.Build(index.Filter(breeds, query)), nil
}

// SelectBreed records the chosen breed for the pictures flow.
func (s *Service) SelectBreed(ctx context.Context, session string, name domain.BreedName) error {
	if name.IsEmpty() {
		return domain.ErrEmptyBreed
	}

	breed := name.Normalize()
	ctx = notify.WithSession(ctx, session)
	if !s.store.Scope(session).SaveSelection(ctx, breed, s.kind) {
		return fmt.Errorf("%w: breed %s", ErrSelectionNotSaved, breed)
	}

	log.Debugf("Session %s selected breed %s", session, breed)
	return nil
}

// SelectedBreed returns the breed stored by SelectBreed.
func (s *Service) SelectedBreed(ctx context.Context, session string) (domain.BreedName, bool) {
	return s.store.Scope(session).LoadSelection(notify.WithSession(ctx, session), s.kind)
}

// LoadGallery reads the selected breed and fetches its pictures.
func (s *Service) LoadGallery(ctx context.Context, session string) (*domain.Gallery, error) {
	return guard(ctx, s, session, flowGallery, func(ctx context.Context) (*domain.Gallery, error) {
		ctx = notify.WithSession(ctx, session)

		breed, ok := s.store.Scope(session).LoadSelection(ctx, s.kind)
		if !ok {
			return nil, ErrNoSelection
		}

		gallery := &domain.Gallery{Breed: breed, Title: breed.Title()}

		images, err := s.client.ListImagesForBreed(ctx, breed)
		if err != nil {
			return gallery, err
		}
		if len(images) == 0 {
			return gallery, fmt.Errorf("%w: no pictures for breed %s", domain.ErrNotFound, breed)
		}

		gallery.Images = images
		return gallery, nil
	})
}

// BreedImages fetches the pictures of a breed without touching the selection.
func (s *Service) BreedImages(ctx context.Context, session string, name domain.BreedName) (domain.ImageList, error) {
	return guard(ctx, s, session, flowGallery+"/"+name.Normalize().String(), func(ctx context.Context) (domain.ImageList, error) {
		return s.client.ListImagesForBreed(notify.WithSession(ctx, session), name)
	})
}

func (s *Service) SubBreeds(ctx context.Context, session string, name domain.BreedName) (domain.SubBreedList, error) {
	return guard(ctx, s, session, flowSubBreeds+"/"+name.Normalize().String(), func(ctx context.Context) (domain.SubBreedList, error) {
		return s.client.ListSubBreeds(notify.WithSession(ctx, session), name)
	})
}

func (s *Service) RandomImage(ctx context.Context, session string) (string, error) {
	return guard(ctx, s, session, flowRandom, func(ctx context.Context) (string, error) {
		return s.client.RandomImage(notify.WithSession(ctx, session))
	})
}

// ClearSelection forgets the selected breed.
func (s *Service) ClearSelection(ctx context.Context, session string) {
	s.store.Scope(session).ClearSelection(notify.WithSession(ctx, session), s.kind)
}
