package importer

import (
	"context"

	"go.uber.org/zap"

	"menuchat/internal/restaurant"
)

// Kind names a refreshable sub-resource of a restaurant record.
type Kind string

const (
	KindMetadata Kind = "metadata"
	KindMenu     Kind = "menu"
	KindOffers   Kind = "offers"
)

// sourceField is the record field remembering where a kind was imported from.
func (k Kind) sourceField() string {
	switch k {
	case KindMetadata:
		return "metaSourceUrl"
	case KindMenu:
		return "menuSourceUrl"
	default:
		return "offersSourceUrl"
	}
}

type Service struct {
	store     *restaurant.Store
	extractor Extractor
	log       *zap.Logger
}

func NewService(store *restaurant.Store, extractor Extractor, log *zap.Logger) *Service {
	return &Service{store: store, extractor: extractor, log: log}
}

// Import extracts one sub-resource from src and upserts it like a submitted
// patch: menus merge and offers append unless replace is set. Metadata
// always overwrites the fields it returns.
func (s *Service) Import(ctx context.Context, id string, kind Kind, src Source, replace bool) (*restaurant.Record, error) {
	if err := src.validate(); err != nil {
		return nil, err
	}

	p, err := s.extract(ctx, kind, src, replace)
	if err != nil {
		return nil, err
	}

	if src.URL != "" {
		if err := p.SetField(kind.sourceField(), src.URL); err != nil {
			return nil, err
		}
	}

	rec, err := s.store.Upsert(ctx, id, p)
	if err != nil {
		return nil, err
	}

	s.log.Info("import applied",
		zap.String("restaurant_id", id),
		zap.String("kind", string(kind)),
		zap.Bool("replace", replace),
	)
	return rec, nil
}

func (s *Service) extract(ctx context.Context, kind Kind, src Source, replace bool) (restaurant.Patch, error) {
	switch kind {
	case KindMetadata:
		fields, err := s.extractor.Metadata(ctx, src)
		if err != nil {
			return restaurant.Patch{}, err
		}
		return restaurant.FieldsPatch(fields), nil
	case KindMenu:
		cats, err := s.extractor.Menu(ctx, src)
		if err != nil {
			return restaurant.Patch{}, err
		}
		return restaurant.MenuPatch(cats, replace), nil
	default:
		list, err := s.extractor.Offers(ctx, src)
		if err != nil {
			return restaurant.Patch{}, err
		}
		return restaurant.OffersPatch(list, replace), nil
	}
}
