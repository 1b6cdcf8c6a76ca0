package memo

import (
	"fmt"

	"github.com/getmockd/recstore/pkg/bulk"
	"github.com/getmockd/recstore/pkg/stateful"
	"github.com/getmockd/recstore/pkg/validation"
)

// Service holds the memo store and applies validation before every write.
type Service struct {
	store *stateful.Store[Memo]
}

// NewService creates a service with an empty store. obs may be nil.
func NewService(obs stateful.Observer) *Service {
	return &Service{
		store: stateful.New[Memo]("memo", stateful.WithObserver[Memo](obs)),
	}
}

// Create validates body and stores a new memo.
func (s *Service) Create(body map[string]any) (Memo, error) {
	var in Input
	if err := memoSchema.Bind(body, &in); err != nil {
		return Memo{}, err
	}
	return s.store.Create(Memo{Title: in.Title, Content: in.Content})
}

// CreateBulk creates every valid candidate and reports the rest by index.
func (s *Service) CreateBulk(candidates []any) bulk.Result[Memo] {
	return bulk.Run(candidates, func(c any) (Memo, error) {
		body, ok := c.(map[string]any)
		if !ok {
			return Memo{}, validation.NewError(msgInvalidMemo)
		}
		return s.Create(body)
	})
}

// List returns every memo in creation order.
func (s *Service) List() []Memo {
	return s.store.List()
}

// Get returns the memo with the given id.
func (s *Service) Get(id int) (Memo, error) {
	m, ok := s.store.Get(id)
	if !ok {
		return Memo{}, &stateful.NotFoundError{Resource: "memo", ID: id}
	}
	return m, nil
}

// Update replaces title and content. A missing content becomes "".
func (s *Service) Update(id int, body map[string]any) (Memo, error) {
	var in Input
	if err := memoSchema.Bind(body, &in); err != nil {
		return Memo{}, err
	}
	return s.store.Update(id, func(cur Memo) Memo {
		cur.Title = in.Title
		cur.Content = in.Content
		return cur
	})
}

// UpdateTitle changes only the title.
func (s *Service) UpdateTitle(id int, body map[string]any) (Memo, error) {
	var in TitleInput
	if err := titleSchema.Bind(body, &in); err != nil {
		return Memo{}, err
	}
	return s.store.Update(id, func(cur Memo) Memo {
		cur.Title = in.Title
		return cur
	})
}

// Delete removes the memo with the given id.
func (s *Service) Delete(id int) (Memo, error) {
	return s.store.Delete(id)
}

// DeleteAll removes every memo and returns how many were removed.
func (s *Service) DeleteAll() int {
	return s.store.Clear()
}

// Seed creates memos from configuration. The first invalid entry aborts
// seeding with its index.
func (s *Service) Seed(records []map[string]any) error {
	for i, rec := range records {
		body, err := validation.Normalize(rec)
		if err != nil {
			return fmt.Errorf("memo seed %d: %w", i, err)
		}
		if _, err := s.Create(body); err != nil {
			return fmt.Errorf("memo seed %d: %w", i, err)
		}
	}
	return nil
}
