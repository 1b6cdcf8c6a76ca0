package inventory

import (
	"fmt"

	"github.com/getmockd/recstore/pkg/bulk"
	"github.com/getmockd/recstore/pkg/stateful"
	"github.com/getmockd/recstore/pkg/validation"
)

// Item is a stocked product.
type Item struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

func (i Item) GetID() int { return i.ID }

func (i Item) WithID(id int) Item {
	i.ID = id
	return i
}

// ItemInput is the body of POST /items.
type ItemInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Quantity    *int    `json:"quantity"`
}

// ItemPatch is the body of PUT /items/{id}. Nil fields are left alone,
// except Description, which is cleared when the key is present as null.
type ItemPatch struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
}

const (
	msgInvalidItem      = "Invalid item. 'name' (string) and 'price' (number) are required."
	msgInvalidItemPatch = "Invalid item update."
	msgInvalidStock     = "Field 'quantity' is required and must be an integer."
	msgItemsNotAList    = "Request body must be a JSON array of items."
)

var itemSchema = validation.MustCompile("item", msgInvalidItem, `{
	"type": "object",
	"required": ["name", "price"],
	"properties": {
		"name":        {"type": "string"},
		"description": {"type": ["string", "null"]},
		"price":       {"type": "number"},
		"quantity":    {"type": "integer"}
	}
}`)

var itemPatchSchema = validation.MustCompile("item-patch", msgInvalidItemPatch, `{
	"type": "object",
	"properties": {
		"name":        {"type": "string"},
		"description": {"type": ["string", "null"]},
		"price":       {"type": "number"},
		"quantity":    {"type": "integer"}
	}
}`)

var stockSchema = validation.MustCompile("item-stock", msgInvalidStock, `{
	"type": "object",
	"required": ["quantity"],
	"properties": {
		"quantity": {"type": "integer"}
	}
}`)

// ItemService holds the item store.
type ItemService struct {
	store *stateful.Store[Item]
}

// NewItemService creates a service with an empty store. obs may be nil.
func NewItemService(obs stateful.Observer) *ItemService {
	return &ItemService{
		store: stateful.New[Item]("item", stateful.WithObserver[Item](obs)),
	}
}

// Create validates body and stores a new item. Quantity defaults to 1.
func (s *ItemService) Create(body map[string]any) (Item, error) {
	var in ItemInput
	if err := itemSchema.Bind(body, &in); err != nil {
		return Item{}, err
	}
	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	return s.store.Create(Item{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    quantity,
	})
}

// CreateBulk creates every valid candidate and reports the rest by index.
func (s *ItemService) CreateBulk(candidates []any) bulk.Result[Item] {
	return bulk.Run(candidates, func(c any) (Item, error) {
		body, ok := c.(map[string]any)
		if !ok {
			return Item{}, validation.NewError(msgInvalidItem)
		}
		return s.Create(body)
	})
}

// List returns every item in creation order.
func (s *ItemService) List() []Item {
	return s.store.List()
}

// Get returns the item with the given id.
func (s *ItemService) Get(id int) (Item, error) {
	it, ok := s.store.Get(id)
	if !ok {
		return Item{}, &stateful.NotFoundError{Resource: "item", ID: id}
	}
	return it, nil
}

// Update merges the fields present in body into the item.
func (s *ItemService) Update(id int, body map[string]any) (Item, error) {
	var p ItemPatch
	if err := itemPatchSchema.Bind(body, &p); err != nil {
		return Item{}, err
	}
	_, descriptionSet := body["description"]

	return s.store.Update(id, func(cur Item) Item {
		if p.Name != nil {
			cur.Name = *p.Name
		}
		if descriptionSet {
			cur.Description = p.Description
		}
		if p.Price != nil {
			cur.Price = *p.Price
		}
		if p.Quantity != nil {
			cur.Quantity = *p.Quantity
		}
		return cur
	})
}

// UpdateStock replaces only the quantity. body must hold an integer "quantity".
func (s *ItemService) UpdateStock(id int, body map[string]any) (Item, error) {
	var in struct {
		Quantity int `json:"quantity"`
	}
	if err := stockSchema.Bind(body, &in); err != nil {
		return Item{}, err
	}
	return s.store.Update(id, func(cur Item) Item {
		cur.Quantity = in.Quantity
		return cur
	})
}

// Delete removes the item with the given id and returns it.
func (s *ItemService) Delete(id int) (Item, error) {
	return s.store.Delete(id)
}

// DeleteAll removes every item and returns how many were removed.
func (s *ItemService) DeleteAll() int {
	return s.store.Clear()
}

// Seed creates items from configuration. The first invalid entry aborts
// seeding with its index.
func (s *ItemService) Seed(records []map[string]any) error {
	for i, rec := range records {
		body, err := validation.Normalize(rec)
		if err != nil {
			return fmt.Errorf("item seed %d: %w", i, err)
		}
		if _, err := s.Create(body); err != nil {
			return fmt.Errorf("item seed %d: %w", i, err)
		}
	}
	return nil
}
