// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

// Package catalog stores marketplace products and advertising campaigns.
// The catalog is the matching corpus: recommendation and campaign-offer
// endpoints score its contents against a persona.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/vitrine-labs/persona-engine/internal/logging"
)

// ErrNotFound means the requested catalog entry does not exist.
var ErrNotFound = errors.New("catalog entry not found")

const (
	productPrefix  = "catalog:product:"
	campaignPrefix = "catalog:campaign:"
)

// CampaignStatusActive marks campaigns eligible for matching.
const CampaignStatusActive = "active"

// Product is a marketplace listing.
type Product struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Price          string    `json:"price"`
	SellerAddress  string    `json:"seller_address"`
	Category       string    `json:"category"`
	ImageURL       string    `json:"image_url"`
	TargetSegments []string  `json:"target_segments"`
	MetadataFID    string    `json:"metadata_fid,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Campaign is an advertising campaign. Budget and CPC stay as decimal
// strings end to end.
type Campaign struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Budget         string    `json:"budget"`
	CPC            string    `json:"cpc"`
	TargetSegments []string  `json:"target_segments"`
	Status         string    `json:"status"`
	DataFID        string    `json:"data_fid,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store is a badger-backed catalog.
type Store struct {
	db    *badger.DB
	now   func() time.Time
	newID func() string
}

// Open opens the catalog at path, or fully in memory when inMemory is set.
func Open(path string, inMemory bool) (*Store, error) {
	opts := badger.DefaultOptions(path).
		WithInMemory(inMemory).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return NewWithDB(db), nil
}

// NewWithDB wraps an existing badger instance. The caller keeps ownership of
// the database lifecycle.
func NewWithDB(db *badger.DB) *Store {
	return &Store{
		db:    db,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddProduct stores a new product, assigning its ID and creation time.
func (s *Store) AddProduct(p Product) (*Product, error) {
	p.ID = s.newID()
	p.CreatedAt = s.now().UTC()

	if err := s.put(productPrefix+p.ID, p); err != nil {
		return nil, fmt.Errorf("add product: %w", err)
	}
	logging.Info().Str("product_id", p.ID).Str("category", p.Category).Msg("Product added to catalog")
	return &p, nil
}

// GetProduct returns a product by ID.
func (s *Store) GetProduct(id string) (*Product, error) {
	var p Product
	if err := s.get(productPrefix+id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns all products, newest first.
func (s *Store) ListProducts() ([]Product, error) {
	var products []Product
	err := s.list(productPrefix, func(val []byte) error {
		var p Product
		if err := json.Unmarshal(val, &p); err != nil {
			return err
		}
		products = append(products, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

// AddCampaign stores a new campaign, assigning its ID and creation time.
// Campaigns start active.
func (s *Store) AddCampaign(c Campaign) (*Campaign, error) {
	c.ID = s.newID()
	c.CreatedAt = s.now().UTC()
	if c.Status == "" {
		c.Status = CampaignStatusActive
	}

	if err := s.put(campaignPrefix+c.ID, c); err != nil {
		return nil, fmt.Errorf("add campaign: %w", err)
	}
	logging.Info().Str("campaign_id", c.ID).Str("title", c.Title).Msg("Campaign added to catalog")
	return &c, nil
}

// GetCampaign returns a campaign by ID.
func (s *Store) GetCampaign(id string) (*Campaign, error) {
	var c Campaign
	if err := s.get(campaignPrefix+id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListActiveCampaigns returns active campaigns, newest first.
func (s *Store) ListActiveCampaigns() ([]Campaign, error) {
	var campaigns []Campaign
	err := s.list(campaignPrefix, func(val []byte) error {
		var c Campaign
		if err := json.Unmarshal(val, &c); err != nil {
			return err
		}
		if c.Status == CampaignStatusActive {
			campaigns = append(campaigns, c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}

	sort.Slice(campaigns, func(i, j int) bool {
		return campaigns[i].CreatedAt.After(campaigns[j].CreatedAt)
	})
	return campaigns, nil
}

func (s *Store) put(key string, v interface{}) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (s *Store) get(key string, v interface{}) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return err
}

func (s *Store) list(prefix string, fn func(val []byte) error) error {
	p := []byte(prefix)
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = p
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}
