package seeder

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/soletrack/soletrack-backend/internal/domain"
)

// Fixed UUIDs so re-running the seeder is idempotent
var (
	DemoItemDunkPanda  = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	DemoItemJordan4    = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	DemoItemNB550White = uuid.MustParse("00000000-0000-0000-0000-000000000003")
)

// DemoSeeder seeds a small demo inventory with provider mappings so a fresh
// database produces meaningful valuations immediately
type DemoSeeder struct {
	itemRepo    domain.ItemRepository
	mappingRepo domain.MappingRepository
}

// NewDemoSeeder creates a new DemoSeeder instance
func NewDemoSeeder(itemRepo domain.ItemRepository, mappingRepo domain.MappingRepository) *DemoSeeder {
	return &DemoSeeder{
		itemRepo:    itemRepo,
		mappingRepo: mappingRepo,
	}
}

// Seed ensures the demo items and their mappings exist in the database.
// Items that already exist are left untouched.
func (s *DemoSeeder) Seed(ctx context.Context) error {
	for _, seed := range demoInventory() {
		// Try to get the item by ID
		_, err := s.itemRepo.GetByID(ctx, seed.item.ID)
		if err == nil {
			continue
		}

		// Validate before creating
		if err := seed.item.Validate(); err != nil {
			return err
		}
		if err := s.itemRepo.Create(ctx, &seed.item); err != nil {
			return err
		}

		for _, mapping := range seed.mappings {
			if err := mapping.Validate(); err != nil {
				return err
			}
			m := mapping
			if err := s.mappingRepo.Create(ctx, &m); err != nil {
				return err
			}
		}
	}

	return nil
}

type demoItem struct {
	item     domain.InventoryItem
	mappings []domain.ProviderMapping
}

func demoInventory() []demoItem {
	return []demoItem{
		{
			item: domain.InventoryItem{
				ID:               DemoItemDunkPanda,
				SKU:              "DD1391-100",
				Brand:            "Nike",
				Model:            "Dunk Low Retro",
				Colorway:         "White Black Panda",
				SizeUK:           9,
				PurchaseCurrency: "GBP",
				PurchasePrice:    decimal.NewFromInt(105),
				Tax:              decimal.NewFromInt(0),
				Shipping:         decimal.NewFromInt(8),
				Status:           domain.ItemStatusActive,
			},
			mappings: []domain.ProviderMapping{
				{
					ID:         uuid.MustParse("10000000-0000-0000-0000-000000000001"),
					ItemID:     DemoItemDunkPanda,
					Provider:   domain.ProviderStockX,
					ProductID:  "nike-dunk-low-retro-white-black-2021",
					VariantID:  "nike-dunk-low-retro-white-black-2021-uk9",
					Confidence: 0.99,
					Health:     domain.MappingHealthOK,
				},
				{
					ID:         uuid.MustParse("10000000-0000-0000-0000-000000000002"),
					ItemID:     DemoItemDunkPanda,
					Provider:   domain.ProviderGoat,
					ProductID:  "dunk-low-retro-white-black-dd1391-100",
					Confidence: 0.97,
					Health:     domain.MappingHealthOK,
				},
			},
		},
		{
			item: domain.InventoryItem{
				ID:               DemoItemJordan4,
				SKU:              "DH6927-111",
				Brand:            "Jordan",
				Model:            "Air Jordan 4 Retro",
				Colorway:         "Military Black",
				SizeUK:           8.5,
				PurchaseCurrency: "GBP",
				PurchasePrice:    decimal.NewFromInt(190),
				Tax:              decimal.NewFromInt(0),
				Shipping:         decimal.NewFromInt(10),
				Status:           domain.ItemStatusListed,
			},
			mappings: []domain.ProviderMapping{
				{
					ID:         uuid.MustParse("10000000-0000-0000-0000-000000000003"),
					ItemID:     DemoItemJordan4,
					Provider:   domain.ProviderStockX,
					ProductID:  "air-jordan-4-retro-military-black",
					VariantID:  "air-jordan-4-retro-military-black-uk8-5",
					Confidence: 0.98,
					Health:     domain.MappingHealthOK,
				},
				{
					ID:         uuid.MustParse("10000000-0000-0000-0000-000000000004"),
					ItemID:     DemoItemJordan4,
					Provider:   domain.ProviderEbay,
					ProductID:  "epid-13041247100",
					Confidence: 0.81,
					Health:     domain.MappingHealthPending,
				},
			},
		},
		{
			// Unmapped item: exercises the invested-cost fallback path
			item: domain.InventoryItem{
				ID:               DemoItemNB550White,
				SKU:              "BB550LWT",
				Brand:            "New Balance",
				Model:            "550",
				Colorway:         "White Green",
				SizeUK:           10,
				PurchaseCurrency: "EUR",
				PurchasePrice:    decimal.NewFromInt(120),
				Tax:              decimal.NewFromInt(24),
				Shipping:         decimal.NewFromInt(6),
				Status:           domain.ItemStatusActive,
			},
		},
	}
}
