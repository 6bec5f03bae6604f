package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInventoryItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    InventoryItem
		wantErr bool
		errMsg  string
	}{
		{
			name: "Valid active item should pass",
			item: InventoryItem{
				ID:               uuid.New(),
				SKU:              "DD1391-100",
				Brand:            "Nike",
				Model:            "Dunk Low",
				Colorway:         "Panda",
				SizeUK:           9,
				PurchaseCurrency: "GBP",
				PurchasePrice:    decimal.NewFromInt(110),
				Status:           ItemStatusActive,
			},
			wantErr: false,
		},
		{
			name: "Empty SKU should fail",
			item: InventoryItem{
				ID:               uuid.New(),
				PurchaseCurrency: "GBP",
				Status:           ItemStatusActive,
			},
			wantErr: true,
			errMsg:  "item SKU cannot be empty",
		},
		{
			name: "Malformed currency code should fail",
			item: InventoryItem{
				ID:               uuid.New(),
				SKU:              "DD1391-100",
				PurchaseCurrency: "gbp",
				Status:           ItemStatusActive,
			},
			wantErr: true,
			errMsg:  "item purchase currency must be a 3-letter currency code",
		},
		{
			name: "Negative purchase price should fail",
			item: InventoryItem{
				ID:               uuid.New(),
				SKU:              "DD1391-100",
				PurchaseCurrency: "GBP",
				PurchasePrice:    decimal.NewFromInt(-10),
				Status:           ItemStatusActive,
			},
			wantErr: true,
			errMsg:  "item cost components cannot be negative",
		},
		{
			name: "Negative shipping should fail",
			item: InventoryItem{
				ID:               uuid.New(),
				SKU:              "DD1391-100",
				PurchaseCurrency: "GBP",
				Shipping:         decimal.NewFromInt(-5),
				Status:           ItemStatusSold,
			},
			wantErr: true,
			errMsg:  "item cost components cannot be negative",
		},
		{
			name: "Unknown status should fail",
			item: InventoryItem{
				ID:               uuid.New(),
				SKU:              "DD1391-100",
				PurchaseCurrency: "GBP",
				Status:           ItemStatus("LOST"),
			},
			wantErr: true,
			errMsg:  "item status must be ACTIVE, LISTED, SOLD, or ARCHIVED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()

			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInventoryItem_InvestedCost(t *testing.T) {
	item := InventoryItem{
		PurchasePrice: decimal.NewFromInt(120),
		Tax:           decimal.NewFromInt(20),
		Shipping:      decimal.NewFromInt(10),
	}

	assert.True(t, decimal.NewFromInt(150).Equal(item.InvestedCost()))
}

func TestValidCurrencyCode(t *testing.T) {
	assert.True(t, ValidCurrencyCode("USD"))
	assert.True(t, ValidCurrencyCode("GBP"))
	assert.False(t, ValidCurrencyCode("usd"))
	assert.False(t, ValidCurrencyCode("US"))
	assert.False(t, ValidCurrencyCode("USDT"))
	assert.False(t, ValidCurrencyCode(""))
}
