// Package shop provides the daily scratch-ticket shop: deterministic daily
// generation of the catalog and the static reference data behind each
// ticket type.
package shop

import (
	"stock-arcade/internal/pkg/weighted"
)

// TicketType represents the prize category of a scratch ticket.
type TicketType string

// Ticket types.
const (
	TicketTokens  TicketType = "tokens"
	TicketMoney   TicketType = "money"
	TicketStocks  TicketType = "stocks"
	TicketRandom  TicketType = "random"
	TicketDiamond TicketType = "diamond"
)

// TicketConfig holds the static display data and price for a ticket type.
// This mapping is reference data, not randomized per day.
type TicketConfig struct {
	Type        TicketType
	Name        string
	Price       int64 // tokens
	Description string
}

// TicketConfigs contains the static per-type reference table.
var TicketConfigs = map[TicketType]TicketConfig{
	TicketTokens: {
		Type:        TicketTokens,
		Name:        "Token Rush",
		Price:       25,
		Description: "Scratch for a pile of tokens",
	},
	TicketMoney: {
		Type:        TicketMoney,
		Name:        "Cash Splash",
		Price:       40,
		Description: "Scratch for simulated cash credited as tokens",
	},
	TicketStocks: {
		Type:        TicketStocks,
		Name:        "Stock Shot",
		Price:       60,
		Description: "Scratch for shares of a random stock",
	},
	TicketRandom: {
		Type:        TicketRandom,
		Name:        "Wild Card",
		Price:       50,
		Description: "Could be anything. Probably tokens.",
	},
	TicketDiamond: {
		Type:        TicketDiamond,
		Name:        "Diamond Strike",
		Price:       150,
		Description: "The rare one. Big token prizes only.",
	},
}

// typeWeights is the cumulative-draw table for ticket type rolls. The
// weights must sum to 100; the last category stays reachable through the
// resolver's fallback even if a misconfigured table drifts.
var typeWeights = []weighted.Item[TicketType]{
	{Value: TicketTokens, Weight: 40},
	{Value: TicketMoney, Weight: 30},
	{Value: TicketStocks, Weight: 15},
	{Value: TicketRandom, Weight: 10},
	{Value: TicketDiamond, Weight: 5},
}

// Prize is one scratch outcome: either a token amount or a stock share grant.
type Prize struct {
	Tokens  float64
	StockID string
	Shares  int64
}

// prizeTables maps each concrete ticket type to its weighted prize pool.
// TicketRandom has no table of its own; the scratch flow re-rolls it into
// one of the concrete types first.
var prizeTables = map[TicketType][]weighted.Item[Prize]{
	TicketTokens: {
		{Value: Prize{Tokens: 10}, Weight: 50},
		{Value: Prize{Tokens: 25}, Weight: 30},
		{Value: Prize{Tokens: 60}, Weight: 15},
		{Value: Prize{Tokens: 150}, Weight: 5},
	},
	TicketMoney: {
		{Value: Prize{Tokens: 15}, Weight: 45},
		{Value: Prize{Tokens: 40}, Weight: 35},
		{Value: Prize{Tokens: 90}, Weight: 15},
		{Value: Prize{Tokens: 250}, Weight: 5},
	},
	TicketStocks: {
		{Value: Prize{StockID: "PEAR", Shares: 1}, Weight: 40},
		{Value: Prize{StockID: "MICROHARD", Shares: 1}, Weight: 30},
		{Value: Prize{StockID: "GIGGLE", Shares: 2}, Weight: 20},
		{Value: Prize{StockID: "TESSLA", Shares: 3}, Weight: 10},
	},
	TicketDiamond: {
		{Value: Prize{Tokens: 200}, Weight: 60},
		{Value: Prize{Tokens: 500}, Weight: 30},
		{Value: Prize{Tokens: 2000}, Weight: 10},
	},
}

// concreteTypes are the types TicketRandom can resolve into.
var concreteTypes = []weighted.Item[TicketType]{
	{Value: TicketTokens, Weight: 1},
	{Value: TicketMoney, Weight: 1},
	{Value: TicketStocks, Weight: 1},
	{Value: TicketDiamond, Weight: 1},
}

// GetTicketConfig returns the static config for a ticket type.
func GetTicketConfig(t TicketType) (TicketConfig, bool) {
	cfg, ok := TicketConfigs[t]
	return cfg, ok
}

// ValidateTables checks the type weight table and every prize table at
// startup. A malformed table is a configuration error and must fail loudly
// rather than bias draws silently.
func ValidateTables() error {
	if err := weighted.ValidateTable(typeWeights); err != nil {
		return err
	}
	var sum float64
	for _, it := range typeWeights {
		sum += it.Weight
	}
	if sum != 100 {
		return weighted.ErrBadWeightTable
	}
	for _, table := range prizeTables {
		if err := weighted.ValidateTable(table); err != nil {
			return err
		}
	}
	return weighted.ValidateTable(concreteTypes)
}
