// Package lootbox defines the purchasable box catalog. Each box resolves to
// one stock reward drawn from a fixed weighted pool on open. Definitions are
// static reference data and never mutated by the opening process.
package lootbox

import (
	"stock-arcade/internal/pkg/weighted"
)

// Reward is one possible outcome of opening a box.
type Reward struct {
	StockID string
	Shares  int64
}

// Definition describes one box type: its price in tokens and the weighted
// pool of stock rewards. Weights are reward quantities/shares within the
// box, so a stock listed with weight 4 is four times as likely as one with
// weight 1.
type Definition struct {
	ID         string
	Name       string
	Price      int64
	RewardPool []weighted.Item[Reward]
}

// Boxes contains all available box definitions.
var Boxes = map[string]Definition{
	"starter": {
		ID:    "starter",
		Name:  "Starter Crate",
		Price: 100,
		RewardPool: []weighted.Item[Reward]{
			{Value: Reward{StockID: "PEAR", Shares: 1}, Weight: 4},
			{Value: Reward{StockID: "GIGGLE", Shares: 1}, Weight: 3},
			{Value: Reward{StockID: "MICROHARD", Shares: 1}, Weight: 2},
			{Value: Reward{StockID: "TESSLA", Shares: 1}, Weight: 1},
		},
	},
	"bluechip": {
		ID:    "bluechip",
		Name:  "Blue Chip Vault",
		Price: 400,
		RewardPool: []weighted.Item[Reward]{
			{Value: Reward{StockID: "MICROHARD", Shares: 2}, Weight: 5},
			{Value: Reward{StockID: "TESSLA", Shares: 2}, Weight: 3},
			{Value: Reward{StockID: "BERKSHARE", Shares: 1}, Weight: 2},
		},
	},
	"meme": {
		ID:    "meme",
		Name:  "Meme Barrel",
		Price: 50,
		RewardPool: []weighted.Item[Reward]{
			{Value: Reward{StockID: "DOGEHOUSE", Shares: 5}, Weight: 6},
			{Value: Reward{StockID: "GAMESTONK", Shares: 2}, Weight: 3},
			{Value: Reward{StockID: "TESSLA", Shares: 1}, Weight: 1},
		},
	},
}

// Get returns the definition for a box id.
func Get(id string) (Definition, bool) {
	def, ok := Boxes[id]
	return def, ok
}

// ValidateDefinitions checks every reward pool at startup. An empty or
// zero-weight pool is a configuration error and must fail loudly.
func ValidateDefinitions() error {
	for _, def := range Boxes {
		if err := weighted.ValidateTable(def.RewardPool); err != nil {
			return err
		}
	}
	return nil
}
