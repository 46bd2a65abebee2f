package seed

import (
	"context"
	"fmt"
	"log"

	"nutristore/internal/domain"
	productrepo "nutristore/internal/repository/product"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Apply inserts a demo supplement catalog for manual testing. It is
// idempotent: products upsert by slug and variants are replaced wholesale.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *log.Logger) error {
	repo := productrepo.NewPostgres(pool, logger)
	for _, p := range demoCatalog() {
		if _, err := repo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}
	return nil
}

func intPtr(n int) *int { return &n }

func demoCatalog() []domain.Product {
	return []domain.Product{
		{
			Slug:               "gold-standard-whey-1kg",
			Name:               "Gold Standard Whey Protein 1kg",
			Description:        "24g of whey protein per serving with 5.5g BCAAs.",
			Brand:              "OptiFuel",
			Category:           "protein",
			Tags:               []string{"whey", "muscle-gain", "post-workout"},
			PriceCents:         429900,
			OriginalPriceCents: 499900,
			Currency:           "INR",
			Rating:             4.6,
			ReviewCount:        1843,
			InStock:            true,
			Featured:           true,
			BestSeller:         true,
			Images:             []string{"https://cdn.nutristore.test/products/gold-standard-whey.jpg"},
			Variants: []domain.Variant{
				{Name: "Double Rich Chocolate", InStock: true, StockQuantity: intPtr(42)},
				{Name: "Vanilla Ice Cream", InStock: true, StockQuantity: intPtr(17)},
				{Name: "Cookies & Cream", InStock: false, StockQuantity: intPtr(0)},
			},
		},
		{
			Slug:               "micronized-creatine-250g",
			Name:               "Micronized Creatine Monohydrate 250g",
			Description:        "Pure creatine monohydrate for strength and power output.",
			Brand:              "IronCore",
			Category:           "creatine",
			Tags:               []string{"creatine", "strength", "pre-workout"},
			PriceCents:         89900,
			OriginalPriceCents: 109900,
			Currency:           "INR",
			Rating:             4.8,
			ReviewCount:        2210,
			InStock:            true,
			BestSeller:         true,
			StockQuantity:      intPtr(120),
			Images:             []string{"https://cdn.nutristore.test/products/micronized-creatine.jpg"},
		},
		{
			Slug:        "bcaa-energy-300g",
			Name:        "BCAA Energy 2:1:1 300g",
			Description: "Intra-workout branched-chain amino acids with natural caffeine.",
			Brand:       "OptiFuel",
			Category:    "amino-acids",
			Tags:        []string{"bcaa", "endurance", "intra-workout"},
			PriceCents:  159900,
			Currency:    "INR",
			Rating:      4.3,
			ReviewCount: 431,
			InStock:     true,
			Featured:    true,
			Images:      []string{"https://cdn.nutristore.test/products/bcaa-energy.jpg"},
			Variants: []domain.Variant{
				{Name: "Watermelon", InStock: true, StockQuantity: intPtr(25)},
				{Name: "Blue Raspberry", InStock: true},
			},
		},
		{
			Slug:          "daily-multivitamin-90ct",
			Name:          "Daily Multivitamin 90 Tablets",
			Description:   "Complete micronutrient coverage for active adults.",
			Brand:         "VitaPeak",
			Category:      "vitamins",
			Tags:          []string{"multivitamin", "wellness", "daily"},
			PriceCents:    69900,
			Currency:      "INR",
			Rating:        4.1,
			ReviewCount:   287,
			InStock:       true,
			StockQuantity: intPtr(300),
			Images:        []string{"https://cdn.nutristore.test/products/daily-multivitamin.jpg"},
		},
		{
			Slug:               "omega3-fish-oil-120ct",
			Name:               "Omega-3 Fish Oil 1000mg 120 Softgels",
			Description:        "Molecularly distilled EPA/DHA for heart and joint support.",
			Brand:              "VitaPeak",
			Category:           "vitamins",
			Tags:               []string{"omega-3", "heart", "joints"},
			PriceCents:         99900,
			OriginalPriceCents: 119900,
			Currency:           "INR",
			Rating:             4.5,
			ReviewCount:        612,
			InStock:            false,
			StockQuantity:      intPtr(0),
			Images:             []string{"https://cdn.nutristore.test/products/omega3-fish-oil.jpg"},
		},
		{
			Slug:        "vegan-protein-750g",
			Name:        "Plant Power Vegan Protein 750g",
			Description: "Pea and brown rice protein blend, 25g protein per serving.",
			Brand:       "GreenFuel",
			Category:    "protein",
			Tags:        []string{"vegan", "plant-based", "muscle-gain"},
			PriceCents:  249900,
			Currency:    "INR",
			Rating:      4.2,
			ReviewCount: 198,
			InStock:     true,
			Featured:    true,
			Images:      []string{"https://cdn.nutristore.test/products/vegan-protein.jpg"},
			Variants: []domain.Variant{
				{Name: "Chocolate", PriceCents: 249900, InStock: true, StockQuantity: intPtr(10)},
				{Name: "Unflavoured", PriceCents: 239900, InStock: true, StockQuantity: intPtr(8)},
			},
		},
		{
			Slug:          "pre-workout-ignite-225g",
			Name:          "Ignite Pre-Workout 225g",
			Description:   "200mg caffeine, beta-alanine and citrulline per scoop.",
			Brand:         "IronCore",
			Category:      "pre-workout",
			Tags:          []string{"pre-workout", "energy", "focus"},
			PriceCents:    189900,
			Currency:      "INR",
			Rating:        3.9,
			ReviewCount:   95,
			InStock:       true,
			StockQuantity: intPtr(3),
			Images:        []string{"https://cdn.nutristore.test/products/ignite-preworkout.jpg"},
		},
	}
}
