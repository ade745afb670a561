package service

import (
	"context"
	"math"

	"github.com/Lisura123/AXG-Photo-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RatingAggregator owns a product's derived rating fields. After any review
// mutation it re-scans the approved reviews and writes the mean (rounded
// half-up to one decimal) and the count back onto the product. No other code
// path writes those fields.
//
// The read-compute-write sequence is deliberately not transactional: two
// concurrent review mutations for the same product can race, with the later
// write winning. That is an accepted consistency gap for a review-count
// display; the full re-scan keeps the stored value self-correcting on the
// next mutation.
type RatingAggregator struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	rdb      *redis.Client
}

func NewRatingAggregator(reviews repository.ReviewRepository, products repository.ProductRepository, rdb *redis.Client) *RatingAggregator {
	return &RatingAggregator{reviews: reviews, products: products, rdb: rdb}
}

// Recompute runs synchronously inside the review mutation path, so the
// product's stored aggregate reflects the post-mutation review set before
// the mutation's response is returned.
func (a *RatingAggregator) Recompute(ctx context.Context, productID uuid.UUID) error {
	agg, err := a.reviews.AggregateByProduct(ctx, productID)
	if err != nil {
		return err
	}

	average := roundHalfUp(agg.Average)
	if agg.Count == 0 {
		// No approved reviews left: reset to zero, never leave stale values.
		average = 0
	}

	if err := a.products.UpdateRating(ctx, productID, average, agg.Count); err != nil {
		return err
	}

	if a.rdb != nil {
		if err := a.rdb.Del(ctx, ProductCacheKey(productID)).Err(); err != nil {
			log.Warn().Err(err).Str("product_id", productID.String()).Msg("rating cache invalidation failed")
		}
	}
	return nil
}

// roundHalfUp rounds to one decimal place, half away from zero
// (4.35 → 4.4). Ratings are non-negative so this is plain half-up.
func roundHalfUp(v float64) float64 {
	return math.Round(v*10) / 10
}
