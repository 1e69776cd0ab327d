package store

// SQL query constants. All SQL lives here; PostgresStore methods
// reference these constants.

// Favorite queries.
const (
	queryAddFavorite = `
		INSERT INTO favorites (user_id, product_id, product_data, created_at)
		VALUES (@user_id, @product_id, @product_data, now())
		ON CONFLICT (user_id, product_id) DO UPDATE SET
			product_data = EXCLUDED.product_data
		RETURNING created_at`

	queryRemoveFavorite = `
		DELETE FROM favorites
		WHERE user_id = $1 AND product_id = $2`

	queryListFavorites = `
		SELECT user_id, product_id, product_data, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC`

	queryIsFavorite = `
		SELECT EXISTS(
			SELECT 1 FROM favorites
			WHERE user_id = $1 AND product_id = $2
		)`
)

// Trending queries.
const (
	queryListManualTrending = `
		SELECT product_id, product_data, sort_order
		FROM trending_manual
		ORDER BY sort_order ASC, product_id ASC`

	// Counts favorites per product inside the window. One row per
	// product; the most recent snapshot represents it.
	queryListMostFavorited = `
		SELECT product_id,
			(array_agg(product_data ORDER BY created_at DESC))[1] AS product_data,
			count(*) AS favorite_count
		FROM favorites
		WHERE created_at >= now() - $1::interval
			AND NOT (product_id = ANY($2::text[]))
		GROUP BY product_id
		ORDER BY favorite_count DESC, product_id ASC
		LIMIT $3`
)
