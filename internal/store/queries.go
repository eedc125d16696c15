package store

// SQL query constants organized by entity.
// All SQL lives here; PostgresStore methods reference these constants.

// Listing queries.
const (
	queryCreateListing = `
		INSERT INTO listings (
			title, description, image_url,
			price, currency, category, brand,
			condition, battery_health, seller_name, status,
			created_at, updated_at
		) VALUES (
			@title, @description, @image_url,
			@price, @currency, @category, @brand,
			@condition, @battery_health, @seller_name, @status,
			now(), now()
		)
		RETURNING id, created_at, updated_at`

	queryGetListing = `
		SELECT id, title, COALESCE(description, ''), COALESCE(image_url, ''),
			price, currency, category, brand,
			condition, battery_health, seller_name, status,
			created_at, updated_at
		FROM listings
		WHERE id = $1`

	querySetListingStatus = `
		UPDATE listings SET
			status = $2,
			updated_at = now()
		WHERE id = $1`
)

// Comparable-sale queries.
const (
	queryInsertComparableSale = `
		INSERT INTO comparable_sales (category, brand, market_price, source, created_at)
		VALUES (@category, @brand, @market_price, @source, COALESCE(@created_at, now()))
		RETURNING id, created_at`

	queryListComparableSales = `
		SELECT id, category, brand, market_price, COALESCE(source, ''), created_at
		FROM comparable_sales
		WHERE category = $1 AND brand = $2
		ORDER BY created_at DESC
		LIMIT $3`

	queryListTrackedSegments = `
		SELECT DISTINCT category, brand
		FROM listings
		WHERE status = 'active'
		ORDER BY category, brand`
)

// Diagnostic queries.
const (
	queryInsertDiagnosticReport = `
		INSERT INTO diagnostic_reports (
			listing_id, battery_health, performance_score, overall_condition, created_at
		) VALUES (
			@listing_id, @battery_health, @performance_score, @overall_condition, now()
		)
		RETURNING id, created_at`

	// Most recent report wins; ties broken arbitrarily.
	queryGetLatestDiagnostic = `
		SELECT id, listing_id, battery_health, performance_score, overall_condition, created_at
		FROM diagnostic_reports
		WHERE listing_id = $1
		ORDER BY created_at DESC
		LIMIT 1`
)

// Analysis queries.
const (
	querySaveAnalysis = `
		INSERT INTO market_analyses (listing_id, result, position, final_value, confidence, created_at)
		VALUES (@listing_id, @result, @position, @final_value, @confidence, now())
		RETURNING id, created_at`

	queryGetLatestAnalysis = `
		SELECT id, listing_id, result, position, created_at
		FROM market_analyses
		WHERE listing_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	queryListStaleAnalysisListings = `
		SELECT l.id
		FROM listings l
		LEFT JOIN LATERAL (
			SELECT created_at FROM market_analyses
			WHERE listing_id = l.id
			ORDER BY created_at DESC
			LIMIT 1
		) a ON true
		WHERE l.status = 'active'
		  AND (a.created_at IS NULL OR a.created_at < now() - $1::interval)
		ORDER BY a.created_at ASC NULLS FIRST
		LIMIT $2`
)

// Alert queries.
const (
	queryCreateAlert = `
		INSERT INTO deal_alerts (listing_id, final_value, asking_price, difference_pct, created_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (listing_id) WHERE notified = false DO NOTHING
		RETURNING id, created_at`

	queryListPendingAlerts = `
		SELECT id, listing_id, final_value, asking_price, difference_pct, notified, notified_at, created_at
		FROM deal_alerts
		WHERE notified = false
		ORDER BY created_at DESC`

	queryMarkAlertNotified = `
		UPDATE deal_alerts SET
			notified = true,
			notified_at = now()
		WHERE id = $1`
)
