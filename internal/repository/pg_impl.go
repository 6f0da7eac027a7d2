package repository

// --- PostgreSQL Implementation ---

var pgFavoriteQueries = favoriteQueries{
	list: `SELECT ` + favoriteColumns + ` FROM favorites ORDER BY added_at DESC, place_id DESC`,
	get:  `SELECT ` + favoriteColumns + ` FROM favorites WHERE place_id = $1`,
	upsert: `
		INSERT INTO favorites (` + favoriteColumns + `)
		VALUES (:place_id, :name, :latitude, :longitude, :country, :admin1, :added_at)
		ON CONFLICT (place_id) DO UPDATE SET
			name = EXCLUDED.name,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			country = EXCLUDED.country,
			admin1 = EXCLUDED.admin1,
			added_at = EXCLUDED.added_at`,
	delete: `DELETE FROM favorites WHERE place_id = $1`,
}

var pgWeatherCacheQueries = weatherCacheQueries{
	get:  `SELECT ` + weatherCacheColumns + ` FROM weather_cache WHERE place_id = $1`,
	list: `SELECT ` + weatherCacheColumns + ` FROM weather_cache ORDER BY place_id`,
	upsert: `
		INSERT INTO weather_cache (` + weatherCacheColumns + `)
		VALUES (:place_id, :place_name, :latitude, :longitude,
			:current_temperature, :apparent_temperature, :weather_condition,
			:min_temperature, :max_temperature, :wind_speed, :humidity, :precipitation,
			:hourly_json, :cached_at)
		ON CONFLICT (place_id) DO UPDATE SET
			place_name = EXCLUDED.place_name,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			current_temperature = EXCLUDED.current_temperature,
			apparent_temperature = EXCLUDED.apparent_temperature,
			weather_condition = EXCLUDED.weather_condition,
			min_temperature = EXCLUDED.min_temperature,
			max_temperature = EXCLUDED.max_temperature,
			wind_speed = EXCLUDED.wind_speed,
			humidity = EXCLUDED.humidity,
			precipitation = EXCLUDED.precipitation,
			hourly_json = EXCLUDED.hourly_json,
			cached_at = EXCLUDED.cached_at`,
	deleteOlder: `DELETE FROM weather_cache WHERE cached_at < $1`,
}
