package repository

var sqliteFavoriteQueries = favoriteQueries{
	list: `SELECT ` + favoriteColumns + ` FROM favorites ORDER BY added_at DESC, place_id DESC`,
	get:  `SELECT ` + favoriteColumns + ` FROM favorites WHERE place_id = ?`,
	upsert: `
		INSERT OR REPLACE INTO favorites (` + favoriteColumns + `)
		VALUES (:place_id, :name, :latitude, :longitude, :country, :admin1, :added_at)`,
	delete: `DELETE FROM favorites WHERE place_id = ?`,
}

var sqliteWeatherCacheQueries = weatherCacheQueries{
	get:  `SELECT ` + weatherCacheColumns + ` FROM weather_cache WHERE place_id = ?`,
	list: `SELECT ` + weatherCacheColumns + ` FROM weather_cache ORDER BY place_id`,
	upsert: `
		INSERT OR REPLACE INTO weather_cache (` + weatherCacheColumns + `)
		VALUES (:place_id, :place_name, :latitude, :longitude,
			:current_temperature, :apparent_temperature, :weather_condition,
			:min_temperature, :max_temperature, :wind_speed, :humidity, :precipitation,
			:hourly_json, :cached_at)`,
	deleteOlder: `DELETE FROM weather_cache WHERE cached_at < ?`,
}
