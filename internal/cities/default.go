package cities

var defaultCities = []City{
	// North America
	{"New York", 40.7128, -74.0060, "America/New_York"},
	{"Chicago", 41.8781, -87.6298, "America/Chicago"},
	{"Los Angeles", 34.0522, -118.2437, "America/Los_Angeles"},
	{"Toronto", 43.6532, -79.3832, "America/Toronto"},
	{"Vancouver", 49.2827, -123.1207, "America/Vancouver"},
	{"Mexico City", 19.4326, -99.1332, "America/Mexico_City"},
	{"San Francisco", 37.7749, -122.4194, "America/Los_Angeles"},
	{"Miami", 25.7617, -80.1918, "America/New_York"},

	// Europe
	{"London", 51.5074, -0.1278, "Europe/London"},
	{"Paris", 48.8566, 2.3522, "Europe/Paris"},
	{"Berlin", 52.5200, 13.4050, "Europe/Berlin"},
	{"Rome", 41.9028, 12.4964, "Europe/Rome"},
	{"Madrid", 40.4168, -3.7038, "Europe/Madrid"},
	{"Amsterdam", 52.3676, 4.9041, "Europe/Amsterdam"},
	{"Moscow", 55.7558, 37.6173, "Europe/Moscow"},
	{"Stockholm", 59.3293, 18.0686, "Europe/Stockholm"},

	// Asia
	{"Tokyo", 35.6762, 139.6503, "Asia/Tokyo"},
	{"Beijing", 39.9042, 116.4074, "Asia/Shanghai"},
	{"Singapore", 1.3521, 103.8198, "Asia/Singapore"},
	{"Dubai", 25.2048, 55.2708, "Asia/Dubai"},
	{"Hong Kong", 22.3193, 114.1694, "Asia/Hong_Kong"},
	{"Seoul", 37.5665, 126.9780, "Asia/Seoul"},
	{"Mumbai", 19.0760, 72.8777, "Asia/Kolkata"},
	{"Bangkok", 13.7563, 100.5018, "Asia/Bangkok"},

	// Oceania
	{"Sydney", -33.8688, 151.2093, "Australia/Sydney"},
	{"Melbourne", -37.8136, 144.9631, "Australia/Melbourne"},
	{"Auckland", -36.8509, 174.7645, "Pacific/Auckland"},
	{"Perth", -31.9505, 115.8605, "Australia/Perth"},

	// South America
	{"Rio de Janeiro", -22.9068, -43.1729, "America/Sao_Paulo"},
	{"Buenos Aires", -34.6037, -58.3816, "America/Argentina/Buenos_Aires"},
	{"Santiago", -33.4489, -70.6693, "America/Santiago"},
	{"Lima", -12.0464, -77.0428, "America/Lima"},
}

// Default returns the built-in table.
func Default() *Table {
	t, err := New(defaultCities)
	if err != nil {
		panic("cities: invalid built-in table: " + err.Error())
	}
	return t
}
