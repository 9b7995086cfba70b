package emissions

import "carbonledger/internal/adapters/persistence/models"

// Emission factors in kgCO2e per unit of activity, keyed by category and
// activity type. Coverage is deliberately partial: categories without a
// published table are rejected with ErrUnsupportedCategory instead of being
// estimated with a default factor.
var factorTables = map[string]map[string]float64{
	models.CategoryFuel: {
		"CNG":                               0.44,
		"LNG":                               1.16,
		"LPG":                               1.56,
		"Natural gas":                       2.02,
		"Natural gas (100% mineral blend)":  2.03,
		"Other petroleum gas":               0.94,
		"Aviation spirit":                   2.33,
		"Aviation turbine fuel":             2.55,
		"Burning oil":                       2.54,
		"Diesel (average biofuel blend)":    2.51,
		"Diesel (100% mineral diesel)":      2.71,
		"Fuel oil":                          3.18,
		"Gas oil":                           2.76,
		"Lubricants":                        2.75,
		"Naphtha":                           2.12,
		"Petrol (average biofuel blend)":    2.19,
		"Petrol (100% mineral petrol)":      2.34,
		"Processed fuel oils - residual oil":   3.18,
		"Processed fuel oils - distillate oil": 2.76,
		"Waste oils":                        2.75,
		"Marine gas oil":                    2.78,
		"Marine fuel oil":                   3.11,
		"Coal (industrial)":                 2403.84,
		"Coal (electricity generation)":     2252.34,
		"Coal (domestic)":                   2883.26,
		"Coking coal":                       3165.24,
		"Petroleum coke":                    3386.86,
		"Coal (electricity generation - home produced)": 2248.82,
	},
	models.CategoryFood: {
		"1 standard breakfast":         0.84,
		"1 gourmet breakfast":          2.33,
		"1 cold or hot snack":          2.02,
		"1 average meal":               4.7,
		"Non-alcoholic beverage":       0.2,
		"Alcoholic beverage":           1.87,
		"1 hot snack (burger + fries)": 2.77,
		"1 sandwich":                   1.27,
		"Meal, vegan":                  1.69,
		"Meal, vegetarian":             2.85,
		"Meal, with beef":              6.93,
		"Meal, with chicken":           3.39,
	},
	// Grid/district energy factors shared by on-site and home-office use.
	models.CategoryEhctd: {
		"District Cooling":   0.5469,
		"Heating* and Steam": 0.1707,
		"Electricity":        0.6077,
	},
	models.CategoryHomeOffice: {
		"District Cooling":   0.5469,
		"Heating* and Steam": 0.1707,
		"Electricity":        0.6077,
	},
	// Vehicle classes are keyed by fleet code.
	models.CategoryOwnedVehicles: {
		"6001": 0.05, "6002": 0.05, "6003": 0.06, "6004": 0.05,
		"6005": 0, "6006": 0.16, "6007": 0.24, "6008": 0.18,
		"6009": 0.14, "6010": 0.16, "6011": 0.21, "6012": 0.17,
		"6013": 0.1, "6014": 0.11, "6015": 0.15, "6016": 0.12,
		"6017": 0, "6018": 0.18, "6019": 0.27, "6020": 0.2,
		"6021": 0.15, "6022": 0.19, "6023": 0.28, "6024": 0.17,
		"6025": 0.06, "6026": 0.09, "6027": 0.1, "6028": 0.1,
		"6029": 0.15, "6030": 0.18, "6031": 0.23, "6032": 0.17,
		"6033": 0.02, "6034": 0.13, "6035": 0.11, "6036": 0.08,
		"6037": 0.1, "6038": 0.13, "6039": 0.11, "6040": 0.21,
		"6041": 0.15, "6042": 0.31, "6043": 0.2, "6044": 0.12,
		"6045": 0.08, "6046": 0.1, "6047": 0.03, "6048": 0.04,
		"6049": 0.0, "6050": 0.03, "6051": 0.03,
	},
}

// SupportedCategory reports whether a factor table exists for the category.
func SupportedCategory(category string) bool {
	_, ok := factorTables[category]
	return ok
}
