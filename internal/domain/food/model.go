// Package food holds the food catalog.
package food

import "time"

// Food is a catalog entry with macro and calorie values per serving. The
// Serving field describes what one serving is, e.g. "100 g" or "1 cup".
type Food struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Serving   string    `db:"serving" json:"serving"`
	Calories  float64   `db:"calories" json:"calories"`
	Protein   float64   `db:"protein" json:"protein"`
	Carbs     float64   `db:"carbs" json:"carbs"`
	Fats      float64   `db:"fats" json:"fats"`
	SourceURL string    `db:"source_url" json:"source_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
