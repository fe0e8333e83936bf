package types

import (
	"time"
)

// DateLayout is the canonical calendar-date format used everywhere an
// article date crosses a boundary (logs, exports, queries).
const DateLayout = "2006-01-02"

// RawArticle is a listing entry exactly as extracted from the result
// page. Every field except URL may be empty; nothing is normalized yet.
type RawArticle struct {
	Title       string
	URL         string
	Source      string
	RawDate     string
	Description string
}

// Sentiment is the label+score pair attached by the annotator.
type Sentiment struct {
	Label string  `bson:"label" json:"label"`
	Score float64 `bson:"score" json:"score"`
}

// Article is the persisted unit. By the time an Article is built, its
// Date is either a normalized calendar date or zero — never raw text.
type Article struct {
	Title       string     `bson:"title"                 json:"title"`
	URL         string     `bson:"url"                   json:"url"`
	Source      string     `bson:"source"                json:"source"`
	Date        time.Time  `bson:"date,omitempty"        json:"date,omitempty"`
	Category    string     `bson:"category"              json:"category"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Sentiment   *Sentiment `bson:"sentiment,omitempty"   json:"sentiment,omitempty"`
	ScrapedAt   time.Time  `bson:"scraped_at"            json:"scraped_at"`
}

// Valid reports whether the article carries the three mandatory fields.
// Date is deliberately not part of validity: an article with an
// unparseable date is still kept.
func (a *Article) Valid() bool {
	return a.Title != "" && a.URL != "" && a.Source != ""
}

// Checkpoint is a persisted scraping-progress marker. At most one
// document exists per Key (unique index in the metadata collection).
type Checkpoint struct {
	Key       string    `bson:"key"        json:"key"`
	Value     time.Time `bson:"value"      json:"value"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CheckpointLastScraped is the key under which the driver records how
// far scraping has advanced.
const CheckpointLastScraped = "last_scraped_date"
