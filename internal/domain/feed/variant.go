package feed

import (
	"fmt"

	"github.com/webitel/social-dashboard/internal/domain/model"
)

// Variant fixes everything that distinguishes one simulated network from another:
// identifier format, window size, spike policy and the metric recipe.
type Variant struct {
	Name     string
	Title    string
	IDPrefix string
	IDMin    int
	IDMax    int
	Capacity int

	Boost       BoostPolicy
	BoostFactor int

	// fill draws base, metrics and categorical fields in a fixed order.
	fill func(src Source, tick uint64, boost int, rec *model.Record)
}

const (
	FacebookName  = "facebook"
	InstagramName = "instagram"
)

var (
	fbPostTypes = []string{"Status", "Photo", "Video", "Link"}
	fbTopics    = []string{"🎉 Party", "📚 Study", "🏖️ Vacation", "🚰 Project", "🐶 Dog pic", "📈 Stocks", "🍔 Lunch", "🏃 Fitness"}
	fbPages     = []string{"TechNews", "HappyPaws", "GlobalEvents", "TravelNow", "FoodieLife", "FitnessHub"}

	igContentTypes = []string{"Photo", "Video", "Reel", "Story", "Carousel", "Live", "IGTV", "Clip"}
	igHashtags     = []string{
		"#travel #sunset", "#foodie #delicious", "#fashion #ootd", "#gym #fitlife",
		"#music #vibes", "#nature #hike", "#pets #doglover", "#selfie #me", "#tech #coding",
		"#coffee #morning", "#beachlife #waves", "#wanderlust #explore", "#art #creative",
		"#motivation #goals", "#love #life", "#happy #smile", "#friends #fun", "#weekend #vibes",
		"#adventure #outdoors", "#style #inspo", "#design #minimal", "#codinglife #developer",
		"#gaming #streamer", "#education #learning", "#startup #hustle", "#photooftheday",
		"#memes #funny", "#quotes #mindset", "#books #reading", "#family #bond",
		"#health #wellness", "#cars #drive", "#citylife #urban", "#fitness #lifestyle",
	}
	igCaptionPrefixes = []string{
		"Enjoying", "Loving", "Working on", "Excited about", "Spending time with", "Can't get enough of",
		"Here's to", "A little throwback to", "Currently obsessed with", "In love with",
		"My favorite moment from", "Look what I found in", "So proud of", "Chasing", "Sharing my day at",
	}
	igCaptionSubjects = []string{
		"this view 🌄", "my new setup 💻", "delicious lunch 🍝", "sunset drive 🚗", "coding session ☕",
		"friends and laughs 🎉", "a moment of peace 🧘", "my fur baby 🐶", "street vibes 🏙️",
		"bookworm mode 📚", "fitness grind 🏋️", "random thoughts 🤯", "cozy vibes 🛋️", "travel snaps ✈️",
		"mountain air ⛰️", "beach breeze 🌊", "crazy weekend 🎊", "new drip 👟", "the process 🛠️",
		"late night grind 🌙", "minimalist goals 🎯", "this design 🎨", "good energy 💫",
	}
	igUsernames = []string{
		"user_zeno", "cam_travels", "fit_n_fab", "coffee_addict", "urban_journals", "hacker_daily",
		"theartsytype", "bookaholic88", "explorer_max", "vibes_only", "daily.dev", "doggydaze", "humor_hub",
	}
)

// Facebook returns the page-centric variant: 50 rows, spike on every 10th tick.
func Facebook() Variant {
	return Variant{
		Name:        FacebookName,
		Title:       "Facebook Real-Time Dashboard",
		IDPrefix:    "FB_",
		IDMin:       10000,
		IDMax:       99999,
		Capacity:    50,
		Boost:       EveryNthTick(10),
		BoostFactor: 5,
		fill: func(src Source, tick uint64, boost int, rec *model.Record) {
			base := src.Between(10, 100)
			rec.Likes = src.Between(100, 400) + base*boost
			rec.Shares = src.Between(30, 150) + base
			rec.Comments = src.Between(20, 100) + base
			rec.Followers = 5000 + int(tick)*src.Between(10, 30)

			rec.Author = src.Pick(fbPages)
			rec.ContentType = src.Pick(fbPostTypes)
			rec.Topic = src.Pick(fbTopics)
		},
	}
}

// Instagram returns the creator-centric variant: 40 rows, spike during every 5th wall-clock minute.
func Instagram() Variant {
	return Variant{
		Name:        InstagramName,
		Title:       "Instagram Real-Time Dashboard",
		IDPrefix:    "IG_",
		IDMin:       10000,
		IDMax:       99999,
		Capacity:    40,
		Boost:       WallClockMinute(5),
		BoostFactor: 5,
		fill: func(src Source, tick uint64, boost int, rec *model.Record) {
			rec.Author = src.Pick(igUsernames)

			base := src.Between(1, 5)
			rec.Likes = src.Between(100, 300) + base*boost
			rec.Comments = src.Between(30, 100) + base
			rec.Shares = src.Between(10, 60) + base
			rec.Followers = 10000 + int(tick)*src.Between(20, 50) + base*5

			rec.Topic = src.Pick(igHashtags)
			rec.Caption = src.Pick(igCaptionPrefixes) + " " + src.Pick(igCaptionSubjects)
			rec.ContentType = src.Pick(igContentTypes)
		},
	}
}

// Lookup resolves a variant by name.
func Lookup(name string) (Variant, error) {
	switch name {
	case FacebookName:
		return Facebook(), nil
	case InstagramName:
		return Instagram(), nil
	default:
		return Variant{}, fmt.Errorf("feed: unknown dashboard variant %q", name)
	}
}

// Names lists the known variants.
func Names() []string {
	return []string{FacebookName, InstagramName}
}
