// Package feed simulates a stream of coastal social-media posts. Posts are
// built from fixed templates, locations, platforms and users; the generator
// avoids reusing any of the last few authors.
package feed

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Location is a named coastal place.
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Post is one raw social-media post.
type Post struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	User      string    `json:"user"`
	Platform  string    `json:"platform"`
	Location  Location  `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

// RecentUsers is how many of the latest authors are skipped when picking the
// next one.
const RecentUsers = 5

var templates = []string{
	"Big waves at {location} right now! Stay safe everyone. #highwaves 🌊",
	"Coastal flooding warning in {location} area. Water levels rising rapidly. ⚠️",
	"Unusual water movement at {location}. Is this normal?",
	"Beach erosion getting serious at {location}. 🏖️",
	"Beautiful day at {location} today! Perfect for swimming. ☀️",
	"Saw some interesting wave patterns at {location}",
	"Water looking rough near {location} today",
	"Lifeguards issuing warnings at {location}",
	"High tide causing issues at {location}",
	"Storm warnings for {location} coastal areas",
	"Amazing sunset at {location} with calm waters 🌅",
	"Strong currents reported at {location}, be careful!",
	"Coastal cleanup needed at {location} due to debris",
	"Dolphin spotting at {location} today! 🐬",
	"Pollution spotted near {location}. Water doesn't look safe today.",
	"Tsunami warning drill happening at {location} today. Don't be alarmed!",
}

var locations = []Location{
	{Name: "Mumbai Beach", Lat: 19.0760, Lon: 72.8777},
	{Name: "Goa Beach", Lat: 15.2993, Lon: 74.1240},
	{Name: "Chennai Marina", Lat: 13.0827, Lon: 80.2707},
	{Name: "Puri Beach", Lat: 19.8135, Lon: 85.8312},
	{Name: "Kovalam Beach", Lat: 8.3661, Lon: 76.9969},
	{Name: "Juhu Beach", Lat: 19.0988, Lon: 72.8267},
	{Name: "Radhanagar Beach", Lat: 11.9847, Lon: 92.9506},
	{Name: "Varkala Beach", Lat: 8.7379, Lon: 76.7163},
}

var platforms = []string{"twitter", "reddit", "facebook", "instagram"}

var users = []string{
	"beach_lover", "wave_watcher", "coastal_guard", "surfer_dude", "weather_alert",
	"ocean_observer", "coastal_resident", "marine_watcher", "tide_tracker", "storm_chaser",
	"beachcomber_amy", "surf_pro_mike", "sandy_toes", "salty_dog", "coastal_carl",
	"wave_rider", "tidal_watcher", "shoreline_sam", "beach_bum", "coastal_claire",
}

// Generator produces posts. It is safe for concurrent use.
type Generator struct {
	clock  clockwork.Clock
	mu     sync.Mutex
	rng    *rand.Rand
	recent []string
}

// NewGenerator creates a generator. The same seed yields the same sequence of
// texts, users and platforms.
func NewGenerator(clock clockwork.Clock, seed uint64) *Generator {
	return &Generator{
		clock: clock,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Next returns a new post stamped with the generator's clock.
func (g *Generator) Next() Post {
	g.mu.Lock()
	defer g.mu.Unlock()

	tmpl := templates[g.rng.IntN(len(templates))]
	loc := locations[g.rng.IntN(len(locations))]
	return Post{
		ID:        uuid.NewString(),
		Text:      strings.Replace(tmpl, "{location}", loc.Name, 1),
		User:      g.nextUser(),
		Platform:  platforms[g.rng.IntN(len(platforms))],
		Location:  loc,
		Timestamp: g.clock.Now().UTC(),
	}
}

func (g *Generator) nextUser() string {
	pool := make([]string, 0, len(users))
	for _, u := range users {
		if !slices.Contains(g.recent, u) {
			pool = append(pool, u)
		}
	}
	if len(pool) == 0 {
		pool = users
	}
	u := pool[g.rng.IntN(len(pool))]

	g.recent = append(g.recent, u)
	if len(g.recent) > RecentUsers {
		g.recent = g.recent[1:]
	}
	return u
}

// Run emits a post every interval until ctx is done or emit fails. The
// first post goes out immediately.
func (g *Generator) Run(ctx context.Context, interval time.Duration, emit func(context.Context, Post) error) error {
	ticker := g.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := emit(ctx, g.Next()); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
		}
	}
}
