// Package factories generates demo data for seeding and tests: restaurants
// with menus, shaped order history and A/B tracking sessions. Everything is
// driven by an injected rand source so seeds are reproducible.
package factories

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
	"github.com/plateworks/menumetrics/internal/models"
)

type RestaurantFactory struct {
	fake      faker.Faker
	rng       *rand.Rand
	slugCache sync.Map
}

func NewRestaurantFactory(rng *rand.Rand) *RestaurantFactory {
	return &RestaurantFactory{
		fake: faker.NewWithSeed(rand.NewSource(rng.Int63())),
		rng:  rng,
	}
}

func (rf *RestaurantFactory) CreateRestaurant() *models.Restaurant {
	name := rf.fake.Company().Name()
	return &models.Restaurant{
		ID:        cuid.New(),
		Name:      name,
		SlugName:  rf.createUniqueSlug(name),
		Cuisine:   menuCuisines[rf.rng.Intn(len(menuCuisines))],
		Town:      rf.fake.Address().City(),
		Currency:  "USD",
		CreatedAt: time.Now().UTC(),
	}
}

func (rf *RestaurantFactory) createUniqueSlug(name string) string {
	base := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, base)

	slug := base
	counter := 1

	for {
		if _, exists := rf.slugCache.LoadOrStore(slug, true); !exists {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
		counter++
	}
}
