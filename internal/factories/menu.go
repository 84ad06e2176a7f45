package factories

import (
	"math/rand"
	"time"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
	"github.com/plateworks/menumetrics/internal/models"
)

var menuCuisines = []string{"Italian", "Indian", "American", "Japanese", "Mexican"}

var categoryOrder = []string{"Starters", "Mains", "Desserts", "Drinks"}

var menuTemplates = map[string]map[string][]string{
	"Italian": {
		"Starters": {"Bruschetta", "Caprese Salad", "Arancini", "Garlic Focaccia"},
		"Mains":    {"Margherita Pizza", "Spaghetti Carbonara", "Lasagna al Forno", "Risotto ai Funghi", "Pollo alla Parmigiana", "Truffle Tagliatelle"},
		"Desserts": {"Tiramisu", "Panna Cotta", "Cannoli"},
		"Drinks":   {"Chianti", "Aperol Spritz", "San Pellegrino", "Espresso"},
	},
	"Indian": {
		"Starters": {"Samosa", "Onion Bhaji", "Paneer Tikka", "Papadum Basket"},
		"Mains":    {"Chicken Tikka Masala", "Lamb Rogan Josh", "Paneer Butter Masala", "Chana Masala", "Hyderabadi Biryani", "Tandoori Mixed Grill"},
		"Desserts": {"Gulab Jamun", "Kulfi", "Gajar Halwa"},
		"Drinks":   {"Mango Lassi", "Masala Chai", "Kingfisher", "Nimbu Pani"},
	},
	"American": {
		"Starters": {"Buffalo Wings", "Loaded Nachos", "Mozzarella Sticks", "Cobb Salad"},
		"Mains":    {"Classic Cheeseburger", "BBQ Ribs", "Buttermilk Fried Chicken", "Philly Cheesesteak", "Mac and Cheese", "Smoked Brisket Plate"},
		"Desserts": {"Apple Pie", "Brownie Sundae", "NY Cheesecake"},
		"Drinks":   {"Root Beer", "Vanilla Shake", "Iced Tea", "Craft IPA"},
	},
	"Japanese": {
		"Starters": {"Edamame", "Gyoza", "Miso Soup", "Agedashi Tofu"},
		"Mains":    {"Salmon Sushi Set", "Tonkotsu Ramen", "Chicken Katsu Curry", "Beef Teriyaki", "Tempura Udon", "Chirashi Bowl"},
		"Desserts": {"Mochi", "Matcha Ice Cream", "Dorayaki"},
		"Drinks":   {"Sencha", "Ramune", "Asahi", "Yuzu Soda"},
	},
	"Mexican": {
		"Starters": {"Guacamole", "Queso Fundido", "Elote", "Tortilla Soup"},
		"Mains":    {"Carnitas Tacos", "Chicken Quesadilla", "Beef Burrito", "Enchiladas Verdes", "Fajita Platter", "Chiles Rellenos"},
		"Desserts": {"Churros", "Flan", "Tres Leches Cake"},
		"Drinks":   {"Horchata", "Jarritos", "Margarita", "Agua Fresca"},
	},
}

var categoryPriceBands = map[string][2]int{
	"Starters": {6, 14},
	"Mains":    {12, 38},
	"Desserts": {6, 12},
	"Drinks":   {3, 12},
}

type MenuFactory struct {
	fake faker.Faker
	rng  *rand.Rand
}

func NewMenuFactory(rng *rand.Rand) *MenuFactory {
	return &MenuFactory{
		fake: faker.NewWithSeed(rand.NewSource(rng.Int63())),
		rng:  rng,
	}
}

// CreateMenu builds a full menu for the restaurant's cuisine: categories in
// display order and every item with a price/cost pair carrying a plausible
// ingredient margin.
func (mf *MenuFactory) CreateMenu(restaurant *models.Restaurant) ([]models.Category, []models.MenuItem) {
	template, ok := menuTemplates[restaurant.Cuisine]
	if !ok {
		template = menuTemplates["American"]
	}

	var categories []models.Category
	var items []models.MenuItem
	createdAt := time.Now().UTC()

	for pos, catName := range categoryOrder {
		names := template[catName]
		if len(names) == 0 {
			continue
		}
		category := models.Category{
			ID:           cuid.New(),
			RestaurantID: restaurant.ID,
			Name:         catName,
			Position:     pos + 1,
		}
		categories = append(categories, category)

		band := categoryPriceBands[catName]
		for _, name := range names {
			price := mf.fake.Float64(2, band[0], band[1])
			items = append(items, models.MenuItem{
				ID:           cuid.New(),
				RestaurantID: restaurant.ID,
				CategoryID:   category.ID,
				Name:         name,
				Description:  mf.fake.Lorem().Sentence(8),
				Price:        price,
				Cost:         round2(price * (0.25 + mf.rng.Float64()*0.25)),
				Available:    mf.rng.Float64() < 0.92,
				CreatedAt:    createdAt,
			})
		}
	}

	return categories, items
}

// FromCatalogue builds the menu from a CSV catalogue instead of the builtin
// templates, keeping categories in first-seen order.
func (mf *MenuFactory) FromCatalogue(restaurant *models.Restaurant, rows []models.CatalogueItem) ([]models.Category, []models.MenuItem) {
	var categories []models.Category
	byName := make(map[string]string)
	var items []models.MenuItem
	createdAt := time.Now().UTC()

	for _, row := range rows {
		categoryID, ok := byName[row.Category]
		if !ok {
			category := models.Category{
				ID:           cuid.New(),
				RestaurantID: restaurant.ID,
				Name:         row.Category,
				Position:     len(categories) + 1,
			}
			categories = append(categories, category)
			categoryID = category.ID
			byName[row.Category] = categoryID
		}

		description := row.Description
		if description == "" {
			description = mf.fake.Lorem().Sentence(8)
		}
		items = append(items, models.MenuItem{
			ID:           cuid.New(),
			RestaurantID: restaurant.ID,
			CategoryID:   categoryID,
			Name:         row.Name,
			Description:  description,
			Price:        row.Price,
			Cost:         row.Cost,
			Available:    true,
			CreatedAt:    createdAt,
		})
	}

	return categories, items
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
