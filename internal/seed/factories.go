package seed

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

type recipeData struct {
	title          string
	description    string
	author         string
	imageURL       string
	ingredients    string
	prepTime       *int
	cookTime       *int
	tags           []string
	steps          []string
	ingredientRows [][2]string
}

func intp(v int) *int { return &v }

var curatedRecipes = []recipeData{
	{
		title:       "Classic Spaghetti Carbonara",
		description: "Traditional Roman pasta dish with eggs, pecorino cheese, guanciale, and black pepper. Simple ingredients create a creamy sauce without cream.",
		author:      "alice",
		imageURL:    "https://picsum.photos/seed/carbonara/400/300",
		prepTime:    intp(10),
		cookTime:    intp(20),
		tags:        []string{"Italian", "comfort food"},
		ingredients: "1 lb spaghetti\n6 oz pancetta or guanciale, diced\n4 large eggs\n1 cup grated Parmesan\n1 cup grated Pecorino Romano\nBlack pepper\nSalt for pasta water",
		steps: []string{
			"Bring a large pot of salted water to boil and cook spaghetti until al dente.",
			"Heat a large skillet over medium heat. Add pancetta and cook until crispy, about 8-10 minutes.",
			"Whisk together eggs, Parmesan, Pecorino Romano, and plenty of black pepper.",
			"Reserve 1 cup of pasta cooking water, then drain pasta.",
			"Remove skillet from heat, add hot pasta, and toss to combine.",
			"Add egg mixture to pasta, tossing constantly, loosening with reserved water until creamy.",
		},
		ingredientRows: [][2]string{
			{"spaghetti", "1 lb"},
			{"pancetta", "6 oz"},
			{"eggs", "4"},
			{"Parmesan", "1 cup"},
			{"Pecorino Romano", "1 cup"},
		},
	},
	{
		title:       "Creamy Chicken Curry",
		description: "Rich and aromatic curry with tender chicken pieces in a tomato-based sauce with coconut cream and garam masala.",
		author:      "bob",
		imageURL:    "https://picsum.photos/seed/curry/400/300",
		prepTime:    intp(15),
		cookTime:    intp(35),
		tags:        []string{"Indian", "Gluten-Free", "spicy"},
		ingredients: "2 lbs boneless chicken thighs\n2 large onions, chopped\n3 tbsp ginger-garlic paste\n2 cups tomato puree\n1 cup coconut cream\n2 tsp turmeric\n2 tsp chili powder\n3 tsp garam masala\n3 tbsp oil\nFresh cilantro\nSalt",
		steps: []string{
			"Heat oil in a large pan and saute onions until golden brown.",
			"Add ginger-garlic paste and cook for 2 minutes until fragrant.",
			"Add tomato puree, turmeric, chili powder, and garam masala. Cook for 5 minutes.",
			"Add chicken pieces and coat well with the sauce. Cook for 10 minutes.",
			"Pour in coconut cream and simmer for 15 minutes until chicken is cooked through.",
			"Garnish with fresh cilantro and serve with rice or naan.",
		},
		ingredientRows: [][2]string{
			{"chicken thighs", "2 lbs"},
			{"onions", "2"},
			{"tomato puree", "2 cups"},
			{"coconut cream", "1 cup"},
			{"garam masala", "3 tsp"},
		},
	},
	{
		title:       "Perfect Chocolate Chip Cookies",
		description: "Cookies with crispy edges and a soft, chewy center. Loaded with chocolate chips in every bite.",
		author:      "alice",
		imageURL:    "https://picsum.photos/seed/cookies/400/300",
		prepTime:    intp(15),
		cookTime:    intp(12),
		tags:        []string{"American", "Vegetarian", "dessert"},
		ingredients: "2 1/4 cups flour\n1 cup butter\n3/4 cup granulated sugar\n3/4 cup brown sugar\n2 eggs\n2 tsp vanilla\n1 tsp baking soda\n1 tsp salt\n2 cups chocolate chips",
		steps: []string{
			"Preheat oven to 350F and line baking sheets with parchment paper.",
			"Cream together butter and both sugars until light and fluffy.",
			"Beat in eggs one at a time, then add vanilla extract.",
			"Whisk together flour, baking soda, and salt; mix into wet ingredients until just combined.",
			"Fold in chocolate chips.",
			"Drop rounded tablespoons of dough onto sheets and bake 10-12 minutes until edges are golden.",
		},
		ingredientRows: [][2]string{
			{"flour", "2 1/4 cups"},
			{"butter", "1 cup"},
			{"eggs", "2"},
			{"chocolate chips", "2 cups"},
		},
	},
	{
		title:       "Fresh Greek Salad",
		description: "Crisp vegetables, tangy feta cheese, and Kalamata olives dressed simply with olive oil and lemon juice.",
		author:      "bob",
		imageURL:    "https://picsum.photos/seed/greeksalad/400/300",
		prepTime:    intp(15),
		cookTime:    intp(0),
		tags:        []string{"Greek", "Vegetarian", "Gluten-Free", "quick"},
		ingredients: "4 large tomatoes\n2 cucumbers\n1 red onion\n1 cup Kalamata olives\n8 oz feta\n1/4 cup olive oil\n2 tbsp lemon juice\n1 tsp oregano\nSalt and pepper",
		steps: []string{
			"Chop tomatoes, cucumbers, and red onion into bite-sized pieces.",
			"Add to a large bowl with Kalamata olives.",
			"Whisk together olive oil, lemon juice, oregano, salt, and pepper.",
			"Pour dressing over salad, toss gently, and top with crumbled feta.",
		},
		ingredientRows: [][2]string{
			{"tomatoes", "4"},
			{"cucumbers", "2"},
			{"feta", "8 oz"},
			{"Kalamata olives", "1 cup"},
		},
	},
	{
		title:       "Simple Pancakes",
		description: "Fluffy weekend pancakes from pantry staples. Serve with butter and maple syrup.",
		author:      "alice",
		imageURL:    "https://picsum.photos/seed/pancakes/400/300",
		prepTime:    intp(10),
		cookTime:    intp(15),
		tags:        []string{"American", "Vegetarian", "breakfast"},
		ingredients: "1 1/2 cups flour\n3 1/2 tsp baking powder\n1 tbsp sugar\n1 1/4 cups milk\n1 egg\n3 tbsp melted butter\nPinch of salt",
		steps: []string{
			"Whisk together flour, baking powder, sugar, and salt.",
			"Mix in milk, egg, and melted butter until just combined.",
			"Cook ladlefuls on a buttered griddle, flipping when bubbles form.",
		},
		ingredientRows: [][2]string{
			{"flour", "1 1/2 cups"},
			{"milk", "1 1/4 cups"},
			{"egg", "1"},
		},
	},
}

var generatedTagPool = []string{
	"Italian", "Indian", "American", "Greek", "Mexican", "Asian",
	"Vegetarian", "Vegan", "Gluten-Free", "Dairy-Free",
	"dessert", "breakfast", "quick", "comfort food", "spicy", "one-pot", "weeknight",
}

// randomRecipe builds a plausible generated recipe for bulk seeding.
func randomRecipe() recipeData {
	dish := gofakeit.Dinner()
	steps := make([]string, gofakeit.Number(3, 7))
	for i := range steps {
		steps[i] = gofakeit.Sentence(gofakeit.Number(8, 14))
	}

	var rows [][2]string
	var lines []string
	for i := 0; i < gofakeit.Number(3, 8); i++ {
		name := gofakeit.Lunch()
		amount := fmt.Sprintf("%d %s", gofakeit.Number(1, 4), gofakeit.RandomString([]string{"cups", "tbsp", "tsp", "oz", "lbs"}))
		rows = append(rows, [2]string{name, amount})
		lines = append(lines, amount+" "+name)
	}

	tagCount := gofakeit.Number(1, 3)
	tags := make([]string, 0, tagCount)
	for i := 0; i < tagCount; i++ {
		tags = append(tags, generatedTagPool[gofakeit.Number(0, len(generatedTagPool)-1)])
	}

	return recipeData{
		title:          dish,
		description:    gofakeit.Sentence(12),
		imageURL:       fmt.Sprintf("https://picsum.photos/seed/%s/400/300", gofakeit.UUID()),
		ingredients:    strings.Join(lines, "\n"),
		prepTime:       intp(gofakeit.Number(5, 30)),
		cookTime:       intp(gofakeit.Number(0, 90)),
		tags:           tags,
		steps:          steps,
		ingredientRows: rows,
	}
}
