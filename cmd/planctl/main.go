package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/meal-hub/internal/ai"
	"github.com/fdg312/meal-hub/internal/config"
	"github.com/fdg312/meal-hub/internal/feedback"
	"github.com/fdg312/meal-hub/internal/nutrition"
	"github.com/fdg312/meal-hub/internal/planner"
	"github.com/fdg312/meal-hub/internal/plans"
	"github.com/fdg312/meal-hub/internal/recipes"
	"github.com/fdg312/meal-hub/internal/storage"
	"github.com/fdg312/meal-hub/internal/storage/memory"
	"github.com/fdg312/meal-hub/internal/storage/postgres"
)

// planctl generates a meal plan from the command line: against Postgres
// when DATABASE_URL is set, otherwise against in-memory storage seeded
// with a demo catalog (--seed-demo).
func main() {
	var (
		email              = flag.String("email", "", "user email (created if missing)")
		name               = flag.String("name", "CLI User", "user name when creating")
		calories           = flag.Int("calories", 0, "daily calorie target (0 = stored targets or default)")
		goal               = flag.String("goal", "", "weight_loss | muscle_gain | maintenance")
		forceDeterministic = flag.Bool("force-deterministic", false, "skip the draft provider")
		seed               = flag.Int64("seed", 0, "random seed (0 = time-based)")
		seedDemo           = flag.Bool("seed-demo", false, "seed a demo recipe catalog before generating")
	)
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: planctl --email <email> [--calories N] [--goal G] [--force-deterministic] [--seed N] [--seed-demo]")
		os.Exit(2)
	}

	cfg := config.Load()
	ctx := context.Background()

	store := openStorage(ctx, cfg)
	defer store.Close()

	if *seedDemo {
		if err := seedDemoCatalog(ctx, store.GetRecipesStorage()); err != nil {
			log.Fatalf("FATAL seed demo catalog: %v", err)
		}
	}

	user, err := ensureUser(ctx, store.GetUsersStorage(), *email, *name)
	if err != nil {
		log.Fatalf("FATAL resolve user: %v", err)
	}

	recipeService := recipes.NewService(store.GetRecipesStorage())
	planService := plans.NewService(plans.Options{
		Plans:         store.GetMealPlansStorage(),
		Users:         store.GetUsersStorage(),
		Recipes:       recipeService,
		Feedback:      feedback.NewService(store.GetFeedbackStorage(), store.GetRecipesStorage()),
		Nutrition:     nutrition.NewService(store.GetNutritionTargetsStorage()),
		Provider:      ai.NewProvider(cfg),
		MinCandidates: cfg.PlannerMinCandidates,
	})

	plan, err := planService.Generate(ctx, user.ID, plans.GeneratePlanRequest{
		DailyCalories:      *calories,
		Goal:               *goal,
		ForceDeterministic: *forceDeterministic,
		Seed:               *seed,
	})
	if err != nil {
		log.Fatalf("FATAL generate: %v", err)
	}

	pool, err := recipeService.CandidatePool(ctx, nil)
	if err != nil {
		log.Fatalf("FATAL load catalog: %v", err)
	}

	printPlan(os.Stdout, plan, pool)
}

func openStorage(ctx context.Context, cfg *config.Config) storage.Storage {
	if cfg.DatabaseURL == "" {
		log.Println("planctl: using in-memory storage (no DATABASE_URL)")
		return memory.New()
	}

	store, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL connect to PostgreSQL: %v", err)
	}
	return store
}

func ensureUser(ctx context.Context, users storage.UsersStorage, email, name string) (storage.User, error) {
	user, found, err := users.GetUserByEmail(ctx, email)
	if err != nil {
		return storage.User{}, err
	}
	if found {
		return user, nil
	}

	user = storage.User{Email: email, Name: name}
	if err := users.CreateUser(ctx, &user); err != nil {
		return storage.User{}, err
	}
	log.Printf("planctl: created user %s (%s)", user.Email, user.ID)
	return user, nil
}

func seedDemoCatalog(ctx context.Context, store storage.RecipesStorage) error {
	type demo struct {
		title    string
		tags     []string
		calories float64
		protein  float64
	}

	catalog := []demo{
		{"Oatmeal with Berries", []string{"breakfast", "main course"}, 250, 9},
		{"Scrambled Eggs", []string{"breakfast", "main course"}, 220, 14},
		{"Apple", []string{"breakfast", "fruit"}, 80, 0},
		{"Orange", []string{"breakfast", "fruit"}, 70, 1},
		{"Greek Yogurt", []string{"breakfast", "dairy"}, 110, 10},
		{"Chicken Rice Bowl", []string{"lunch", "main course"}, 450, 38},
		{"Turkey Sandwich", []string{"lunch", "main course"}, 380, 25},
		{"Lentil Soup", []string{"lunch", "soup"}, 140, 8},
		{"Tomato Soup", []string{"lunch", "soup"}, 120, 3},
		{"Baked Salmon", []string{"dinner", "main course"}, 320, 32},
		{"Beef Stir Fry", []string{"dinner", "main course"}, 410, 30},
		{"Miso Soup", []string{"dinner", "soup"}, 90, 4},
		{"Banana Toast", []string{"pre-workout", "main course"}, 180, 5},
		{"Energy Bar", []string{"pre-workout", "main course"}, 160, 7},
		{"Protein Shake", []string{"post-workout", "main course"}, 200, 28},
		{"Cottage Cheese", []string{"post-workout", "main course"}, 170, 22},
	}
	for i := 0; i < 20; i++ {
		catalog = append(catalog, demo{
			title:    fmt.Sprintf("Veggie Plate %d", i+1),
			tags:     []string{"lunch", "dinner", "main course"},
			calories: 280 + float64(i*15),
			protein:  10,
		})
	}

	for _, d := range catalog {
		recipe := storage.Recipe{
			Title:    d.title,
			Tags:     d.tags,
			Calories: d.calories,
			Protein:  d.protein,
		}
		if err := store.CreateRecipe(ctx, &recipe); err != nil {
			return err
		}
	}

	log.Printf("planctl: seeded %d demo recipes", len(catalog))
	return nil
}

func printPlan(w io.Writer, plan plans.PlanDTO, pool *planner.CandidatePool) {
	fmt.Fprintf(w, "\n%s\n", plan.Plan.Title)
	fmt.Fprintf(w, "plan id: %s  method: %s\n", plan.ID, plan.GenerationMethod)
	fmt.Fprintf(w, "goal: %s  base: %d kcal  macros: %.0f/%.0f/%.0f %%\n\n",
		plan.Plan.Goal,
		plan.Plan.BaseDailyCalories,
		plan.Plan.MacroTargets.Protein*100,
		plan.Plan.MacroTargets.Carbs*100,
		plan.Plan.MacroTargets.Fat*100,
	)

	for _, day := range plan.Plan.Days {
		fmt.Fprintf(w, "%s (%s day, target %d kcal)\n", day.Date, day.DayType, day.TargetCalories)

		for _, meal := range day.Meals {
			fmt.Fprintf(w, "  %-14s %4d kcal\n", meal.MealType, meal.AllocatedCalories)
			for _, part := range meal.Parts {
				title := "(unfilled)"
				if part.RecipeID != nil {
					if recipe, ok := pool.ByID(*part.RecipeID); ok {
						title = recipe.Title
					} else {
						title = fmt.Sprintf("recipe #%d", *part.RecipeID)
					}
				}
				fmt.Fprintf(w, "    - %-12s %s\n", part.Name+":", title)
			}
		}

		total := pool.NutritionFor(day)
		fmt.Fprintf(w, "  total: %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat\n\n",
			total.Calories, total.Protein, total.Carbohydrate, total.Fat)
	}
}
