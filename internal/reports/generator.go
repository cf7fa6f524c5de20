package reports

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/fdg312/meal-hub/internal/planner"
	"github.com/fdg312/meal-hub/internal/recipes"
	"github.com/jung-kurt/gofpdf"
)

// Generator renders stored meal plans as PDF documents.
type Generator struct {
	recipes *recipes.Service
}

func NewGenerator(recipes *recipes.Service) *Generator {
	return &Generator{recipes: recipes}
}

// GeneratePDF renders a plan as a one-document PDF: a header with the
// plan's targets, then one section per day with its meal table and a
// nutrition summary totalled over the selected recipes.
func (g *Generator) GeneratePDF(ctx context.Context, plan *planner.Plan) ([]byte, error) {
	pool, err := g.recipes.CandidatePool(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe catalog: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, plan.Title)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Goal: %s", strings.ReplaceAll(plan.Goal, "_", " ")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Base daily calories: %d kcal", plan.BaseDailyCalories))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Macro split: protein %.0f%%, carbs %.0f%%, fat %.0f%%",
		plan.MacroTargets.Protein*100, plan.MacroTargets.Carbs*100, plan.MacroTargets.Fat*100))
	pdf.Ln(10)

	for _, day := range plan.Days {
		g.drawDay(pdf, day, pool)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) drawDay(pdf *gofpdf.Fpdf, day planner.Day, pool *planner.CandidatePool) {
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("%s (%s day, target %d kcal)",
		day.Date, strings.ReplaceAll(day.DayType, "_", " "), day.TargetCalories))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(35, 6, "Meal", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Part", "1", 0, "C", false, 0, "")
	pdf.CellFormat(75, 6, "Recipe", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Calories", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 8)
	for _, meal := range day.Meals {
		mealLabel := strings.ReplaceAll(meal.MealType, "_", " ")
		for i, part := range meal.Parts {
			label := ""
			if i == 0 {
				label = fmt.Sprintf("%s (%d kcal)", mealLabel, meal.AllocatedCalories)
			}

			title, calories := "-", ""
			if part.RecipeID != nil {
				if recipe, ok := pool.ByID(*part.RecipeID); ok {
					title = recipe.Title
					calories = fmt.Sprintf("%.0f", recipe.Calories)
				} else {
					title = fmt.Sprintf("recipe #%d", *part.RecipeID)
				}
			}

			pdf.CellFormat(35, 6, label, "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, part.Name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(75, 6, title, "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 6, calories, "1", 1, "R", false, 0, "")
		}
	}

	n := pool.NutritionFor(day)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 7, fmt.Sprintf("Day total: %.0f kcal, protein %.0fg, carbs %.0fg, fat %.0fg",
		n.Calories, n.Protein, n.Carbohydrate, n.Fat))
	pdf.Ln(10)
}
