package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fdg312/meal-hub/internal/planner"
)

type candidateSummary struct {
	RecipeID int64    `json:"recipe_id"`
	Title    string   `json:"title"`
	Calories float64  `json:"calories"`
	Tags     []string `json:"tags"`
}

// buildDraftPrompt renders the generation prompt: the plan rules, every
// slot's candidate recipes, and the expected output shape.
func buildDraftPrompt(req planner.DraftRequest) string {
	macroJSON, _ := json.Marshal(req.MacroTargets)

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert meal planning assistant. Generate a 3-day JSON meal plan for user %s targeting approximately %d kcal/day (adjusted per day type) with goal '%s'.\n",
		req.UserEmail, req.DailyCalories, req.Goal)
	b.WriteString("**Requirements**:\n")
	b.WriteString("1. Three days exactly: one 'regular', one 'workout', and one 'rest' day.\n")
	fmt.Fprintf(&b, "2. Calorie targets:\n   - Regular: %d kcal\n   - Workout: %d kcal\n   - Rest: %d kcal\n",
		req.DailyCalories,
		planner.DayTarget(req.DailyCalories, planner.DayTypeWorkout),
		planner.DayTarget(req.DailyCalories, planner.DayTypeRest))
	b.WriteString("   - Meal distribution: breakfast (25%), lunch (35%), dinner (30%), mid_morning (5%), mid_afternoon (5%), supper (10%), and for workout days add pre-workout (5%) and post-workout (5%).\n")
	b.WriteString("3. Meal structure:\n")
	b.WriteString("   - Breakfast: 'main course' (required), 'fruit' (optional), 'dairy' (optional).\n")
	b.WriteString("   - Lunch: 'main course' (required), 'soup' (optional).\n")
	b.WriteString("   - Dinner: 'main course' (required), 'soup' (optional).\n")
	b.WriteString("   - Simple meals and workout meals: only 'main course', mapping mid_morning/mid_afternoon -> 'breakfast' and supper -> 'dinner'.\n")
	b.WriteString("4. Recipe selection: use the provided candidate recipes. For required parts, always select one if available (use null if no candidate exists). For optional parts, select 50% of the time.\n")
	b.WriteString("5. Output a single valid JSON object starting with '{' and ending with '}' with no extra text.\n\n")
	b.WriteString("**Candidate Recipes**:\n")

	for _, slot := range req.Slots {
		if len(slot.Candidates) == 0 {
			fmt.Fprintf(&b, "\nFor '%s' day, '%s' meal, '%s' part: NO CANDIDATES FOUND. Use 'selected_recipe_id': null.\n",
				slot.DayType, slot.MealType, slot.PartName)
			continue
		}
		summaries := make([]candidateSummary, 0, len(slot.Candidates))
		for _, c := range slot.Candidates {
			summaries = append(summaries, candidateSummary{
				RecipeID: c.ID,
				Title:    c.Title,
				Calories: c.Calories,
				Tags:     c.TagList(),
			})
		}
		candidatesJSON, _ := json.MarshalIndent(summaries, "", "  ")
		fmt.Fprintf(&b, "\nFor '%s' day, '%s' meal, '%s' part (Target ~%d kcal):\nCandidates: %s\nSelect: {\"name\": %q, \"selected_recipe_id\": <recipe_id_or_null>}\n",
			slot.DayType, slot.MealType, slot.PartName, slot.TargetCalories, candidatesJSON, slot.PartName)
	}

	fmt.Fprintf(&b, "\n**Output Format**:\n"+
		"{\n"+
		"  \"meal_plan_title\": \"AI Generated Meal Plan\",\n"+
		"  \"base_daily_calories\": %d,\n"+
		"  \"goal\": %q,\n"+
		"  \"macro_targets\": %s,\n"+
		"  \"days\": [\n"+
		"    {\n"+
		"      \"date\": \"YYYY-MM-DD\",\n"+
		"      \"day_type\": \"regular\",\n"+
		"      \"target_calories_for_day\": %d,\n"+
		"      \"meals\": [\n"+
		"        {\n"+
		"          \"meal_type\": \"breakfast\",\n"+
		"          \"allocated_calories_for_meal\": %d,\n"+
		"          \"parts\": [\n"+
		"            {\"name\": \"main course\", \"selected_recipe_id\": null},\n"+
		"            {\"name\": \"fruit\", \"selected_recipe_id\": null},\n"+
		"            {\"name\": \"dairy\", \"selected_recipe_id\": null}\n"+
		"          ]\n"+
		"        }\n"+
		"      ]\n"+
		"    }\n"+
		"  ]\n"+
		"}\n",
		req.DailyCalories, req.Goal, macroJSON, req.DailyCalories, int(float64(req.DailyCalories)*0.25))

	return b.String()
}

// buildOptimizePrompt renders the optimization prompt around an existing
// plan's JSON export.
func buildOptimizePrompt(plan *planner.Plan) string {
	planJSON, _ := json.MarshalIndent(plan, "", "  ")
	return "You are an expert meal planning assistant. Optimize the following meal plan so that it meets all the pre-established rules " +
		"(calorie targets, required meals, nutritional balance, and valid recipe selections). " +
		"Return the optimized meal plan in the SAME JSON format with no extra commentary.\n\n" +
		"Meal Plan Input:\n" + string(planJSON)
}
