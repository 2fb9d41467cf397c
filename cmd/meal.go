package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/macroscoach/mcctl/internal/api"
)

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Log and inspect meals",
	Long: `Log meals and read back today's intake.

Items are given as name:grams or name:grams:pro:carb:fat, with macros in
grams per 100 g of food.

Examples:
  mcctl meal log --item "petto di pollo:200:31:0:3.6" --item "riso:80:7:78:0.6"
  mcctl meal log --slot cena --item "salmone:150:20:0:13"
  mcctl meal barcode 8001120791234 --grams 40 --slot colazione
  mcctl meal update 12 --grams 180
  mcctl meal today
  mcctl meal get 12`,
}

var mealLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a meal",
	Args:  cobra.NoArgs,
	RunE:  runMealLog,
}

var mealTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Today's meals and macro budget",
	Args:  cobra.NoArgs,
	RunE:  runMealToday,
}

var mealGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a meal",
	Args:  cobra.ExactArgs(1),
	RunE:  runMealGet,
}

var mealUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the food or grams of a meal",
	Long: `Change the food name or grams of the first item of a meal. The item's
macros per 100 g stay as logged.`,
	Args: cobra.ExactArgs(1),
	RunE: runMealUpdate,
}

var mealBarcodeCmd = &cobra.Command{
	Use:   "barcode <code>",
	Short: "Record a meal from a product barcode",
	Args:  cobra.ExactArgs(1),
	RunE:  runMealBarcode,
}

var mealDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a meal",
	Args:  cobra.ExactArgs(1),
	RunE:  runMealDelete,
}

func init() {
	rootCmd.AddCommand(mealCmd)
	mealCmd.AddCommand(mealLogCmd, mealTodayCmd, mealGetCmd, mealUpdateCmd, mealBarcodeCmd, mealDeleteCmd)

	mealLogCmd.Flags().StringArray("item", nil, "food as name:grams[:pro:carb:fat] (repeatable)")
	mealLogCmd.Flags().String("slot", "", "meal slot (default chosen by the server from the schedule)")
	mealLogCmd.Flags().String("when", "", "meal time (default now)")
	_ = mealLogCmd.MarkFlagRequired("item")

	mealUpdateCmd.Flags().String("food", "", "new food name")
	mealUpdateCmd.Flags().Float64("grams", 0, "new quantity in grams")

	mealBarcodeCmd.Flags().Float64("grams", 0, "quantity in grams")
	mealBarcodeCmd.Flags().String("slot", "", "meal slot (default chosen by the server from the schedule)")
	mealBarcodeCmd.Flags().String("when", "", "meal time (default now)")
	_ = mealBarcodeCmd.MarkFlagRequired("grams")
}

// parseMealItem parses name:grams[:pro:carb:fat]. The numbers are taken
// from the right, so the name may itself contain colons as long as its last
// segment is not a number.
func parseMealItem(s string) (api.MealItem, error) {
	parts := strings.Split(s, ":")
	bad := fmt.Errorf("item %q: want name:grams or name:grams:pro:carb:fat", s)

	if n := len(parts); n >= 5 {
		if nums, ok := parseFloats(parts[n-4:]); ok {
			if _, numeric := parseFloats(parts[n-5 : n-4]); numeric {
				return api.MealItem{}, bad
			}
			return newMealItem(s, strings.Join(parts[:n-4], ":"), nums)
		}
	}
	if n := len(parts); n >= 2 {
		nums, ok := parseFloats(parts[n-1:])
		if !ok {
			return api.MealItem{}, fmt.Errorf("item %q: grams %q is not a number", s, parts[n-1])
		}
		// name:grams:pro or name:grams:pro:carb, not a name ending in a number
		if _, numeric := parseFloats(parts[n-2 : n-1]); numeric {
			return api.MealItem{}, bad
		}
		return newMealItem(s, strings.Join(parts[:n-1], ":"), nums)
	}
	return api.MealItem{}, bad
}

func newMealItem(raw, name string, nums []float64) (api.MealItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return api.MealItem{}, fmt.Errorf("item %q: food name is empty", raw)
	}
	item := api.MealItem{FoodName: name, Grams: nums[0]}
	if len(nums) == 4 {
		item.Pro, item.Carb, item.Fat = nums[1], nums[2], nums[3]
	}
	return item, nil
}

func parseFloats(parts []string) ([]float64, bool) {
	nums := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, false
		}
		nums[i] = f
	}
	return nums, true
}

func runMealLog(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	raw, _ := cmd.Flags().GetStringArray("item")
	meal := api.Meal{Items: make([]api.MealItem, 0, len(raw))}
	for _, r := range raw {
		item, err := parseMealItem(r)
		if err != nil {
			return usageError("invalid --item", err)
		}
		meal.Items = append(meal.Items, item)
	}
	meal.Slot, _ = cmd.Flags().GetString("slot")

	whenStr, _ := cmd.Flags().GetString("when")
	when, err := parseWhen(whenStr)
	if err != nil {
		return err
	}
	meal.When = when

	client, err := newClient()
	if err != nil {
		return err
	}

	res, err := client.LogMeal(cmd.Context(), meal)
	if err != nil {
		return apiFailure("logging meal", err)
	}

	if jsonOutput {
		return writeJSON(cmd, res)
	}
	printer.Success("Logged meal %d (%s, %d items)", res.MealID, res.Slot, len(meal.Items))
	printer.PrintHints("meal log")
	return nil
}

func runMealToday(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	client, err := newClient()
	if err != nil {
		return err
	}

	today, err := client.MealsToday(cmd.Context())
	if err != nil {
		return apiFailure("fetching today's meals", err)
	}

	if jsonOutput {
		return writeJSON(cmd, today)
	}

	dayType := "OFF"
	if today.IsOn {
		dayType = "ON"
	}
	printer.Header(fmt.Sprintf("Today (%s day)", dayType))

	table := printer.Table(macroHeaders)
	table.AddRow(macroRow("eaten", today.DayTotals))
	table.AddRow(macroRow("limit", today.KcalLimits))
	table.Render()

	if len(today.BySlot) > 0 {
		printer.Header("By slot")
		slots := printer.Table([]string{"SLOT", "KCAL", "TARGET KCAL", "PRO", "TARGET PRO"})
		for _, s := range today.BySlot {
			slots.AddRow([]string{s.Slot, fmtNum(s.Used.Kcal), fmtNum(s.Target.Kcal), fmtNum(s.Used.Pro), fmtNum(s.Target.Pro)})
		}
		slots.Render()
	}

	if len(today.Meals) > 0 {
		printer.Header("Meals")
		meals := printer.Table([]string{"ID", "WHEN", "SLOT", "KCAL", "PRO", "CARB", "FAT"})
		for _, m := range today.Meals {
			meals.AddRow([]string{strconv.Itoa(m.MealID), m.When, m.Slot, fmtNum(m.Kcal), fmtNum(m.Pro), fmtNum(m.Carb), fmtNum(m.Fat)})
		}
		meals.Render()
	}
	return nil
}

func runMealGet(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	meal, err := client.Meal(cmd.Context(), id)
	if err != nil {
		return apiFailure("fetching meal", err)
	}

	if jsonOutput {
		return writeJSON(cmd, meal)
	}

	printer.Header(fmt.Sprintf("Meal %d, %s at %s", meal.MealID, meal.Slot, meal.When))
	table := printer.Table([]string{"FOOD", "GRAMS", "PRO/100G", "CARB/100G", "FAT/100G"})
	for _, it := range meal.Items {
		table.AddRow([]string{it.FoodName, fmtNum(it.Grams), fmtNum(it.Pro), fmtNum(it.Carb), fmtNum(it.Fat)})
	}
	table.Render()
	return nil
}

func runMealUpdate(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var update api.MealUpdate
	if cmd.Flags().Changed("food") {
		food, _ := cmd.Flags().GetString("food")
		update.FoodName = &food
	}
	if cmd.Flags().Changed("grams") {
		grams, _ := cmd.Flags().GetFloat64("grams")
		update.Grams = &grams
	}
	if update.FoodName == nil && update.Grams == nil {
		return usageError("nothing to update", fmt.Errorf("pass --food, --grams or both"))
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	item, err := client.UpdateMeal(cmd.Context(), id, update)
	if err != nil {
		return apiFailure("updating meal", err)
	}

	if jsonOutput {
		return writeJSON(cmd, item)
	}
	printer.Success("Updated meal %d: %s g of %s", item.MealID, fmtNum(item.Grams), item.FoodName)
	return nil
}

func runMealBarcode(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	params := api.BarcodeMealParams{Code: args[0]}
	params.Grams, _ = cmd.Flags().GetFloat64("grams")
	params.Slot, _ = cmd.Flags().GetString("slot")

	whenStr, _ := cmd.Flags().GetString("when")
	when, err := parseWhen(whenStr)
	if err != nil {
		return err
	}
	params.When = when

	client, err := newClient()
	if err != nil {
		return err
	}

	res, err := client.LogBarcodeMeal(cmd.Context(), params)
	if err != nil {
		return apiFailure("logging barcode meal", err)
	}

	if jsonOutput {
		return writeJSON(cmd, res)
	}
	printer.Success("Logged meal %d: %s g of %s (%s)", res.MealID, fmtNum(res.Grams), res.Food, res.Slot)
	printer.PrintHints("meal log")
	return nil
}

func runMealDelete(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	res, err := client.DeleteMeal(cmd.Context(), id)
	if err != nil {
		return apiFailure("deleting meal", err)
	}

	if jsonOutput {
		return writeJSON(cmd, res)
	}
	printer.Success("Deleted meal %d", id)
	return nil
}
