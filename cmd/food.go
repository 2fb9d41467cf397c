package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/macroscoach/mcctl/internal/api"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Search the food catalog and look up barcodes",
	Long: `Query the server's food catalog.

Macros are per 100 g; a dash means the source did not report a value.

Examples:
  mcctl food search riso --limit 5
  mcctl food recent --slot colazione
  mcctl food barcode 8001120791234
  mcctl food save 8001120791234 --name "fiocchi d'avena" --kcal 372 --pro 13 --carb 59 --fat 7`,
}

var foodSearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Find catalog foods by name",
	Args:  cobra.ExactArgs(1),
	RunE:  runFoodSearch,
}

var foodRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Foods used recently",
	Args:  cobra.NoArgs,
	RunE:  runFoodRecent,
}

var foodBarcodeCmd = &cobra.Command{
	Use:   "barcode <code>",
	Short: "Look up a product by barcode",
	Args:  cobra.ExactArgs(1),
	RunE:  runFoodBarcode,
}

var foodSaveCmd = &cobra.Command{
	Use:   "save <code>",
	Short: "Store a product under a barcode",
	Args:  cobra.ExactArgs(1),
	RunE:  runFoodSave,
}

func init() {
	rootCmd.AddCommand(foodCmd)
	foodCmd.AddCommand(foodSearchCmd, foodRecentCmd, foodBarcodeCmd, foodSaveCmd)

	foodSearchCmd.Flags().Int("limit", 0, "maximum results (default chosen by the server)")
	foodRecentCmd.Flags().Int("limit", 0, "maximum results (default chosen by the server)")
	foodRecentCmd.Flags().String("slot", "", "only foods eaten in this meal slot")

	foodSaveCmd.Flags().String("name", "", "product name")
	for _, macro := range []string{"kcal", "pro", "carb", "fat"} {
		foodSaveCmd.Flags().Float64(macro, 0, macro+" per 100 g")
	}
	_ = foodSaveCmd.MarkFlagRequired("name")
}

var per100gHeaders = []string{"KCAL", "PRO", "CARB", "FAT"}

func per100gCells(p api.Per100g) []string {
	cells := make([]string, 0, 4)
	for _, v := range []*float64{p.Kcal, p.Pro, p.Carb, p.Fat} {
		if v == nil {
			cells = append(cells, "-")
			continue
		}
		cells = append(cells, fmtNum(*v))
	}
	return cells
}

func optString(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func runFoodSearch(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)
	limit, _ := cmd.Flags().GetInt("limit")

	client, err := newClient()
	if err != nil {
		return err
	}

	foods, err := client.SearchFoods(cmd.Context(), args[0], limit)
	if err != nil {
		return apiFailure("searching foods", err)
	}

	if jsonOutput {
		return writeJSON(cmd, foods)
	}
	if len(foods) == 0 {
		printer.Info("No foods match %q", args[0])
		return nil
	}

	table := printer.Table(append([]string{"ID", "NAME", "BARCODE"}, per100gHeaders...))
	for _, f := range foods {
		table.AddRow(append([]string{strconv.Itoa(f.ID), f.Name, optString(f.Barcode)}, per100gCells(f.Per100g)...))
	}
	table.Render()
	return nil
}

func runFoodRecent(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)
	limit, _ := cmd.Flags().GetInt("limit")
	slot, _ := cmd.Flags().GetString("slot")

	client, err := newClient()
	if err != nil {
		return err
	}

	foods, err := client.RecentFoods(cmd.Context(), slot, limit)
	if err != nil {
		return apiFailure("fetching recent foods", err)
	}

	if jsonOutput {
		return writeJSON(cmd, foods)
	}
	if len(foods) == 0 {
		printer.Info("No recent foods")
		return nil
	}

	table := printer.Table(append([]string{"ID", "NAME"}, per100gHeaders...))
	for _, f := range foods {
		table.AddRow(append([]string{fmtOptInt(f.FoodID), f.Name}, per100gCells(f.Per100g)...))
	}
	table.Render()
	return nil
}

func runFoodBarcode(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	client, err := newClient()
	if err != nil {
		return err
	}

	product, err := client.LookupBarcode(cmd.Context(), args[0])
	if err != nil {
		return apiFailure("barcode lookup", err)
	}

	if jsonOutput {
		return writeJSON(cmd, product)
	}
	printer.Header(product.Name)
	table := printer.Table(per100gHeaders)
	table.AddRow(per100gCells(product.Per100g))
	table.Render()
	printer.PrintHints("food barcode")
	return nil
}

func runFoodSave(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	var product api.ProductConfirm
	product.Name, _ = cmd.Flags().GetString("name")
	for macro, dst := range map[string]**float64{
		"kcal": &product.Per100g.Kcal,
		"pro":  &product.Per100g.Pro,
		"carb": &product.Per100g.Carb,
		"fat":  &product.Per100g.Fat,
	} {
		if cmd.Flags().Changed(macro) {
			v, _ := cmd.Flags().GetFloat64(macro)
			*dst = &v
		}
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	food, err := client.SaveBarcode(cmd.Context(), args[0], product)
	if err != nil {
		return apiFailure("saving product", err)
	}

	if jsonOutput {
		return writeJSON(cmd, food)
	}
	printer.Success("Stored %s as food %d (barcode %s)", food.Name, food.FoodID, food.Barcode)
	printer.PrintHints("food save")
	return nil
}
