package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	apperrors "github.com/dbmrq/gorestaurant/internal/errors"
	"github.com/dbmrq/gorestaurant/internal/food"
	"github.com/dbmrq/gorestaurant/internal/tui/styles"
)

func newListCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "List the foods on the backend",
		Long: `List the foods on the backend in server order.

Examples:
  gorestaurant list          # Table output
  gorestaurant list --json   # JSON array, as the backend returns it`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
	c.Flags().Bool("json", false, "Print the list as JSON")
	return c
}

func newAddCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "add",
		Short: "Add a food",
		Long: `Add a food. New foods are always available.

Examples:
  gorestaurant add --name "Feijoada" --price 59.90
  gorestaurant add -n Pizza -p 40 -d "Cheese" -i https://example.com/pizza.png`,
		Args: cobra.NoArgs,
		RunE: runAdd,
	}
	addDraftFlags(c)
	return c
}

func newEditCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a food",
		Long: `Edit a food. Fields you do not pass keep their current values.

Examples:
  gorestaurant edit 3 --price 21.50
  gorestaurant edit 3 --available=false`,
		Args: cobra.ExactArgs(1),
		RunE: runEdit,
	}
	addDraftFlags(c)
	c.Flags().Bool("available", true, "Set whether the food can be ordered")
	return c
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a food",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}
}

func addDraftFlags(c *cobra.Command) {
	c.Flags().StringP("name", "n", "", "Food name")
	c.Flags().StringP("image", "i", "", "Image URL")
	c.Flags().StringP("price", "p", "", "Price, e.g. 19.90")
	c.Flags().StringP("description", "d", "", "Description")
}

// draftFromFlags overlays the draft flags that were set on d.
func draftFromFlags(cmd *cobra.Command, d food.Draft) food.Draft {
	fields := map[string]*string{
		"name":        &d.Name,
		"image":       &d.Image,
		"price":       &d.Price,
		"description": &d.Description,
	}
	for name, dst := range fields {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetString(name)
		}
	}
	return d
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, apperrors.New(apperrors.ErrValidation, fmt.Sprintf("invalid food id %q", arg))
	}
	return id, nil
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer setupLogging(cmd, cfg, true)()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	s := newSynchronizer(cfg)
	defer func() { _ = s.Close() }()

	if err := s.Initialize(ctx); err != nil {
		return err
	}
	items := s.Items()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode list: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No foods yet.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(items))
	return nil
}

// renderTable renders items as a bordered table.
func renderTable(items []food.Item) string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		status := styles.StatusUnavailable + " no"
		if it.Available {
			status = styles.StatusAvailable + " yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(it.ID),
			it.Name,
			food.FormatPrice(it.Price),
			status,
			it.Description,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.BorderColor)).
		Headers("ID", "NAME", "PRICE", "AVAILABLE", "DESCRIPTION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(styles.Secondary)
			}
			return s
		}).
		String()
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer setupLogging(cmd, cfg, true)()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	s := newSynchronizer(cfg)
	defer func() { _ = s.Close() }()

	it, err := s.Create(ctx, draftFromFlags(cmd, food.Draft{}))
	if err != nil {
		return err
	}
	cmd.Printf("Added #%d %s\n", it.ID, it.Name)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer setupLogging(cmd, cfg, true)()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	s := newSynchronizer(cfg)
	defer func() { _ = s.Close() }()

	if err := s.Initialize(ctx); err != nil {
		return err
	}
	var target *food.Item
	for _, it := range s.Items() {
		if it.ID == id {
			target = &it
			break
		}
	}
	if target == nil {
		return apperrors.FoodNotFound(id)
	}

	it := *target
	if draftChanged(cmd) {
		it, err = s.Edit(ctx, it, draftFromFlags(cmd, food.DraftOf(it)))
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("available") {
		available, _ := cmd.Flags().GetBool("available")
		it, err = s.SetAvailability(ctx, id, available)
		if err != nil {
			return err
		}
	}
	cmd.Printf("Saved #%d %s\n", it.ID, it.Name)
	return nil
}

func draftChanged(cmd *cobra.Command) bool {
	for _, name := range []string{"name", "image", "price", "description"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer setupLogging(cmd, cfg, true)()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	s := newSynchronizer(cfg)
	defer func() { _ = s.Close() }()

	if err := s.Delete(ctx, id); err != nil {
		return err
	}
	cmd.Printf("Deleted item #%d\n", id)
	return nil
}
