package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/wipflags/internal/export"
	"github.com/theirongolddev/wipflags/internal/sheet"
)

var newProjectCmd = &cobra.Command{
	Use:   "new-project",
	Short: "Add a budget sheet for a new project to the workbook",
	RunE:  runNewProject,
}

func init() {
	rootCmd.AddCommand(newProjectCmd)
}

// projectValues are the raw form answers. Amount fields accept the same
// spellings as the workbook ("1,200", "$300", "(50)").
type projectValues struct {
	Name       string
	HourlyRate string
	Start      string

	LaborHours string
	Travel     string
	OtherNRE   string

	MonumentsQty  string
	MonumentsCost string
	PanelsQty     string
	PanelsCost    string
	KitsQty       string
	KitsCost      string
	KitLabor      string
	KitMaterial   string

	Confirm bool
}

func validateAmount(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if !sheet.IsNumeric(s) {
		return fmt.Errorf("not a number: %q", s)
	}
	return nil
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("project name is required")
	}
	return nil
}

func validateDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
		return errors.New("expected YYYY-MM-DD")
	}
	return nil
}

func amount(s string) float64 {
	v, _ := sheet.ParseAmount(s)
	return v
}

// toNewProject converts form answers into a budget sheet description.
// Entries left blank are omitted.
func (v projectValues) toNewProject() (export.NewProject, error) {
	if err := validateName(v.Name); err != nil {
		return export.NewProject{}, err
	}
	for _, s := range []string{
		v.HourlyRate, v.LaborHours, v.Travel, v.OtherNRE,
		v.MonumentsQty, v.MonumentsCost, v.PanelsQty, v.PanelsCost,
		v.KitsQty, v.KitsCost, v.KitLabor, v.KitMaterial,
	} {
		if err := validateAmount(s); err != nil {
			return export.NewProject{}, err
		}
	}
	if err := validateDate(v.Start); err != nil {
		return export.NewProject{}, err
	}

	p := export.NewProject{
		Name:       strings.TrimSpace(v.Name),
		HourlyRate: amount(v.HourlyRate),
		Start:      time.Now().UTC(),
	}
	if s := strings.TrimSpace(v.Start); s != "" {
		p.Start, _ = time.Parse("2006-01-02", s)
	}

	add := func(dst *[]export.Entry, kind, qty, cost string) {
		e := export.Entry{Kind: kind, Qty: amount(qty), Cost: amount(cost)}
		if e.Qty != 0 || e.Cost != 0 {
			*dst = append(*dst, e)
		}
	}
	add(&p.NRE, export.KindLabor, v.LaborHours, "")
	add(&p.NRE, export.KindTravel, "", v.Travel)
	add(&p.NRE, export.KindOtherNRE, "", v.OtherNRE)
	add(&p.Recurring, export.KindMonuments, v.MonumentsQty, v.MonumentsCost)
	add(&p.Recurring, export.KindPanels, v.PanelsQty, v.PanelsCost)
	add(&p.Recurring, export.KindKits, v.KitsQty, v.KitsCost)
	add(&p.Recurring, export.KindKitLabor, "", v.KitLabor)
	add(&p.Recurring, export.KindKitMaterial, "", v.KitMaterial)
	return p, nil
}

func newProjectForm(v *projectValues) *huh.Form {
	amountInput := func(title string, dst *string) *huh.Input {
		return huh.NewInput().Title(title).Value(dst).Validate(validateAmount)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project").
				Description("Becomes the budget sheet name").
				Value(&v.Name).
				Validate(validateName),
			amountInput("Hourly rate", &v.HourlyRate),
			huh.NewInput().
				Title("Start date").
				Placeholder(time.Now().Format("2006-01-02")).
				Value(&v.Start).
				Validate(validateDate),
		).Title("New project"),

		huh.NewGroup(
			amountInput("Engineering labor (hours)", &v.LaborHours),
			amountInput("Travel", &v.Travel),
			amountInput("Other NRE", &v.OtherNRE),
		).Title("NRE"),

		huh.NewGroup(
			amountInput("Monuments (qty)", &v.MonumentsQty),
			amountInput("Monuments (total price)", &v.MonumentsCost),
			amountInput("Panels (qty)", &v.PanelsQty),
			amountInput("Panels (total price)", &v.PanelsCost),
			amountInput("Kits (qty)", &v.KitsQty),
			amountInput("Kits (total price)", &v.KitsCost),
			amountInput("Kits (Manufacturing Labor)", &v.KitLabor),
			amountInput("Kits (Material Receipts)", &v.KitMaterial),
		).Title("Recurring"),

		huh.NewGroup(
			huh.NewConfirm().
				Title("Write the budget sheet?").
				Value(&v.Confirm),
		),
	)
}

func runNewProject(_ *cobra.Command, _ []string) error {
	if flagWorkbook == "" {
		return errNoWorkbook
	}
	if f, err := sheet.FormatFromPath(flagWorkbook); err != nil || f != sheet.FormatXLSX {
		return fmt.Errorf("new projects can only be added to .xlsx workbooks: %s", flagWorkbook)
	}

	var v projectValues
	v.Name = flagProject
	if err := newProjectForm(&v).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}
	if !v.Confirm {
		fmt.Fprintln(os.Stderr, "  Cancelled.")
		return nil
	}

	p, err := v.toNewProject()
	if err != nil {
		return err
	}
	if err := export.WriteBudgetTemplate(flagWorkbook, p); err != nil {
		return err
	}

	fmt.Printf("\n  Added budget sheet %q to %s\n", p.Name, flagWorkbook)
	fmt.Printf("  Add its rows to the actuals sheet, then run `wipflags flags -p %q`.\n\n", p.Name)
	return nil
}
