// Command spend manages the indirect-spend dataset from the terminal: import
// vendor exports, export and search the canonical data, maintain budget
// targets and print the analysis report.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"

	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/demo"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/parser"
	importservice "github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/service"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/sniffer"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/import/wizard"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/insights"
	"github.com/FACorreiaa/indirect-spend-tracker/internal/domain/records"
	"github.com/FACorreiaa/indirect-spend-tracker/pkg/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.Level}))
	slog.SetDefault(logger)

	if len(args) == 0 {
		usage()
		return nil
	}

	deps, err := NewDependencies(cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	switch args[0] {
	case "import":
		return cmdImport(deps, args[1:])
	case "export":
		return cmdExport(deps, args[1:])
	case "template":
		fmt.Print(records.Template())
		return nil
	case "report":
		return cmdReport(deps, args[1:])
	case "find":
		return cmdFind(deps, args[1:])
	case "seed":
		return cmdSeed(deps, args[1:])
	case "targets":
		return cmdTargets(deps, args[1:])
	case "clear":
		return cmdClear(deps, args[1:])
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: spend <command> [flags]

commands:
  import <file>    import a CSV or XLSX export (generic, Izvoz or SAP)
  export           write the dataset as canonical CSV to stdout
  template         print an empty import template with one example row
  report           print KPIs, category summaries and savings findings
  find <query>     full-text search over the dataset
  seed             load a generated sample dataset
  targets          list, set or delete budget targets
  clear            delete all loaded records (requires -yes)`)
}

// mapFlags collects repeated -map key=value pairs.
type mapFlags map[string]string

func (m mapFlags) String() string { return "" }

func (m mapFlags) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("expected key=value, got %q", v)
	}
	m[key] = value
	return nil
}

func cmdImport(deps *Dependencies, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	appendMode := fs.Bool("append", false, "merge into the existing dataset instead of replacing it")
	format := fs.String("format", "", "force the import dialect: generic, izvoz or sap")
	numbers := fs.String("numbers", "", "override detected number format for SAP imports: eu or us")
	columns := mapFlags{}
	fs.Var(columns, "map", `override a SAP column mapping, e.g. -map "Net Value=total_amount" (repeatable)`)
	categories := mapFlags{}
	fs.Var(categories, "category", `override a SAP category mapping, e.g. -category "IZV-LAB=Clinical ..." (repeatable)`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("import: expected exactly one file argument")
	}
	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	var forced sniffer.Format
	switch strings.ToLower(*format) {
	case "":
	case "generic":
		forced = sniffer.FormatGeneric
	case "izvoz":
		forced = sniffer.FormatIzvoz
	case "sap":
		forced = sniffer.FormatSAP
	default:
		return fmt.Errorf("import: unknown format %q", *format)
	}

	var result *importservice.Result
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		result, err = deps.Importer.ImportXLSXAs(data, forced, *appendMode)
	default:
		result, err = deps.Importer.ImportCSVAs(data, forced, *appendMode)
	}
	if err != nil {
		return err
	}

	if result.Wizard != nil {
		return runWizard(result.Wizard, *numbers, columns, categories)
	}

	fmt.Printf("imported %d records (%d duplicates skipped), format %s\n",
		result.Merge.Added, result.Merge.Skipped, result.Format)
	for _, issue := range result.Issues {
		fmt.Printf("  [%s] %s\n", issue.Severity, issue.Message)
	}
	return nil
}

// runWizard drives the SAP flow non-interactively: auto-detected mappings and
// settings apply unless overridden by flags, with the preview printed before
// execution.
func runWizard(w *wizard.Wizard, numbers string, columns, categories mapFlags) error {
	for header, target := range columns {
		w.SetMapping(header, target)
	}
	for raw, category := range categories {
		w.SetCategoryMapping(raw, category)
	}
	switch strings.ToLower(numbers) {
	case "":
	case "eu":
		w.SetNumberFormat(parser.FormatEU)
	case "us":
		w.SetNumberFormat(parser.FormatUS)
	default:
		return fmt.Errorf("import: unknown number format %q", numbers)
	}

	suggestions := w.Suggestions()
	headers := make([]string, 0, len(suggestions))
	for header := range suggestions {
		headers = append(headers, header)
	}
	sort.Strings(headers)
	for _, header := range headers {
		fmt.Printf("unmapped column %q, closest fields: %s (remap with -map)\n",
			header, strings.Join(suggestions[header], ", "))
	}

	for w.Step() < wizard.StepReviewSettings {
		w.Next()
	}
	p := w.Preview()
	fmt.Printf("SAP export: %d rows, %d importable records, total %.2f\n",
		p.SourceRows, p.RecordCount, p.TotalAmount)
	if p.DateFrom != "" {
		fmt.Printf("date range %s to %s, %d suppliers, %d SKUs\n",
			p.DateFrom, p.DateTo, p.UniqueSuppliers, p.UniqueSKUs)
	}
	for _, issue := range p.Issues {
		fmt.Printf("  [%s] %s\n", issue.Severity, issue.Message)
	}

	merge, err := w.Execute()
	if err != nil {
		return err
	}
	fmt.Printf("imported %d records (%d duplicates skipped)\n", merge.Added, merge.Skipped)
	return nil
}

func cmdExport(deps *Dependencies, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	year := fs.Int("year", 0, "filter by year")
	month := fs.Int("month", 0, "filter by month (1-12)")
	category := fs.String("category", "", "filter by canonical category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := records.Filter{Year: *year, Month: *month, Category: *category}
	return records.ExportCSV(os.Stdout, filter.Apply(deps.Dataset.Records()))
}

func cmdReport(deps *Dependencies, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	year := fs.Int("year", 0, "filter by year and join budget targets")
	month := fs.Int("month", 0, "filter by month (1-12)")
	category := fs.String("category", "", "filter by canonical category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := records.Filter{Year: *year, Month: *month, Category: *category}
	recs := filter.Apply(deps.Dataset.Records())
	if len(recs) == 0 {
		fmt.Println("no data loaded")
		return nil
	}

	kpi := insights.ComputeKPI(recs)
	fmt.Println("== KPIs ==")
	fmt.Printf("total spend:     %s over %d line items\n", eur(kpi.TotalSpend), kpi.LineItems)
	fmt.Printf("total savings:   %s\n", eur(math.Abs(kpi.TotalSavings)))
	fmt.Printf("unique SKUs:     %d\n", kpi.UniqueSKUs)
	fmt.Printf("suppliers:       %d (avg order %s)\n", kpi.UniqueSuppliers, eur(kpi.AvgOrderValue))
	fmt.Printf("requesters:      %d\n", kpi.UniqueRequesters)

	fmt.Println("\n== Categories ==")
	for _, s := range insights.SummarizeCategories(recs, deps.Targets, *year) {
		line := fmt.Sprintf("%-45s actual %12s  target %12s", s.Category, eur(s.Actual), eur(s.Target))
		if s.HasBudget {
			line += fmt.Sprintf("  budget %12s  variance %12s", eur(s.BudgetTarget), eur(s.BudgetVariance))
		}
		fmt.Println(line)
	}

	findings := insights.Analyze(recs)
	fmt.Printf("\n== Savings Opportunities (%d) ==\n", len(findings))
	for _, f := range findings {
		fmt.Printf("[%s] %s (%s): %s\n", f.Priority, f.Title, f.Category, f.Detail)
		fmt.Printf("       estimated savings %s; %s\n", eur(f.EstimatedSavings), f.Action)
	}
	return nil
}

func cmdFind(deps *Dependencies, args []string) error {
	fs := flag.NewFlagSet("find", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "maximum hits")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("find: expected a query")
	}
	query := strings.Join(fs.Args(), " ")

	index, err := records.NewSearchIndex()
	if err != nil {
		return err
	}
	defer index.Close()
	recs := deps.Dataset.Records()
	if err := index.Rebuild(recs); err != nil {
		return err
	}

	hits, err := index.Search(query, *limit)
	if err != nil {
		return err
	}
	for _, h := range hits {
		r := recs[h.Index]
		fmt.Printf("%s  %-12s %-30s %-25s %s\n", r.Date, r.SKU, truncate(r.Description, 30), truncate(r.Supplier, 25), eur(r.TotalAmount))
	}
	fmt.Printf("%d hits\n", len(hits))
	return nil
}

func cmdSeed(deps *Dependencies, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	seed := fs.Int64("seed", 42, "sample data seed")
	appendMode := fs.Bool("append", false, "merge into the existing dataset instead of replacing it")
	if err := fs.Parse(args); err != nil {
		return err
	}

	recs := demo.Generate(*seed)
	if *appendMode {
		merge := deps.Dataset.Append(recs)
		fmt.Printf("seeded %d records (%d duplicates skipped)\n", merge.Added, merge.Skipped)
		return nil
	}
	deps.Dataset.Replace(recs)
	fmt.Printf("seeded %d records\n", len(recs))
	return nil
}

func cmdTargets(deps *Dependencies, args []string) error {
	fs := flag.NewFlagSet("targets", flag.ContinueOnError)
	year := fs.Int("year", 0, "budget year")
	set := fs.String("set", "", "category=amount to set (requires -year)")
	del := fs.String("delete", "", "category whose target to remove (requires -year)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *del != "" {
		if *year == 0 {
			return fmt.Errorf("targets: -delete requires -year")
		}
		deps.Targets.Delete(*year, *del)
		fmt.Printf("deleted %s target for %d\n", *del, *year)
		return nil
	}

	if *set != "" {
		if *year == 0 {
			return fmt.Errorf("targets: -set requires -year")
		}
		name, amountStr, ok := strings.Cut(*set, "=")
		if !ok {
			return fmt.Errorf("targets: -set expects category=amount")
		}
		var amount float64
		if _, err := fmt.Sscanf(amountStr, "%f", &amount); err != nil {
			return fmt.Errorf("targets: bad amount %q", amountStr)
		}
		deps.Targets.Set(*year, name, amount)
		fmt.Printf("set %s target for %d to %s\n", name, *year, eur(amount))
		return nil
	}

	years := []int{*year}
	if *year == 0 {
		years = records.Years(deps.Dataset.Records())
	}
	for _, y := range years {
		byCategory := deps.Targets.ForYear(y)
		if len(byCategory) == 0 {
			continue
		}
		cats := make([]string, 0, len(byCategory))
		for c := range byCategory {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		fmt.Printf("%d:\n", y)
		for _, c := range cats {
			fmt.Printf("  %-45s %s\n", c, eur(byCategory[c]))
		}
	}
	return nil
}

// cmdClear deletes the record collection and its persisted blob. Budget
// targets and learned category mappings survive a clear.
func cmdClear(deps *Dependencies, args []string) error {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "confirm deleting all loaded records")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("clear: this permanently deletes all %d loaded records, re-run with -yes", deps.Dataset.Len())
	}

	n := deps.Dataset.Len()
	deps.Dataset.Clear()
	fmt.Printf("cleared %d records\n", n)
	return nil
}

// eur renders an amount as euro using minor-unit arithmetic.
func eur(v float64) string {
	return money.New(int64(math.Round(v*100)), money.EUR).Display()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
