// Package main provides plangen, a command line meal plan generator
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alchemorsel/mealplanner/internal/application/planner"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/config"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/container"
	gormRepo "github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/security"
	"github.com/alchemorsel/mealplanner/internal/ports/inbound"
	"github.com/alchemorsel/mealplanner/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeUsage   = 2
)

// options holds the parsed command line
type options struct {
	ConfigPath string
	UserID     uuid.UUID
	Output     string
	Migrate    bool
	Seed       uint64
	Command    inbound.GeneratePlanCommand
}

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeUsage)
	}
	os.Exit(run(context.Background(), opts, os.Stdout, os.Stderr))
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var (
		opts    options
		user    string
		weeks   int
		repeat  int
		simple  bool
		visited = make(map[string]bool)
	)

	fs.StringVar(&opts.ConfigPath, "config", "", "Configuration file path")
	fs.StringVar(&user, "user", sqlite.DemoWeightLossUserID.String(), "User ID to plan for")
	fs.IntVar(&weeks, "weeks", 0, "Number of weeks (default from config)")
	fs.IntVar(&repeat, "repeat", 0, "Days per week that may repeat an earlier day (default from config)")
	fs.BoolVar(&simple, "prefer-simple", false, "Prefer simple recipes")
	fs.Uint64Var(&opts.Seed, "seed", 0, "Random seed; 0 uses the configured seed")
	fs.StringVar(&opts.Output, "output", "table", "Output format: table, json, yaml")
	fs.BoolVar(&opts.Migrate, "migrate", false, "Apply postgres migrations and exit")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	fs.Visit(func(f *flag.Flag) { visited[f.Name] = true })

	switch opts.Output {
	case "table", "json", "yaml":
	default:
		return opts, fmt.Errorf("unknown output format %q", opts.Output)
	}

	id, err := uuid.Parse(user)
	if err != nil {
		return opts, fmt.Errorf("invalid -user: %w", err)
	}
	opts.UserID = id
	opts.Command.UserID = id
	if visited["weeks"] {
		opts.Command.Weeks = &weeks
	}
	if visited["repeat"] {
		opts.Command.AllowRepeatDays = &repeat
	}
	if visited["prefer-simple"] {
		opts.Command.PreferSimple = &simple
	}
	return opts, nil
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) int {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return exitCodeFailure
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      "console",
		Development: cfg.App.Debug,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		fmt.Fprintf(stderr, "Failed to create logger: %v\n", err)
		return exitCodeFailure
	}
	defer log.Sync()

	if opts.Migrate {
		if cfg.Database.Driver != "postgres" {
			fmt.Fprintln(stderr, "-migrate requires database.driver postgres")
			return exitCodeUsage
		}
		if err := container.Migrate(cfg.Database, log); err != nil {
			log.Error("Migration failed", zap.Error(err))
			return exitCodeFailure
		}
		fmt.Fprintln(stdout, "migrations applied")
		return exitCodeSuccess
	}

	plan, err := generate(ctx, cfg, opts, log)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to generate plan: %v\n", err)
		return exitCodeFailure
	}

	if err := render(stdout, opts.Output, plan); err != nil {
		fmt.Fprintf(stderr, "Failed to render plan: %v\n", err)
		return exitCodeFailure
	}
	return exitCodeSuccess
}

func generate(ctx context.Context, cfg *config.Config, opts options, log *zap.Logger) (*inbound.PlanDTO, error) {
	db, err := container.OpenDatabase(ctx, cfg.Database, cfg.App.LogLevel, log)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	store := memory.NewCacheRepository(time.Minute)
	defer store.Close()

	users := gormRepo.NewUserRepository(db.DB)
	defaults := container.PlannerDefaults(cfg)
	if opts.Seed != 0 {
		defaults.RandomSeed = opts.Seed
	}

	service := planner.NewPlanService(planner.Dependencies{
		Profiles:   users,
		Exclusions: users,
		Catalog:    gormRepo.NewCatalogRepository(db.DB),
		Plans:      gormRepo.NewPlanRepository(db.DB),
		Cache:      store,
		Events:     container.NewEventDispatcher(log),
		Validator:  security.NewValidationService(log),
	}, defaults, log)

	summary, err := service.GeneratePlan(ctx, opts.Command)
	if err != nil {
		return nil, err
	}
	return service.GetPlan(ctx, summary.ID)
}

func render(w io.Writer, format string, plan *inbound.PlanDTO) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(plan)
	default:
		return renderTable(w, plan)
	}
}

func renderTable(w io.Writer, plan *inbound.PlanDTO) error {
	fmt.Fprintf(w, "Plan %s  user %s  %d week(s)\n", plan.ID, plan.UserID, plan.Weeks)
	fmt.Fprintf(w, "Target   %4d kcal  P %3dg  F %3dg  C %3dg\n",
		plan.Target.Calories, plan.Target.ProteinG, plan.Target.FatG, plan.Target.CarbsG)
	fmt.Fprintf(w, "Average  %6.1f kcal  P %5.1fg  F %5.1fg  C %5.1fg\n",
		plan.Average.Calories, plan.Average.Protein, plan.Average.Fat, plan.Average.Carbs)
	fmt.Fprintf(w, "Reused days %d, distinct recipes %d\n\n", plan.ReusedDays, plan.DistinctRecipes)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tWEEK\tSLOT\tRECIPE\tPORTION\tKCAL")
	for _, day := range plan.Schedule {
		label := fmt.Sprint(day.Index + 1)
		if day.ReusedFrom != nil {
			label += fmt.Sprintf(" (=%d)", *day.ReusedFrom+1)
		}
		for i, meal := range day.Meals {
			if i > 0 {
				label = ""
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%.2f\t%.0f\n", label, day.Week, meal.Slot, meal.RecipeName, meal.Portion, meal.Macros.Calories)
		}
		fmt.Fprintf(tw, "\t\ttotal\t\t\t%.0f\n", day.Totals.Calories)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tGRAMS\tCADENCE\tWEEKS")
	for _, item := range plan.ShoppingList {
		cadence := "weekly"
		if item.Monthly {
			cadence = "monthly"
		}
		weeks := make([]string, len(item.Weeks))
		for i, wk := range item.Weeks {
			weeks[i] = fmt.Sprint(wk)
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%s\t%s\n", item.ProductName, item.TotalGrams, cadence, strings.Join(weeks, ","))
	}
	return tw.Flush()
}
