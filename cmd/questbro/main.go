// Package main is the QuestBro command line.
//
// Usage:
//
//	questbro init                  — interactive setup (catalogue + run)
//	questbro status                — goal overview for the active run
//	questbro goals                 — classify every active goal
//	questbro actions               — available actions with goal impact
//	questbro plan                  — dependency-ordered plan for all goals
//	questbro perform <action-id>   — complete an action
//	questbro undo <action-id>      — rescind a completed action
//	questbro add-goal <action-id>  — adopt a goal (with conflict check)
//	questbro search <terms...>     — search suggestable goals
//	questbro runs                  — list stored runs
//	questbro version               — print version
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/questbro/questbro/internal/game"
	"github.com/questbro/questbro/internal/graph"
	"github.com/questbro/questbro/internal/observability"
	"github.com/questbro/questbro/internal/sat"
	"github.com/questbro/questbro/internal/search"
	"github.com/questbro/questbro/internal/storage"
)

const (
	version = "0.1.0"
	appName = "questbro"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "init", "configure", "setup":
		runInit()
	case "status":
		withSnapshot(func(app *appContext, snap *graph.Snapshot) error {
			return cmdStatus(snap)
		})
	case "goals":
		withSnapshot(func(app *appContext, snap *graph.Snapshot) error {
			return cmdGoals(snap)
		})
	case "actions":
		withSnapshot(func(app *appContext, snap *graph.Snapshot) error {
			return cmdActions(snap)
		})
	case "plan":
		withSnapshot(func(app *appContext, snap *graph.Snapshot) error {
			return cmdPlan(snap)
		})
	case "optimal":
		withSnapshot(func(app *appContext, snap *graph.Snapshot) error {
			return cmdOptimal(snap)
		})
	case "perform":
		requireArg(args, "action id")
		withSnapshot(func(app *appContext, snap *graph.Snapshot) error {
			return cmdPerform(app, snap, args[0])
		})
	case "undo":
		requireArg(args, "action id")
		withSnapshot(func(app *appContext, snap *graph.Snapshot) error {
			return cmdUndo(app, snap, args[0])
		})
	case "add-goal":
		requireArg(args, "action id")
		withSnapshot(func(app *appContext, snap *graph.Snapshot) error {
			return cmdAddGoal(app, snap, args[0], strings.Join(args[1:], " "))
		})
	case "remove-goal":
		requireArg(args, "goal id")
		withSnapshot(func(app *appContext, snap *graph.Snapshot) error {
			return cmdRemoveGoal(app, snap, args[0])
		})
	case "search":
		requireArg(args, "search terms")
		withSnapshot(func(app *appContext, snap *graph.Snapshot) error {
			return cmdSearch(snap, strings.Join(args, " "))
		})
	case "runs":
		withApp(cmdRuns)
	case "version":
		fmt.Printf("%s v%s\n", appName, version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `%s v%s — game progression planner

Usage:
  %s <command> [args]

Commands:
  init        Interactive setup (catalogue path, run name)
  status      Goal overview for the active run
  goals       Classify every active goal
  actions     Available actions with goal impact
  plan        Dependency-ordered plan covering all achievable goals
  optimal     Minimal plan via the SAT reasoner
  perform     Complete an action:      perform <action-id>
  undo        Rescind an action:       undo <action-id>
  add-goal    Adopt a goal:            add-goal <action-id> [description]
  remove-goal Drop a goal:             remove-goal <goal-id>
  search      Search suggestable goals: search <terms...>
  runs        List stored runs
  version     Print version

Environment variables (override config.json):
  QUESTBRO_DATA   Data directory (default: ~/.questbro)
  QUESTBRO_GAME   Catalogue JSON path
  QUESTBRO_RUN    Active run name

`, appName, version, appName)
}

func requireArg(args []string, what string) {
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "missing %s\n", what)
		os.Exit(1)
	}
}

// appContext bundles the loaded catalogue, run, and store for one command.
type appContext struct {
	log   *observability.Logger
	data  *game.GameData
	run   *game.GameRun
	store storage.RunStore
}

func withApp(fn func(app *appContext) error) {
	cfg := loadConfig()
	log := observability.NewLogger(appName, os.Stderr)

	data, err := storage.LoadGameData(cfg.GamePath)
	if err != nil {
		fatal(err)
	}

	store, err := storage.NewSQLiteRunStore(filepath.Join(cfg.DataDir, "runs.db"))
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	run, err := store.LoadRun(context.Background(), cfg.RunName)
	if err != nil {
		fatal(err)
	}
	if run == nil {
		run = game.NewGameRun(data, cfg.RunName, nowUTC())
		log.Info("new run", "run", cfg.RunName, "game", data.GameID)
	}

	if err := fn(&appContext{log: log, data: data, run: run, store: store}); err != nil {
		fatal(err)
	}
}

func withSnapshot(fn func(app *appContext, snap *graph.Snapshot) error) {
	withApp(func(app *appContext) error {
		snap := graph.FromRun(app.data, app.run)
		return fn(app, snap)
	})
}

// saveRun writes the snapshot's state back into the run and persists it.
func saveRun(app *appContext, snap *graph.Snapshot) error {
	completed := make(map[string]bool)
	for _, id := range snap.Completed() {
		completed[id] = true
	}
	app.run.Completed = completed
	app.run.Goals = snap.Goals()
	return app.store.SaveRun(context.Background(), app.run)
}

func cmdStatus(snap *graph.Snapshot) error {
	fmt.Printf("Run state: %d completed actions, %d goals\n",
		len(snap.Completed()), len(snap.Goals()))
	fmt.Printf("  ready:        %d\n", len(snap.ReadyGoals()))
	fmt.Printf("  achievable:   %d\n", len(snap.AchievableGoals()))
	fmt.Printf("  completed:    %d\n", len(snap.CompletedGoals()))
	fmt.Printf("  unachievable: %d\n", len(snap.UnachievableGoals()))
	return nil
}

func cmdGoals(snap *graph.Snapshot) error {
	printGoals := func(header string, goals []game.Goal) {
		if len(goals) == 0 {
			return
		}
		fmt.Println(header)
		for _, g := range goals {
			pi, _ := snap.Path(g.TargetID)
			if pi != nil && pi.PathLength > 0 {
				fmt.Printf("  %s → %s (%d actions away)\n", g.ID, g.TargetID, pi.PathLength)
			} else {
				fmt.Printf("  %s → %s\n", g.ID, g.TargetID)
			}
		}
	}
	printGoals("Ready:", snap.ReadyGoals())
	printGoals("Achievable:", snap.AchievableGoals())
	printGoals("Completed:", snap.CompletedGoals())
	if dead := snap.UnachievableGoals(); len(dead) > 0 {
		fmt.Println("Unachievable:")
		for _, ug := range dead {
			if len(ug.BlockingActions) > 0 {
				fmt.Printf("  %s → %s (blocked by %s)\n",
					ug.Goal.ID, ug.TargetName, strings.Join(ug.BlockingActions, ", "))
			} else {
				fmt.Printf("  %s → %s\n", ug.Goal.ID, ug.TargetName)
			}
		}
	}
	return nil
}

func cmdActions(snap *graph.Snapshot) error {
	for _, ca := range snap.CurrentActions() {
		fmt.Printf("%s  (%s)\n", ca.Action.Name, ca.Action.ID)
		for _, gp := range ca.EnablesGoals {
			fmt.Printf("  advances goal %s\n", gp.Goal.ID)
		}
		for _, g := range ca.BlocksGoals {
			fmt.Printf("  BLOCKS goal %s\n", g.ID)
		}
	}
	return nil
}

func cmdPlan(snap *graph.Snapshot) error {
	plan := snap.UnifiedPathToGoals()
	if len(plan) == 0 {
		fmt.Println("nothing to do")
		return nil
	}
	for i, a := range plan {
		fmt.Printf("%2d. %s  (%s)\n", i+1, a.Name, a.ID)
	}
	return nil
}

func cmdOptimal(snap *graph.Snapshot) error {
	goals := append(snap.ReadyGoals(), snap.AchievableGoals()...)
	if len(goals) == 0 {
		fmt.Println("nothing to do")
		return nil
	}
	completed := make(map[string]bool)
	for _, id := range snap.Completed() {
		completed[id] = true
	}
	enc := sat.Encode(snap.Data(), completed, snap.Goals())
	reasoner := sat.NewReasoner(nil)
	res := reasoner.FindOptimalPath(enc, goals, true)
	switch {
	case !res.Known:
		fmt.Println("solver gave up (unknown)")
	case !res.Exists:
		fmt.Println("no plan satisfies all goals")
	default:
		fmt.Printf("optimal plan, %d actions:\n", res.Length)
		for i, a := range res.Actions {
			fmt.Printf("%2d. %s  (%s)\n", i+1, a.Name, a.ID)
		}
	}
	return nil
}

func cmdPerform(app *appContext, snap *graph.Snapshot, actionID string) error {
	next, err := snap.PerformAction(actionID)
	if err != nil {
		return err
	}
	if err := saveRun(app, next); err != nil {
		return err
	}
	app.log.SnapshotEvent(len(next.Completed()), len(next.Goals()), "action", actionID)
	fmt.Printf("performed %s\n", actionID)
	for _, ug := range next.UnachievableGoals() {
		fmt.Printf("warning: goal %s is now unachievable\n", ug.Goal.ID)
	}
	return nil
}

func cmdUndo(app *appContext, snap *graph.Snapshot, actionID string) error {
	next, err := snap.UndoAction(actionID)
	if err != nil {
		return err
	}
	if err := saveRun(app, next); err != nil {
		return err
	}
	fmt.Printf("undid %s\n", actionID)
	return nil
}

func cmdAddGoal(app *appContext, snap *graph.Snapshot, actionID, description string) error {
	goal := game.Goal{
		ID:          uuid.New().String(),
		TargetID:    actionID,
		Description: description,
	}
	conflicts := snap.CheckConflictsWhenAddingGoal(goal)
	for _, c := range conflicts {
		fmt.Printf("conflict (%s): %s\n", c.Severity, c.Description)
	}
	if len(conflicts) > 0 && !confirm("add goal anyway?") {
		return nil
	}
	next := snap.AddGoals(goal)
	if err := saveRun(app, next); err != nil {
		return err
	}
	fmt.Printf("added goal %s → %s\n", goal.ID, actionID)
	return nil
}

func cmdRemoveGoal(app *appContext, snap *graph.Snapshot, goalID string) error {
	for _, g := range snap.Goals() {
		if g.ID == goalID {
			next := snap.RemoveGoals(g)
			if err := saveRun(app, next); err != nil {
				return err
			}
			fmt.Printf("removed goal %s\n", goalID)
			return nil
		}
	}
	return fmt.Errorf("goal %q not found", goalID)
}

func cmdSearch(snap *graph.Snapshot, query string) error {
	index := search.BuildIndex(snap.Data())
	results := search.Search(index, query)
	if len(results) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%3d  %s  (target %s)\n", r.Score, r.Goal.Name, r.Goal.TargetActionID)
	}
	return nil
}

func cmdRuns(app *appContext) error {
	summaries, err := app.store.ListRuns(context.Background())
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("no stored runs")
		return nil
	}
	for _, s := range summaries {
		fmt.Printf("%-24s %-16s %3d actions %3d goals  %s\n",
			s.RunName, s.GameID, s.Completed, s.Goals,
			s.LastModified.Format("2006-01-02 15:04"))
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
	os.Exit(1)
}
