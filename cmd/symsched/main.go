// Copyright 2024 The uztadh/P Authors
// This file is part of uztadh/P.
//
// uztadh/P is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// uztadh/P is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with uztadh/P. If not, see <http://www.gnu.org/licenses/>.

// Command symsched runs the symbolic scheduler against a demo self-ticking
// counter program, the way cmd/gprobe wires flags, a TOML config and a dumpconfig
// subcommand around a node.Config. A real source-language front end would
// replace demoProgram with a parsed, code-generated program.Program; that
// front end is explicitly out of scope (spec §1).
package main

import (
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/uztadh/P/internal/config"
	"github.com/uztadh/P/internal/guard"
	"github.com/uztadh/P/internal/obslog"
	"github.com/uztadh/P/internal/scheduler"
)

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=errors only ... 5=debug",
		Value: 2,
	}
	stepBoundFlag = cli.IntFlag{
		Name:  "max-step-bound",
		Usage: "Maximum scheduler steps before giving up (0 = unlimited)",
	}
	receiverQueueFlag = cli.BoolFlag{
		Name:  "receiver-queue-order",
		Usage: "Enable receiver-queue reduction (spec §4.6)",
	}
	sleepSetsFlag = cli.BoolFlag{
		Name:  "sleep-sets",
		Usage: "Enable sleep-set reduction (spec §4.4 step h)",
	}
	stateCachingFlag = cli.BoolFlag{
		Name:  "state-caching",
		Usage: "Enable distinct-state caching (spec §4.4 step 2)",
	}
	backtrackFlag = cli.BoolFlag{
		Name:  "backtrack",
		Usage: "Record backtrack frames at every depth (spec §4.5)",
	}
	memLimitFlag = cli.IntFlag{
		Name:  "mem-limit-mb",
		Usage: "Abort the search past this resident memory usage (MB, 0 = unlimited)",
	}
	timeLimitFlag = cli.IntFlag{
		Name:  "time-limit-secs",
		Usage: "Abort the search past this wall-clock duration (seconds, 0 = unlimited)",
	}

	dumpConfigCommand = cli.Command{
		Name:      "dumpconfig",
		Usage:     "Show configuration values",
		ArgsUsage: "",
		Action:    dumpConfigAction,
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "symsched"
	app.Usage = "symbolic scheduler for state-machine models"
	app.Flags = []cli.Flag{
		configFileFlag,
		verbosityFlag,
		stepBoundFlag,
		receiverQueueFlag,
		sleepSetsFlag,
		stateCachingFlag,
		backtrackFlag,
		memLimitFlag,
		timeLimitFlag,
	}
	app.Commands = []cli.Command{dumpConfigCommand}
	app.Action = runSearch

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadOptions(ctx *cli.Context) (config.Options, error) {
	opts := config.Default()
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		loaded, err := config.Load(file)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}
	if ctx.GlobalIsSet(verbosityFlag.Name) {
		opts.Verbosity = ctx.GlobalInt(verbosityFlag.Name)
	}
	if ctx.GlobalIsSet(stepBoundFlag.Name) {
		opts.MaxStepBound = ctx.GlobalInt(stepBoundFlag.Name)
	}
	if ctx.GlobalIsSet(receiverQueueFlag.Name) {
		opts.UseReceiverQueueSemantics = ctx.GlobalBool(receiverQueueFlag.Name)
	}
	if ctx.GlobalIsSet(sleepSetsFlag.Name) {
		opts.UseSleepSets = ctx.GlobalBool(sleepSetsFlag.Name)
	}
	if ctx.GlobalIsSet(stateCachingFlag.Name) {
		opts.UseStateCaching = ctx.GlobalBool(stateCachingFlag.Name)
	}
	if ctx.GlobalIsSet(backtrackFlag.Name) {
		opts.UseBacktrack = ctx.GlobalBool(backtrackFlag.Name)
	}
	if ctx.GlobalIsSet(memLimitFlag.Name) {
		opts.MemLimitMB = ctx.GlobalInt(memLimitFlag.Name)
	}
	if ctx.GlobalIsSet(timeLimitFlag.Name) {
		opts.TimeLimitSecs = ctx.GlobalInt(timeLimitFlag.Name)
	}
	return opts, nil
}

func dumpConfigAction(ctx *cli.Context) error {
	opts, err := loadOptions(ctx)
	if err != nil {
		return err
	}
	out, err := config.Dump(opts)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func runSearch(ctx *cli.Context) error {
	opts, err := loadOptions(ctx)
	if err != nil {
		return err
	}
	log := obslog.New(os.Stderr, verbosityToLevel(opts.Verbosity))

	e := guard.New()
	prog := demoProgram()
	sched := scheduler.New(e, prog, opts, log)

	result, err := sched.DoSearch()
	snap := sched.Stats.Snapshot()
	fmt.Printf("result=%s depth=%d events=%d distinct_states=%d\n",
		result, snap.Depth, snap.Events, snap.DistinctStates)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(result.ExitCode())
	return nil
}

func verbosityToLevel(v int) string {
	switch {
	case v <= 0:
		return "error"
	case v <= 2:
		return "info"
	case v <= 3:
		return "warn"
	default:
		return "debug"
	}
}
