package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/linzcheck/linz"
	"github.com/linzcheck/linz/examples"
	"github.com/linzcheck/linz/history"
	"github.com/linzcheck/linz/pretty"
)

var (
	maxThreads  int
	maxOps      int
	trials      int
	seed        int64
	configFile  string
	detailsFlag bool
)

var runCmd = &cobra.Command{
	Use:   "run EXAMPLE",
	Short: "Verify one of the bundled example systems under test",
	Long:  "EXAMPLE is one of: stack, broken-stack, counter, tworegisters",
	Args:  cobra.ExactArgs(1),
	Run:   runCommand,
}

func init() {
	d := linz.DefaultConfig()
	runCmd.Flags().IntVar(&maxThreads, "max-threads", d.MaxThreads, "maximum number of concurrent threads per scenario")
	runCmd.Flags().IntVar(&maxOps, "max-ops", d.MaxOpsPerThread, "maximum number of operations per thread")
	runCmd.Flags().IntVar(&trials, "trials", d.Trials, "number of scenarios to try")
	runCmd.Flags().Int64Var(&seed, "seed", d.Seed, "starting seed (for reproducing a specific run)")
	runCmd.Flags().StringVar(&configFile, "config", "", "TOML config file (replaces the flags above; fields it omits take their defaults)")
	runCmd.Flags().BoolVar(&detailsFlag, "details", false, "wrap the failure timeline in a NOT LINEARIZABLE banner")
}

func runCommand(cmd *cobra.Command, args []string) {
	cfg := linz.Config{MaxThreads: maxThreads, MaxOpsPerThread: maxOps, Trials: trials, Seed: seed}
	if configFile != "" {
		loaded, err := linz.LoadConfigFile(configFile)
		if err != nil {
			log.Fatal().Err(err).Msg("couldn't load config file")
		}
		cfg = loaded
	}

	v := linz.NewVerifier(cfg)

	var ok bool
	switch args[0] {
	case "stack":
		ok = runStack(v)
	case "broken-stack":
		ok = runBrokenStack(v)
	case "counter":
		ok = runCounter(v)
	case "tworegisters":
		ok = runTwoRegisters(v)
	default:
		fmt.Fprintf(os.Stderr, "unknown example %q (want stack, broken-stack, counter, or tworegisters)\n", args[0])
		os.Exit(2)
	}

	if !ok {
		os.Exit(1)
	}
}

func runStack(v linz.Verifier) bool {
	exec, ok, stats := linz.VerifyWithStats[*examples.ConcurrentStack[int], *examples.SequentialStack[int]](
		v, examples.NewConcurrentStack[int], examples.NewSequentialStack[int],
		examples.IntStackGenerator{MaxValue: 20},
	)
	report(ok, exec, stats)
	return ok
}

func runBrokenStack(v linz.Verifier) bool {
	exec, ok, stats := linz.VerifyWithStats[*examples.BrokenConcurrentStack[int], *examples.SequentialStack[int]](
		v, examples.NewBrokenConcurrentStack[int], examples.NewSequentialStack[int],
		examples.IntStackGenerator{MaxValue: 20},
	)
	report(ok, exec, stats)
	return ok
}

func runCounter(v linz.Verifier) bool {
	exec, ok, stats := linz.VerifyWithStats[*examples.ConcurrentCounter, *examples.SequentialCounter](
		v, examples.NewConcurrentCounter, examples.NewSequentialCounter,
		examples.CounterGenerator{},
	)
	report(ok, exec, stats)
	return ok
}

func runTwoRegisters(v linz.Verifier) bool {
	exec, ok, stats := linz.VerifyWithStats[*examples.ConcurrentTwoRegisters, *examples.SequentialTwoRegisters](
		v, examples.NewConcurrentTwoRegisters, examples.NewSequentialTwoRegisters,
		examples.TwoRegistersGenerator{},
	)
	report(ok, exec, stats)
	return ok
}

func report[Op any, Ret comparable](ok bool, exec history.Execution[Op, Ret], stats pretty.Statistics) {
	fmt.Println(pretty.FormatStatistics(stats))
	if ok {
		log.Info().Msg("linearizable")
		return
	}
	log.Error().Msg("not linearizable")
	if detailsFlag {
		fmt.Println(pretty.FormatViolation(exec))
	} else {
		fmt.Println(pretty.Format(exec))
	}
}
