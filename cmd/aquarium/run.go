package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aquarium/internal/sim"
)

var (
	runSteps int
	runDt    float64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Advance the tank headless and log school statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if runSteps <= 0 {
			return errors.New("steps must be positive")
		}
		if runDt <= 0 {
			return errors.New("dt must be positive")
		}
		conf, err := ParseConfig(cfgFile)
		if err != nil {
			return err
		}

		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()

		s, err := sim.New(conf.Tank)
		if err != nil {
			return err
		}
		logger.Info("tank ready",
			zap.Int("fish", conf.Tank.FishCount),
			zap.Int64("seed", s.Seed()))

		report := runSteps / 10
		if report < 1 {
			report = 1
		}
		for i := 1; i <= runSteps; i++ {
			s.Step(runDt)
			if i%report != 0 && i != runSteps {
				continue
			}
			snap := s.Snapshot()
			var mean float64
			for _, a := range snap {
				mean += a.Speed
			}
			if len(snap) > 0 {
				mean /= float64(len(snap))
			}
			c := s.Centroid()
			logger.Info("tick",
				zap.Int("step", i),
				zap.Float64("mean_speed", mean),
				zap.Float64s("centroid", []float64{c.X, c.Y, c.Z}))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&runSteps, "steps", 600, "number of simulation steps")
	runCmd.Flags().Float64Var(&runDt, "dt", 1.0/20, "step duration in seconds")
}
