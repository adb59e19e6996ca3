package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/box3check/box3-engine/internal/blueprint"
	"github.com/box3check/box3-engine/internal/calculation"
	"github.com/box3check/box3-engine/internal/output"
)

var (
	assessBlueprint string
	assessOverrides string
	assessFormat    string
	assessOutputDir string
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Assess a dossier blueprint and report the refund outcome",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		bp, err := blueprint.Load(assessBlueprint)
		if err != nil {
			return eris.Wrap(err, "load blueprint")
		}

		if assessOverrides != "" {
			ov, err := blueprint.LoadOverrides(assessOverrides)
			if err != nil {
				return eris.Wrap(err, "load overrides")
			}
			blueprint.ApplyOverrides(bp, ov)
			bp.Overrides = ov
		}

		engineCfg, err := cfg.EngineConfig()
		if err != nil {
			return eris.Wrap(err, "engine config")
		}

		engine := calculation.NewEngineWithConfig(engineCfg)
		engine.SetLogger(calculation.NewZapLogger(nil))

		assessment, err := engine.Assess(ctx, bp)
		if err != nil {
			return eris.Wrap(err, "assess dossier")
		}

		zap.L().Info("dossier assessed",
			zap.String("dossier_id", assessment.DossierID),
			zap.Int("years", len(assessment.Years)),
			zap.String("net_refund", assessment.Household.NetRefund.String()),
			zap.String("next_step", string(assessment.NextStep.Action)),
		)

		formatter := output.GetFormatterByName(assessFormat)
		if formatter == nil {
			return fmt.Errorf("unknown format %q (available: %v)", assessFormat, output.AvailableFormatterNames())
		}

		if assessOutputDir != "" {
			ext := output.NormalizeFormatName(assessFormat)
			if ext == "console" {
				ext = "txt"
			}
			path, err := output.WriteFormatted(formatter, assessment, assessOutputDir, ext)
			if err != nil {
				return eris.Wrap(err, "write report")
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		}

		data, err := formatter.Format(assessment)
		if err != nil {
			return eris.Wrap(err, "format report")
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	assessCmd.Flags().StringVar(&assessBlueprint, "blueprint", "", "dossier blueprint JSON file (required)")
	assessCmd.Flags().StringVar(&assessOverrides, "overrides", "", "manual overrides JSON file")
	assessCmd.Flags().StringVar(&assessFormat, "format", "console", "output format (console, csv, json)")
	assessCmd.Flags().StringVar(&assessOutputDir, "output", "", "directory to write the report to instead of stdout")
	_ = assessCmd.MarkFlagRequired("blueprint")
	rootCmd.AddCommand(assessCmd)
}
