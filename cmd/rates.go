package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var hundred = decimal.NewFromInt(100)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show the rate tables the engine will use",
	RunE: func(cmd *cobra.Command, args []string) error {
		engineCfg, err := cfg.EngineConfig()
		if err != nil {
			return eris.Wrap(err, "engine config")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Gemiddelde spaarrente per jaar:")
		for _, year := range engineCfg.SavingsRates.Years() {
			fmt.Fprintf(out, "  %d: %s%%\n", year, engineCfg.SavingsRates[year].Mul(hundred))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Box 3 belastingtarief per jaar:")
		for _, year := range engineCfg.TaxRates.Years() {
			fmt.Fprintf(out, "  %d: %s%%\n", year, engineCfg.TaxRates[year].Mul(hundred))
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Terugvaltarieven: spaarrente %s%%, belasting %s%%\n",
			engineCfg.FallbackSavingsRate.Mul(hundred), engineCfg.FallbackTaxRate.Mul(hundred))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ratesCmd)
}
