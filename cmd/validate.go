package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/box3check/box3-engine/internal/blueprint"
)

var validateCmd = &cobra.Command{
	Use:   "validate [blueprint.json]",
	Short: "Validate a dossier blueprint without assessing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bp, err := blueprint.Load(args[0])
		if err != nil {
			return eris.Wrap(err, "validate blueprint")
		}

		years := bp.DeclaredYears()
		fmt.Fprintf(cmd.OutOrStdout(), "OK: dossier %s, %d personen, %d belastingjaren %v\n",
			bp.DossierID, len(bp.FiscalEntity.PersonIDs()), len(years), years)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
