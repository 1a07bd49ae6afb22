// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/eeio/csvio"
	"github.com/katalvlaran/eeio/economic"
	"github.com/katalvlaran/eeio/internal/logging"
)

type coefficientsOptions struct {
	makePath string
	usePath  string
	scrap    []string
	out      string
}

func newCoefficientsCmd() *cobra.Command {
	opts := &coefficientsOptions{}
	cmd := &cobra.Command{
		Use:   "coefficients",
		Short: "Derive direct requirement coefficients from make and use tables",
		Long: "Reads an industry x commodity make table and a commodity x industry use\n" +
			"table and writes the commodity x commodity direct requirement\n" +
			"coefficients (industry technology assumption, scrap adjusted).",
		Example: "  eeio coefficients --make make.csv --use use.csv --scrap Scrap --out drc.csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCoefficients(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.makePath, "make", "", "make table csv (industries x commodities)")
	cmd.Flags().StringVar(&opts.usePath, "use", "", "use table csv (commodities x industries)")
	cmd.Flags().StringSliceVar(&opts.scrap, "scrap", nil, "scrap commodity names (default: model.scrap)")
	cmd.Flags().StringVar(&opts.out, "out", "", "output csv (default: stdout)")
	_ = cmd.MarkFlagRequired("make")
	_ = cmd.MarkFlagRequired("use")
	return cmd
}

func runCoefficients(cmd *cobra.Command, opts *coefficientsOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	log := cliCtx.Logger.Named("coefficients")

	scrap := opts.scrap
	if !cmd.Flags().Changed("scrap") {
		scrap = cliCtx.Config.Model.Scrap
	}

	// make and use sector names are matched as written
	mk, err := csvio.ReadKeyedFile(opts.makePath, nil)
	if err != nil {
		return fmt.Errorf("make table: %w", err)
	}
	use, err := csvio.ReadKeyedFile(opts.usePath, nil)
	if err != nil {
		return fmt.Errorf("use table: %w", err)
	}

	drc, err := economic.CoefficientsFromTables(mk, use, scrap, economic.WithLogger(log))
	if err != nil {
		return err
	}
	log.Info("coefficients derived",
		logging.Int("commodities", drc.Rows()),
		logging.Strings("scrap", scrap))

	if opts.out == "" {
		return csvio.WriteKeyed(cmd.OutOrStdout(), drc)
	}
	f, err := os.Create(opts.out)
	if err != nil {
		return err
	}
	if err := csvio.WriteKeyed(f, drc); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	PrintSuccess(cmd, "coefficients written to "+opts.out)
	return nil
}
