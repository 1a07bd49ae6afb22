// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/eeio/internal/logging"
)

type exportOptions struct {
	out string
	dqi bool
}

func newExportCmd() *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the model matrices to a folder",
		Long: "Writes A, B, C, L, D and U as binary matrices with the sector, flow\n" +
			"and indicator indices as csv; --dqi adds the data quality matrices.",
		Example: "  eeio export --config eeio.yaml --out matrices --dqi",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.out, "out", "", "output folder (default: export.folder)")
	cmd.Flags().BoolVar(&opts.dqi, "dqi", false, "also export data quality matrices (default: export.dqi)")
	return cmd
}

func runExport(cmd *cobra.Command, opts *exportOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	dir := opts.out
	if dir == "" {
		dir = cliCtx.Config.Export.Folder
	}
	withDQI := opts.dqi
	if !cmd.Flags().Changed("dqi") {
		withDQI = cliCtx.Config.Export.DQI
	}

	m, err := loadModel(cmd, cliCtx)
	if err != nil {
		return err
	}
	mats, err := m.Matrices(withDQI, cliCtx.Metrics.CalcOption())
	if err != nil {
		return err
	}
	if err := m.Export(dir, mats); err != nil {
		return err
	}
	cliCtx.Logger.Info("matrices exported", logging.String("folder", dir), logging.Bool("dqi", withDQI))
	PrintSuccess(cmd, "matrices written to "+dir)
	return nil
}
