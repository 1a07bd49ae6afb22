// SPDX-License-Identifier: MIT

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/eeio/model"
)

// ErrInvalidModel is returned by validate when any ERROR message was found.
var ErrInvalidModel = errors.New("cli: model validation failed")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configured model tables for consistency",
		RunE:  runValidate,
	}
}

type validationReport struct {
	*model.Validation
}

func (r validationReport) TableHeaders() []string { return []string{"severity", "message"} }

func (r validationReport) TableRows() [][]string {
	msgs := r.Sorted()
	rows := make([][]string, len(msgs))
	for i, m := range msgs {
		rows[i] = []string{string(m.Severity), m.Text}
	}
	return rows
}

func runValidate(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	m, err := loadModel(cmd, cliCtx)
	if err != nil {
		return err
	}

	v := model.Validate(m)
	counts := make(map[string]int, 3)
	for _, s := range []model.Severity{model.SeverityError, model.SeverityWarning, model.SeverityInfo} {
		counts[string(s)] = v.Count(s)
	}
	cliCtx.Metrics.SetValidation(counts)

	if err := PrintResult(cmd, validationReport{v}); err != nil {
		return err
	}
	if v.Failed() {
		return fmt.Errorf("%w: %d errors", ErrInvalidModel, v.Count(model.SeverityError))
	}
	return nil
}
