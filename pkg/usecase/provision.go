package usecase

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/domain/interfaces"
)

// headerRows is the number of header rows of every deck table
const headerRows = 1

// contentRows returns the number of rows below the header
func contentRows(t interfaces.Table) int {
	return t.Rows() - headerRows
}

// truncateTemplateTo deletes content rows beyond keep and clears the text of the kept
// ones. The template must have at least keep content rows and no vertically merged
// cell among the rows it deletes.
func truncateTemplateTo(t interfaces.Table, keep int) error {
	if contentRows(t) < keep {
		return goerr.Wrap(ErrMalformedTemplate, "template table is too short",
			goerr.V("rows", t.Rows()), goerr.V("keep", keep))
	}

	for t.Rows() > headerRows+keep {
		if err := t.DeleteRow(t.Rows()); err != nil {
			if errors.Is(err, interfaces.ErrMergedRow) {
				return goerr.Wrap(ErrMalformedTemplate, "template table has vertically merged rows",
					goerr.V(RowKey, t.Rows()), goerr.V("cause", err.Error()))
			}
			return goerr.Wrap(err, "failed to delete template row", goerr.V(RowKey, t.Rows()))
		}
	}

	for row := headerRows + 1; row <= t.Rows(); row++ {
		for col := 1; col <= t.Columns(); col++ {
			if err := t.SetText(row, col, ""); err != nil {
				return goerr.Wrap(err, "failed to clear template row", goerr.V(RowKey, row), goerr.V(ColumnKey, col))
			}
		}
	}
	return nil
}

// growRowsInStepsOf appends step rows at a time until the table has at least n content
// rows. It returns the number of iterations performed.
func growRowsInStepsOf(t interfaces.Table, step, n int) (int, error) {
	iterations := 0
	for contentRows(t) < n {
		for range step {
			if err := t.AddRow(); err != nil {
				if errors.Is(err, interfaces.ErrMergedRow) {
					return iterations, goerr.Wrap(ErrMalformedTemplate, "template row is vertically merged",
						goerr.V(RowKey, t.Rows()), goerr.V("cause", err.Error()))
				}
				return iterations, goerr.Wrap(err, "failed to add table row", goerr.V("rows", t.Rows()))
			}
		}
		iterations++
	}
	return iterations, nil
}
