package payroll

import (
	"testing"

	"github.com/stretchr/testify/require"

	"payroll-engine/internal/rates"
)

func table2024(t *testing.T) *rates.Table {
	t.Helper()
	tables, err := rates.Embedded()
	require.NoError(t, err)
	for _, tbl := range tables {
		if tbl.Year == 2024 {
			return tbl
		}
	}
	t.Fatal("embedded 2024 table missing")
	return nil
}
