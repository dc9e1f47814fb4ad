package csvparse_test

import (
	"testing"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
	"github.com/boddenberg/expense-dashboard-bfa/internal/infra/csvparse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	text := "\ufeffDate,Mode,Amount,Narration\n" +
		"05/Jan/2024,Cash,\"1,200\",lunch\n" +
		"06/Jan/2024,Bank,(50)\n" +
		"07/Jan/2024,Card,10,x,extra\n"

	rows, err := csvparse.Parse(text)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "05/Jan/2024", rows[0].Get("Date"))
	assert.Equal(t, "1,200", rows[0].Get("Amount"))
	assert.Equal(t, "lunch", rows[0].Get("Narration"))

	// short record padded
	assert.Equal(t, domain.Field{Name: "Narration", Value: ""}, rows[1][3])
	assert.Equal(t, "(50)", rows[1].Get("Amount"))

	// surplus dropped
	assert.Len(t, rows[2], 4)
}

func TestParse_HeaderOnlyAndEmpty(t *testing.T) {
	rows, err := csvparse.Parse("Mode,OB\n")
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = csvparse.Parse("")
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestParse_KeepsWhitespaceForSanitizer(t *testing.T) {
	rows, err := csvparse.Parse(" Mode , OB \n Cash , 1000 \n")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, " Mode ", rows[0][0].Name)
	assert.Equal(t, " 1000 ", rows[0][1].Value)
}
