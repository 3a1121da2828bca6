package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePipelineCSVSynonymHeaders(t *testing.T) {
	a := `Deal Name,Stage,Date Created,Date Modified,Deal Value,Lead Source
Acme expansion,Lead,2024-01-10,2024-01-15,12000,Referral
Beta rollout,Qualified,2024-01-12,2024-01-20,8000,Webinar`

	b := `Opportunity Name,Pipeline Stage,Created Date,Last Modified,Amount,Source
Acme expansion,Lead,2024-01-10,2024-01-15,12000,Referral
Beta rollout,Qualified,2024-01-12,2024-01-20,8000,Webinar`

	rowsA, err := ParsePipelineCSV(a)
	require.NoError(t, err)
	rowsB, err := ParsePipelineCSV(b)
	require.NoError(t, err)

	assert.Equal(t, rowsA, rowsB, "synonym headers must parse identically")
	require.Len(t, rowsA, 2)
	assert.Equal(t, "Acme expansion", rowsA[0].DealName)
	assert.Equal(t, "Lead", rowsA[0].Stage)
	assert.Equal(t, 12000.0, rowsA[0].Value)
	assert.Equal(t, "Referral", rowsA[0].Source)
}

func TestParsePipelineCSVCaseInsensitiveHeaders(t *testing.T) {
	rows, err := ParsePipelineCSV("DEAL NAME,stage\nBig deal,Lead\n")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Big deal", rows[0].DealName)
}

func TestParsePipelineCSVDropsIncompleteRows(t *testing.T) {
	csvText := `Deal Name,Stage,Amount
Good deal,Lead,1000
,Lead,2000
Nameless stage,,3000
Another good,Closed Won,4000`

	rows, err := ParsePipelineCSV(csvText)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Good deal", rows[0].DealName)
	assert.Equal(t, "Another good", rows[1].DealName)
}

func TestParsePipelineCSVNoUsableRows(t *testing.T) {
	_, err := ParsePipelineCSV("Deal Name,Stage\n,\n,\n")
	assert.ErrorIs(t, err, ErrNoUsableRows)

	_, err = ParsePipelineCSV("Deal Name,Stage\n")
	assert.ErrorIs(t, err, ErrNoUsableRows)
}

func TestParsePipelineCSVMoneyAndDates(t *testing.T) {
	csvText := `Deal Name,Stage,Date Created,Date Modified,Amount
Formatted,Lead,1/15/2024,2024-02-01,"$12,500.50"
Unparseable,Lead,someday,never,not-a-number`

	rows, err := ParsePipelineCSV(csvText)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 12500.50, rows[0].Value)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), rows[0].Created)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), rows[0].Modified)

	// Bad optional fields degrade to zero values, row is kept.
	assert.True(t, rows[1].Created.IsZero())
	assert.Equal(t, 0.0, rows[1].Value)
}

func TestParsePipelineCSVVariableFieldCounts(t *testing.T) {
	// Short row still parses; missing trailing columns read as empty.
	rows, err := ParsePipelineCSV("Deal Name,Stage,Amount\nShorty,Lead\n")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].Value)
}
