package records

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/convrt/rag-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func format(t *testing.T, input, filename, description string) (string, int, error) {
	t.Helper()
	var out bytes.Buffer
	n, err := Format(strings.NewReader(input), filename, description, &out)
	return out.String(), n, err
}

func TestFormat_SingleRowWithDescription(t *testing.T) {
	out, n, err := format(t, "Region,Total\nWest,120\n", "sales.csv", "Q1 sales")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "Record 1: Context: Q1 sales. Source File: sales.csv. Region: West. Total: 120\n\n", out)
}

func TestFormat_NoDescriptionOmitsContext(t *testing.T) {
	out, _, err := format(t, "a,b\n1,2\n3,4\n", "data.csv", "")
	require.NoError(t, err)
	assert.NotContains(t, out, "Context:")
	assert.Equal(t,
		"Record 1: Source File: data.csv. a: 1. b: 2\n\n"+
			"Record 2: Source File: data.csv. a: 3. b: 4\n\n",
		out)
}

func TestFormat_OneRecordPerRowInOrder(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("id,name\n")
	for i := 1; i <= 25; i++ {
		sb.WriteString(strings.Repeat("x", i%3) + "," + "row\n")
	}

	out, n, err := format(t, sb.String(), "rows.csv", "desc")
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	records := strings.Split(strings.TrimSuffix(out, "\n\n"), "\n\n")
	require.Len(t, records, 25)
	for i, rec := range records {
		assert.True(t, strings.HasPrefix(rec, "Record "+strconv.Itoa(i+1)+": Context: desc. "), rec)
		assert.Contains(t, rec, "Source File: rows.csv. ")
	}
}

func TestFormat_MissingValues(t *testing.T) {
	out, _, err := format(t, "a,b,c\n1,,NA\n2\n", "m.csv", "")
	require.NoError(t, err)
	assert.Equal(t,
		"Record 1: Source File: m.csv. a: 1. b: nan. c: nan\n\n"+
			"Record 2: Source File: m.csv. a: 2. b: nan. c: nan\n\n",
		out)
}

func TestFormat_DuplicateAndBlankColumns(t *testing.T) {
	out, _, err := format(t, "a,a,,a\n1,2,3,4\n", "d.csv", "")
	require.NoError(t, err)
	assert.Equal(t, "Record 1: Source File: d.csv. a: 1. a.1: 2. Unnamed: 2: 3. a.2: 4\n\n", out)
}

func TestFormat_QuotedFieldsAndBlankLines(t *testing.T) {
	out, n, err := format(t, "name,note\n\n\"Smith, J\",\"said \"\"hi\"\"\"\n\n", "q.csv", "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "Record 1: Source File: q.csv. name: Smith, J. note: said \"hi\"\n\n", out)
}

func TestFormat_StripsByteOrderMark(t *testing.T) {
	out, _, err := format(t, "\ufeffcol\nv\n", "bom.csv", "")
	require.NoError(t, err)
	assert.Equal(t, "Record 1: Source File: bom.csv. col: v\n\n", out)
}

func TestFormat_HeaderOnly(t *testing.T) {
	out, n, err := format(t, "a,b\n", "h.csv", "")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, out)
}

func TestFormat_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "only blank lines", input: "\n\n"},
		{name: "too many fields", input: "a,b\n1,2,3\n"},
		{name: "bare quote", input: "a,b\n1,x\"y\n"},
		{name: "invalid utf8", input: "a\n\xc3\x28\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := format(t, tt.input, "bad.csv", "")
			require.Error(t, err)
			assert.ErrorIs(t, err, entity.ErrFormat)
		})
	}
}

func TestWriteFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "sales_processed.txt")

	n, err := WriteFile(strings.NewReader("Region,Total\nWest,120\nEast,80\n"), "sales.csv", "", dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t,
		"Record 1: Source File: sales.csv. Region: West. Total: 120\n\n"+
			"Record 2: Source File: sales.csv. Region: East. Total: 80\n\n",
		string(data))
}

