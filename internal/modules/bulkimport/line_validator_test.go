package bulkimport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLine(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		want   []Violation
		record CandidateRecord
	}{
		{name: "valid", text: "Suria KLCC,3.157324,101.712198",
			record: CandidateRecord{Name: "Suria KLCC", Latitude: 3.157324, Longitude: 101.712198, UserID: 5}},
		{name: "trims name and numbers", text: "  Zoo Negara , 3.2195416 , 101.75929564 ",
			record: CandidateRecord{Name: "Zoo Negara", Latitude: 3.2195416, Longitude: 101.75929564, UserID: 5}},
		{name: "bounds inclusive", text: "Corner,-90,180",
			record: CandidateRecord{Name: "Corner", Latitude: -90, Longitude: 180, UserID: 5}},
		{name: "scientific notation", text: "Sci,1e1,-1.5E2",
			record: CandidateRecord{Name: "Sci", Latitude: 10, Longitude: -150, UserID: 5}},
		{name: "blank line", text: "", want: []Violation{MalformedLine}},
		{name: "two fields", text: "Zoo,3.2", want: []Violation{MalformedLine}},
		{name: "four fields", text: "Zoo,3.2,101.7,extra", want: []Violation{MalformedLine}},
		{name: "four empty fields", text: ",,,", want: []Violation{MalformedLine}},
		{name: "missing name", text: " ,10,20", want: []Violation{MissingName}},
		{name: "latitude out of range", text: "Bad,999,50", want: []Violation{InvalidLatitude}},
		{name: "latitude not a number", text: "Bad,north,50", want: []Violation{InvalidLatitude}},
		{name: "latitude trailing junk", text: "Bad,12abc,50", want: []Violation{InvalidLatitude}},
		{name: "latitude NaN", text: "Bad,NaN,50", want: []Violation{InvalidLatitude}},
		{name: "longitude infinite", text: "Bad,10,Inf", want: []Violation{InvalidLongitude}},
		{name: "longitude out of range", text: "Bad,10,-180.0001", want: []Violation{InvalidLongitude}},
		{name: "name and latitude", text: ",91,20", want: []Violation{MissingName, InvalidLatitude}},
		{name: "everything", text: ",,", want: []Violation{MissingName, InvalidLatitude, InvalidLongitude}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record, lineErr := ValidateLine(ManifestLine{Index: 3, Text: tc.text}, 5)
			if tc.want == nil {
				require.Nil(t, lineErr)
				assert.Equal(t, tc.record, record)
				return
			}
			require.NotNil(t, lineErr)
			assert.Equal(t, 3, lineErr.Line)
			assert.Equal(t, tc.want, lineErr.Violations)
			assert.Equal(t, CandidateRecord{}, record)
		})
	}
}

func TestLineError_Detail(t *testing.T) {
	le := LineError{Line: 4, Violations: []Violation{MissingName, InvalidLongitude}}
	assert.Equal(t, "Line 4: Name is missing. Invalid Longitude. Must be -180 to 180.", le.Detail())
	assert.True(t, le.Has(MissingName))
	assert.False(t, le.Has(InvalidLatitude))

	malformed := LineError{Line: 1, Violations: []Violation{MalformedLine}}
	assert.Equal(t, "Line 1: Missing data. Expected 'Name,Latitude,Longitude'.", malformed.Detail())
}

func scanAll(t *testing.T, input string, oneByte bool) []ManifestLine {
	t.Helper()
	r := strings.NewReader(input)
	var lines []ManifestLine
	var err error
	if oneByte {
		err = ScanManifest(iotest.OneByteReader(r), func(l ManifestLine) { lines = append(lines, l) })
	} else {
		err = ScanManifest(r, func(l ManifestLine) { lines = append(lines, l) })
	}
	require.NoError(t, err)
	return lines
}

func TestScanManifest_LineEndings(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single no newline", "a", []string{"a"}},
		{"trailing LF", "a\nb\n", []string{"a", "b"}},
		{"CRLF", "a\r\nb\r\n", []string{"a", "b"}},
		{"lone CR", "a\rb\rc", []string{"a", "b", "c"}},
		{"mixed", "a\r\nb\rc\nd", []string{"a", "b", "c", "d"}},
		{"trailing CR", "a\r", []string{"a"}},
		{"blank line kept", "a\n\nb", []string{"a", "", "b"}},
		{"CR then CRLF", "a\r\r\nb", []string{"a", "", "b"}},
		{"BOM stripped", "\ufeffa,1,2\nb", []string{"a,1,2", "b"}},
	}

	for _, tc := range cases {
		for _, oneByte := range []bool{false, true} {
			lines := scanAll(t, tc.input, oneByte)
			var got []string
			for i, l := range lines {
				assert.Equal(t, i+1, l.Index)
				got = append(got, l.Text)
			}
			assert.Equal(t, tc.want, got, "%s (oneByte=%t)", tc.name, oneByte)
		}
	}
}

func TestValidateManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abs.txt")
	writeFile(t, path, "Suria KLCC,3.157324,101.712198\r\n,10,20\r\nZoo,91,20\r\n\r\nZoo Negara,3.2195416,101.75929564")

	records, lineErrors, err := ValidateManifest(path, 9)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "Suria KLCC", records[0].Name)
	assert.Equal(t, "Zoo Negara", records[1].Name)
	assert.Equal(t, int64(9), records[1].UserID)

	require.Len(t, lineErrors, 3)
	assert.Equal(t, LineError{Line: 2, Violations: []Violation{MissingName}}, lineErrors[0])
	assert.Equal(t, LineError{Line: 3, Violations: []Violation{InvalidLatitude}}, lineErrors[1])
	assert.Equal(t, LineError{Line: 4, Violations: []Violation{MalformedLine}}, lineErrors[2])
}

func TestValidateManifest_Unreadable(t *testing.T) {
	_, _, err := ValidateManifest(filepath.Join(t.TempDir(), "missing.txt"), 1)
	assert.ErrorIs(t, err, ErrManifestUnreadable)

	path := filepath.Join(t.TempDir(), "long.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("a", maxLineBytes+10)), 0o600))
	_, _, err = ValidateManifest(path, 1)
	assert.ErrorIs(t, err, ErrManifestUnreadable)
}
