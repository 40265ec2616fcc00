package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpavluk/slack-lesson-bot/internal/domain/entity"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVLoader_LoadSubjectCatalog(t *testing.T) {
	path := writeFile(t, "subjects.csv",
		"Math,https://files.example.com/m.png,https://wiki.example.com/math\n"+
			"Chemistry,https://files.example.com/c.png,https://wiki.example.com/chem,https://labs.example.com\n"+
			"PE,https://files.example.com/pe.png\n")

	catalog, err := New().LoadSubjectCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog, 3)

	math, ok := catalog["math"]
	require.True(t, ok, "keys should be lowercased")
	assert.Equal(t, "Math", math.Name)
	assert.Equal(t, "https://files.example.com/m.png", math.ImageURL)
	assert.Equal(t, []string{"https://wiki.example.com/math"}, math.Links)

	assert.Len(t, catalog["chemistry"].Links, 2)
	assert.Empty(t, catalog["pe"].Links, "links are optional")
}

func TestCSVLoader_LoadSubjectCatalog_malformedRow(t *testing.T) {
	path := writeFile(t, "subjects.csv", "Math,https://files.example.com/m.png\nChemistry\n")

	_, err := New().LoadSubjectCatalog(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestCSVLoader_LoadSubjectCatalog_missingFile(t *testing.T) {
	_, err := New().LoadSubjectCatalog(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestCSVLoader_LoadDaySchedule(t *testing.T) {
	path := writeFile(t, "period_1.csv",
		"Math,Chemistry,PE\n"+
			"Chemistry,,Math\n"+
			"PE,Math,\n")

	row, err := New().LoadDaySchedule(path, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Chemistry", "", "Math"}, row)
}

func TestCSVLoader_LoadDaySchedule_missingWeekday(t *testing.T) {
	path := writeFile(t, "period_1.csv", "Math,Chemistry\n")

	_, err := New().LoadDaySchedule(path, 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no row for weekday 4")
}

func TestCSVLoader_LoadTimetable(t *testing.T) {
	path := writeFile(t, "timetable.csv",
		"09:00:00,09:45:00\n"+
			"10:00:00,10:45:00,extra\n")

	rows, err := New().LoadTimetable(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, entity.ClockTime{Hour: 9, Minute: 0, Second: 0}, rows[0].Start)
	assert.Equal(t, entity.ClockTime{Hour: 9, Minute: 45, Second: 0}, rows[0].End)
	assert.Equal(t, entity.ClockTime{Hour: 10, Minute: 45, Second: 0}, rows[1].End, "extra columns are ignored")
}

func TestCSVLoader_LoadTimetable_invalidTime(t *testing.T) {
	path := writeFile(t, "timetable.csv", "09:00:00,09:45:00\n25:00:00,10:45:00\n")

	_, err := New().LoadTimetable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}
